package domain

import "errors"

var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("domain: not found")

	// ErrMissingTrackData indicates a play event is missing track or disc
	// metadata. The analyzer refuses to guess defaults because a wrong guess
	// silently corrupts the completion verdict.
	ErrMissingTrackData = errors.New("domain: play event missing track metadata")

	// ErrInvalidDayCount indicates a negative day count was passed to the
	// scheduler. Clamping to zero would mask a caller bug.
	ErrInvalidDayCount = errors.New("domain: day count must not be negative")
)
