package domain

import "time"

// AlbumRef is the album snapshot attached to a play event.
type AlbumRef struct {
	ID          string
	Name        string
	TotalTracks int
}

// PlayEvent represents one timestamped play of one track, as reported by the
// streaming service's recently-played feed. The same track may appear more
// than once (replays), and the same album may appear under different tracks.
type PlayEvent struct {
	TrackID     string
	TrackNumber int
	DiscNumber  int
	Album       AlbumRef
	PlayedAt    time.Time
}

// AlbumPlayGroup collects all play events for one album within one day,
// preserving the chronological order of appearance. Built fresh per analysis
// run and never persisted.
type AlbumPlayGroup struct {
	Album  AlbumRef
	Tracks []PlayEvent
}
