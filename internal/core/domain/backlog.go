package domain

import "time"

// BacklogItem is an album a user intends to listen to later. CreatedAt is the
// sole signal of age; no other field affects selection weight.
type BacklogItem struct {
	SpotifyID string
	Name      string
	Artists   string
	CreatedAt time.Time
}

// Assignment pairs a backlog item with the future date it was scheduled for.
type Assignment struct {
	Item BacklogItem
	Date time.Time
}

// ScheduledListen is a persisted future-listen schedule row.
type ScheduledListen struct {
	UserID string
	Item   BacklogItem
	Date   time.Time
}
