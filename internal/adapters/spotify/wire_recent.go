package spotify

import (
	"fmt"
	"sort"
	"time"

	"github.com/hollis-labs/rotation/internal/core/domain"
)

// recentlyPlayedResponse mirrors GET /me/player/recently-played.
type recentlyPlayedResponse struct {
	Items []playHistoryItem `json:"items"`
}

type playHistoryItem struct {
	Track    wireTrack `json:"track"`
	PlayedAt string    `json:"played_at"`
}

type wireTrack struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TrackNumber int       `json:"track_number"`
	DiscNumber  int       `json:"disc_number"`
	Album       wireAlbum `json:"album"`
}

type wireAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalTracks int    `json:"total_tracks"`
}

// mapPlayHistoryToDomain converts raw play-history items to domain events.
// The API returns newest-first; the analyzer wants ascending play time, so
// the result is re-sorted here.
func mapPlayHistoryToDomain(items []playHistoryItem) ([]domain.PlayEvent, error) {
	events := make([]domain.PlayEvent, 0, len(items))
	for _, item := range items {
		playedAt, err := time.Parse(time.RFC3339, item.PlayedAt)
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: bad played_at %q: %w", item.PlayedAt, err)
		}
		events = append(events, domain.PlayEvent{
			TrackID:     item.Track.ID,
			TrackNumber: item.Track.TrackNumber,
			DiscNumber:  item.Track.DiscNumber,
			Album: domain.AlbumRef{
				ID:          item.Track.Album.ID,
				Name:        item.Track.Album.Name,
				TotalTracks: item.Track.Album.TotalTracks,
			},
			PlayedAt: playedAt,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].PlayedAt.Before(events[j].PlayedAt)
	})
	return events, nil
}
