package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/hollis-labs/rotation/internal/core/domain"
	"github.com/hollis-labs/rotation/internal/core/ports"
)

// Tracker coordinates the play-event feed, the pure analysis and scheduling
// engines, and the repositories.
type Tracker struct {
	spotify  ports.RecentlyPlayedProvider
	listens  ports.ListenRepository
	backlog  ports.BacklogRepository
	schedule ports.ScheduleRepository
	rng      *rand.Rand
	now      func() time.Time
}

// NewTracker constructs a Tracker with its own RNG for backlog sampling.
func NewTracker(spotify ports.RecentlyPlayedProvider, listens ports.ListenRepository, backlog ports.BacklogRepository, schedule ports.ScheduleRepository) *Tracker {
	return &Tracker{
		spotify:  spotify,
		listens:  listens,
		backlog:  backlog,
		schedule: schedule,
		// #nosec G404 -- weighted backlog sampling, not security-sensitive
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// RecordDay fetches the user's recent plays, analyzes the given calendar day
// and persists every newly finished album as a streaming listen. The returned
// slice holds only the listens saved by this call.
func (t *Tracker) RecordDay(ctx context.Context, userID string, day time.Time) ([]domain.AlbumListen, error) {
	events, err := t.spotify.RecentlyPlayed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch play feed: %w", err)
	}

	results, err := domain.AnalyzeDay(events, day, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("service: analysis failed: %w", err)
	}

	date := midnightUTC(day)
	var saved []domain.AlbumListen
	for _, res := range results {
		if !res.Finished {
			continue
		}
		exists, err := t.listens.HasListen(ctx, userID, res.AlbumID, date)
		if err != nil {
			return nil, fmt.Errorf("service: failed to check existing listen: %w", err)
		}
		if exists {
			log.Printf("DEBUG tracker: listen for album %s on %s already recorded", res.AlbumID, date.Format("2006-01-02"))
			continue
		}

		listen := domain.AlbumListen{
			ID:        uuid.NewString(),
			UserID:    userID,
			AlbumID:   res.AlbumID,
			AlbumName: res.AlbumName,
			Date:      date,
			Order:     res.Order,
			Method:    domain.MethodStreaming,
		}
		if err := t.listens.SaveListen(ctx, listen); err != nil {
			return nil, fmt.Errorf("service: failed to save listen: %w", err)
		}
		saved = append(saved, listen)
	}
	return saved, nil
}

// ScheduleBacklog assigns backlog items to the next days open dates and
// persists the assignments. An empty backlog is not an error; the result is
// simply empty.
func (t *Tracker) ScheduleBacklog(ctx context.Context, userID string, days int) ([]domain.ScheduledListen, error) {
	pool, err := t.backlog.ListBacklog(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load backlog: %w", err)
	}
	if len(pool) == 0 {
		return nil, nil
	}

	existing, err := t.schedule.ScheduledDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load scheduled dates: %w", err)
	}

	assignments, err := domain.ScheduleBacklog(t.rng, t.now(), pool, existing, days)
	if err != nil {
		return nil, fmt.Errorf("service: scheduling failed: %w", err)
	}

	scheduled := make([]domain.ScheduledListen, 0, len(assignments))
	for _, a := range assignments {
		row := domain.ScheduledListen{UserID: userID, Item: a.Item, Date: a.Date}
		if err := t.schedule.SaveScheduled(ctx, row); err != nil {
			return nil, fmt.Errorf("service: failed to save schedule for %s: %w", a.Date.Format("2006-01-02"), err)
		}
		scheduled = append(scheduled, row)
	}
	return scheduled, nil
}

// LogListen records a manually logged listen (vinyl or streaming).
func (t *Tracker) LogListen(ctx context.Context, userID, albumID, albumName string, day time.Time, order domain.ListenOrder, method domain.ListenMethod) (domain.AlbumListen, error) {
	if albumID == "" || albumName == "" {
		return domain.AlbumListen{}, fmt.Errorf("service: album id and name are required")
	}
	listen := domain.AlbumListen{
		ID:        uuid.NewString(),
		UserID:    userID,
		AlbumID:   albumID,
		AlbumName: albumName,
		Date:      midnightUTC(day),
		Order:     order,
		Method:    method,
	}
	if err := t.listens.SaveListen(ctx, listen); err != nil {
		return domain.AlbumListen{}, fmt.Errorf("service: failed to save listen: %w", err)
	}
	return listen, nil
}

// History returns the user's recorded album listens.
func (t *Tracker) History(ctx context.Context, userID string) ([]domain.AlbumListen, error) {
	listens, err := t.listens.ListListens(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load listens: %w", err)
	}
	return listens, nil
}

// Upcoming returns the user's scheduled listens from today onward.
func (t *Tracker) Upcoming(ctx context.Context, userID string) ([]domain.ScheduledListen, error) {
	rows, err := t.schedule.UpcomingScheduled(ctx, userID, midnightUTC(t.now()))
	if err != nil {
		return nil, fmt.Errorf("service: failed to load schedule: %w", err)
	}
	return rows, nil
}

// Backlog returns the user's backlog items.
func (t *Tracker) Backlog(ctx context.Context, userID string) ([]domain.BacklogItem, error) {
	items, err := t.backlog.ListBacklog(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load backlog: %w", err)
	}
	return items, nil
}

// AddToBacklog stores a new backlog item stamped with the current time.
func (t *Tracker) AddToBacklog(ctx context.Context, userID string, item domain.BacklogItem) (domain.BacklogItem, error) {
	if item.SpotifyID == "" || item.Name == "" {
		return domain.BacklogItem{}, fmt.Errorf("service: spotify id and name are required")
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = t.now()
	}
	if err := t.backlog.AddBacklogItem(ctx, userID, item); err != nil {
		return domain.BacklogItem{}, fmt.Errorf("service: failed to add backlog item: %w", err)
	}
	return item, nil
}

// RemoveFromBacklog deletes one backlog item.
func (t *Tracker) RemoveFromBacklog(ctx context.Context, userID, spotifyID string) error {
	if err := t.backlog.RemoveBacklogItem(ctx, userID, spotifyID); err != nil {
		return fmt.Errorf("service: failed to remove backlog item: %w", err)
	}
	return nil
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
