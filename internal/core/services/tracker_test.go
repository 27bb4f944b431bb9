package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollis-labs/rotation/internal/core/domain"
)

// -- Mocks -------------------------------------------------------------------

type mockFeed struct {
	events []domain.PlayEvent
	err    error
}

func (m *mockFeed) RecentlyPlayed(_ context.Context, _ string) ([]domain.PlayEvent, error) {
	return m.events, m.err
}

type mockListens struct {
	saved    []domain.AlbumListen
	existing map[string]bool // albumID -> already recorded
	saveErr  error
}

func (m *mockListens) SaveListen(_ context.Context, l domain.AlbumListen) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, l)
	return nil
}

func (m *mockListens) ListListens(_ context.Context, _ string) ([]domain.AlbumListen, error) {
	return m.saved, nil
}

func (m *mockListens) HasListen(_ context.Context, _, albumID string, _ time.Time) (bool, error) {
	return m.existing[albumID], nil
}

type mockBacklog struct {
	items []domain.BacklogItem
	err   error
}

func (m *mockBacklog) ListBacklog(_ context.Context, _ string) ([]domain.BacklogItem, error) {
	return m.items, m.err
}

func (m *mockBacklog) AddBacklogItem(_ context.Context, _ string, item domain.BacklogItem) error {
	m.items = append(m.items, item)
	return nil
}

func (m *mockBacklog) RemoveBacklogItem(_ context.Context, _, spotifyID string) error {
	for i, it := range m.items {
		if it.SpotifyID == spotifyID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type mockSchedule struct {
	dates []time.Time
	saved []domain.ScheduledListen
}

func (m *mockSchedule) SaveScheduled(_ context.Context, s domain.ScheduledListen) error {
	m.saved = append(m.saved, s)
	return nil
}

func (m *mockSchedule) ScheduledDates(_ context.Context, _ string) ([]time.Time, error) {
	return m.dates, nil
}

func (m *mockSchedule) UpcomingScheduled(_ context.Context, _ string, from time.Time) ([]domain.ScheduledListen, error) {
	var out []domain.ScheduledListen
	for _, s := range m.saved {
		if !s.Date.Before(from) {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestTracker(feed *mockFeed, listens *mockListens, backlog *mockBacklog, schedule *mockSchedule) *Tracker {
	tr := NewTracker(feed, listens, backlog, schedule)
	// Deterministic draws and clock for assertions.
	// #nosec G404 -- test determinism
	tr.rng = rand.New(rand.NewSource(1))
	tr.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return tr
}

func feedEvent(albumID string, total, track int, playedAt time.Time) domain.PlayEvent {
	return domain.PlayEvent{
		TrackID:     albumID + "-" + string(rune('0'+track)),
		TrackNumber: track,
		DiscNumber:  1,
		Album:       domain.AlbumRef{ID: albumID, Name: "Album " + albumID, TotalTracks: total},
		PlayedAt:    playedAt,
	}
}

// -- Tests -------------------------------------------------------------------

func TestRecordDay(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return day.Add(time.Duration(min) * time.Minute) }

	feed := &mockFeed{events: []domain.PlayEvent{
		feedEvent("done", 2, 1, at(10)),
		feedEvent("done", 2, 2, at(14)),
		feedEvent("partial", 9, 1, at(20)),
	}}
	listens := &mockListens{existing: map[string]bool{}}
	tr := newTestTracker(feed, listens, &mockBacklog{}, &mockSchedule{})

	saved, err := tr.RecordDay(context.Background(), "u1", day)
	require.NoError(t, err)
	require.Len(t, saved, 1)

	got := saved[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "done", got.AlbumID)
	assert.Equal(t, domain.ListenOrderOrdered, got.Order)
	assert.Equal(t, domain.MethodStreaming, got.Method, "auto-detected listens are tagged streaming")
	assert.True(t, got.Date.Equal(day))
	assert.Len(t, listens.saved, 1)
}

func TestRecordDay_SkipsAlreadyRecorded(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	feed := &mockFeed{events: []domain.PlayEvent{
		feedEvent("done", 1, 1, day.Add(time.Hour)),
	}}
	listens := &mockListens{existing: map[string]bool{"done": true}}
	tr := newTestTracker(feed, listens, &mockBacklog{}, &mockSchedule{})

	saved, err := tr.RecordDay(context.Background(), "u1", day)
	require.NoError(t, err)
	assert.Empty(t, saved)
	assert.Empty(t, listens.saved)
}

func TestRecordDay_FeedError(t *testing.T) {
	feed := &mockFeed{err: errors.New("spotify down")}
	tr := newTestTracker(feed, &mockListens{}, &mockBacklog{}, &mockSchedule{})

	_, err := tr.RecordDay(context.Background(), "u1", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch play feed")
}

func TestRecordDay_MalformedFeed(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	broken := feedEvent("done", 1, 1, day.Add(time.Hour))
	broken.TrackNumber = 0
	feed := &mockFeed{events: []domain.PlayEvent{broken}}
	listens := &mockListens{}
	tr := newTestTracker(feed, listens, &mockBacklog{}, &mockSchedule{})

	_, err := tr.RecordDay(context.Background(), "u1", day)
	require.ErrorIs(t, err, domain.ErrMissingTrackData)
	assert.Empty(t, listens.saved, "no partial writes on malformed input")
}

func TestScheduleBacklog(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	backlog := &mockBacklog{items: []domain.BacklogItem{
		{SpotifyID: "b1", Name: "One", CreatedAt: now.AddDate(0, 0, -60)},
		{SpotifyID: "b2", Name: "Two", CreatedAt: now.AddDate(0, 0, -10)},
	}}
	schedule := &mockSchedule{dates: []time.Time{
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), // tomorrow already taken
	}}
	tr := newTestTracker(&mockFeed{}, &mockListens{}, backlog, schedule)

	scheduled, err := tr.ScheduleBacklog(context.Background(), "u1", 4)
	require.NoError(t, err)
	require.Len(t, scheduled, 2)

	seen := map[string]bool{}
	for _, s := range scheduled {
		assert.Equal(t, "u1", s.UserID)
		assert.False(t, s.Date.Equal(schedule.dates[0]), "occupied date must stay untouched")
		assert.False(t, seen[s.Item.SpotifyID], "item scheduled twice")
		seen[s.Item.SpotifyID] = true
	}
	assert.Len(t, schedule.saved, 2)
}

func TestScheduleBacklog_EmptyBacklog(t *testing.T) {
	schedule := &mockSchedule{}
	tr := newTestTracker(&mockFeed{}, &mockListens{}, &mockBacklog{}, schedule)

	scheduled, err := tr.ScheduleBacklog(context.Background(), "u1", 7)
	require.NoError(t, err)
	assert.Empty(t, scheduled)
	assert.Empty(t, schedule.saved)
}

func TestScheduleBacklog_InvalidDays(t *testing.T) {
	backlog := &mockBacklog{items: []domain.BacklogItem{{SpotifyID: "b1", Name: "One", CreatedAt: time.Now()}}}
	tr := newTestTracker(&mockFeed{}, &mockListens{}, backlog, &mockSchedule{})

	_, err := tr.ScheduleBacklog(context.Background(), "u1", -3)
	require.ErrorIs(t, err, domain.ErrInvalidDayCount)
}

func TestLogListen(t *testing.T) {
	listens := &mockListens{}
	tr := newTestTracker(&mockFeed{}, listens, &mockBacklog{}, &mockSchedule{})

	got, err := tr.LogListen(context.Background(), "u1", "alb", "An Album",
		time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC), domain.ListenOrderOrdered, domain.MethodVinyl)
	require.NoError(t, err)
	assert.Equal(t, domain.MethodVinyl, got.Method)
	assert.True(t, got.Date.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)), "date truncated to UTC midnight")

	_, err = tr.LogListen(context.Background(), "u1", "", "", time.Now(), domain.ListenOrderOrdered, domain.MethodVinyl)
	require.Error(t, err)
}

func TestAddToBacklog(t *testing.T) {
	backlog := &mockBacklog{}
	tr := newTestTracker(&mockFeed{}, &mockListens{}, backlog, &mockSchedule{})

	got, err := tr.AddToBacklog(context.Background(), "u1", domain.BacklogItem{SpotifyID: "b1", Name: "One"})
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero(), "creation time stamped")

	_, err = tr.AddToBacklog(context.Background(), "u1", domain.BacklogItem{})
	require.Error(t, err)
}
