package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hollis-labs/rotation/internal/core/domain"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAdapter_Listens(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	listen := domain.AlbumListen{
		ID:        "l1",
		UserID:    "u1",
		AlbumID:   "alb1",
		AlbumName: "Test Album",
		Date:      date,
		Order:     domain.ListenOrderOrdered,
		Method:    domain.MethodStreaming,
	}
	if err := a.SaveListen(ctx, listen); err != nil {
		t.Fatalf("save listen: %v", err)
	}

	// Duplicate (same user/album/date) must be a silent no-op.
	dup := listen
	dup.ID = "l2"
	if err := a.SaveListen(ctx, dup); err != nil {
		t.Fatalf("save duplicate listen: %v", err)
	}

	got, err := a.ListListens(ctx, "u1")
	if err != nil {
		t.Fatalf("list listens: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("listens: got %d, want 1", len(got))
	}
	if got[0].AlbumName != "Test Album" || got[0].Order != domain.ListenOrderOrdered || got[0].Method != domain.MethodStreaming {
		t.Fatalf("listen fields not round-tripped: %+v", got[0])
	}
	if !got[0].Date.Equal(date) {
		t.Fatalf("date: got %v, want %v", got[0].Date, date)
	}

	has, err := a.HasListen(ctx, "u1", "alb1", date)
	if err != nil {
		t.Fatalf("has listen: %v", err)
	}
	if !has {
		t.Fatal("expected HasListen true for saved listen")
	}

	has, err = a.HasListen(ctx, "u1", "alb1", date.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("has listen: %v", err)
	}
	if has {
		t.Fatal("expected HasListen false for other date")
	}

	other, err := a.ListListens(ctx, "u2")
	if err != nil {
		t.Fatalf("list listens: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("users must not see each other's listens: %+v", other)
	}
}

func TestAdapter_Backlog(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	items := []domain.BacklogItem{
		{SpotifyID: "b2", Name: "Newer", Artists: "Artist B", CreatedAt: now},
		{SpotifyID: "b1", Name: "Older", Artists: "Artist A", CreatedAt: now.AddDate(0, 0, -30)},
	}
	for _, it := range items {
		if err := a.AddBacklogItem(ctx, "u1", it); err != nil {
			t.Fatalf("add backlog item: %v", err)
		}
	}

	got, err := a.ListBacklog(ctx, "u1")
	if err != nil {
		t.Fatalf("list backlog: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("backlog: got %d items, want 2", len(got))
	}
	// Oldest first.
	if got[0].SpotifyID != "b1" || got[1].SpotifyID != "b2" {
		t.Fatalf("backlog not sorted oldest-first: %+v", got)
	}

	// Re-adding updates metadata without duplicating.
	if err := a.AddBacklogItem(ctx, "u1", domain.BacklogItem{SpotifyID: "b1", Name: "Renamed", Artists: "Artist A", CreatedAt: now}); err != nil {
		t.Fatalf("re-add backlog item: %v", err)
	}
	got, err = a.ListBacklog(ctx, "u1")
	if err != nil {
		t.Fatalf("list backlog: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("backlog after re-add: got %d items, want 2", len(got))
	}

	if err := a.RemoveBacklogItem(ctx, "u1", "b1"); err != nil {
		t.Fatalf("remove backlog item: %v", err)
	}
	if err := a.RemoveBacklogItem(ctx, "u1", "b1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdapter_Schedule(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	day1 := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	first := domain.ScheduledListen{
		UserID: "u1",
		Item:   domain.BacklogItem{SpotifyID: "b1", Name: "One", Artists: "A"},
		Date:   day1,
	}
	if err := a.SaveScheduled(ctx, first); err != nil {
		t.Fatalf("save scheduled: %v", err)
	}
	if err := a.SaveScheduled(ctx, domain.ScheduledListen{
		UserID: "u1",
		Item:   domain.BacklogItem{SpotifyID: "b2", Name: "Two", Artists: "B"},
		Date:   day2,
	}); err != nil {
		t.Fatalf("save scheduled: %v", err)
	}

	// An occupied date is never overwritten.
	if err := a.SaveScheduled(ctx, domain.ScheduledListen{
		UserID: "u1",
		Item:   domain.BacklogItem{SpotifyID: "b3", Name: "Three", Artists: "C"},
		Date:   day1,
	}); err != nil {
		t.Fatalf("save conflicting scheduled: %v", err)
	}

	dates, err := a.ScheduledDates(ctx, "u1")
	if err != nil {
		t.Fatalf("scheduled dates: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("dates: got %d, want 2", len(dates))
	}
	if !dates[0].Equal(day1) || !dates[1].Equal(day2) {
		t.Fatalf("dates wrong: %+v", dates)
	}

	upcoming, err := a.UpcomingScheduled(ctx, "u1", day2)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 1 {
		t.Fatalf("upcoming: got %d, want 1", len(upcoming))
	}
	if upcoming[0].Item.SpotifyID != "b2" {
		t.Fatalf("upcoming item wrong: %+v", upcoming[0])
	}

	all, err := a.UpcomingScheduled(ctx, "u1", day1)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("upcoming from day1: got %d, want 2", len(all))
	}
	// Slot for day1 still holds the first item.
	if all[0].Item.SpotifyID != "b1" {
		t.Fatalf("occupied slot was overwritten: %+v", all[0])
	}
}

func TestAdapter_ActiveUsers(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if err := a.AddBacklogItem(ctx, "u1", domain.BacklogItem{SpotifyID: "b1", Name: "One", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("add backlog item: %v", err)
	}
	if err := a.SaveListen(ctx, domain.AlbumListen{
		ID: "l1", UserID: "u2", AlbumID: "alb", AlbumName: "A",
		Date: time.Now(), Order: domain.ListenOrderOrdered, Method: domain.MethodStreaming,
	}); err != nil {
		t.Fatalf("save listen: %v", err)
	}

	users, err := a.ActiveUsers(ctx)
	if err != nil {
		t.Fatalf("active users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users: got %v, want 2 distinct", users)
	}
}
