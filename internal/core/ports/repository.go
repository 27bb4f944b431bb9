package ports

import (
	"context"
	"time"

	"github.com/hollis-labs/rotation/internal/core/domain"
)

// ListenRepository persists completed album listens.
type ListenRepository interface {
	SaveListen(ctx context.Context, listen domain.AlbumListen) error
	ListListens(ctx context.Context, userID string) ([]domain.AlbumListen, error)
	HasListen(ctx context.Context, userID, albumID string, date time.Time) (bool, error)
}

// BacklogRepository persists a user's listening backlog.
type BacklogRepository interface {
	ListBacklog(ctx context.Context, userID string) ([]domain.BacklogItem, error)
	AddBacklogItem(ctx context.Context, userID string, item domain.BacklogItem) error
	RemoveBacklogItem(ctx context.Context, userID, spotifyID string) error
}

// ScheduleRepository persists future-listen schedule rows.
type ScheduleRepository interface {
	SaveScheduled(ctx context.Context, scheduled domain.ScheduledListen) error
	ScheduledDates(ctx context.Context, userID string) ([]time.Time, error)
	UpcomingScheduled(ctx context.Context, userID string, from time.Time) ([]domain.ScheduledListen, error)
}

// UserDirectory enumerates users known to the system, for the daily
// auto-analysis fan-out.
type UserDirectory interface {
	ActiveUsers(ctx context.Context) ([]string, error)
}
