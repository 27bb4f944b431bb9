package ports

import (
	"context"
	"errors"

	"github.com/hollis-labs/rotation/internal/core/domain"
)

// ErrNoUserToken indicates the provider has no credentials for a user.
var ErrNoUserToken = errors.New("no token for user")

// RecentlyPlayedProvider fetches a user's recent play events from the
// streaming service. The feed is bounded by the upstream API's history
// window, so a day near the window boundary may be incomplete.
type RecentlyPlayedProvider interface {
	RecentlyPlayed(ctx context.Context, userID string) ([]domain.PlayEvent, error)
}
