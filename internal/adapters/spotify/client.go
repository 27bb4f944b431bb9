// Package spotify implements the recently-played feed adapter against the
// Spotify Web API.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/hollis-labs/rotation/internal/core/domain"
	"github.com/hollis-labs/rotation/internal/core/ports"
)

// The API caps the history window at 50 items; a day near the boundary may
// come back truncated and the analyzer tolerates that.
const recentlyPlayedLimit = 50

// DefaultBaseURL is the production Spotify Web API endpoint.
const DefaultBaseURL = "https://api.spotify.com/v1"

var spotifyEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.spotify.com/authorize",
	TokenURL: "https://accounts.spotify.com/api/token",
}

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	conf        *oauth2.Config
	maxRetries  int
	baseBackoff time.Duration

	mu     sync.Mutex
	tokens map[string]oauth2.TokenSource
}

// compile-time interface assertion
var _ ports.RecentlyPlayedProvider = (*Client)(nil)

// NewClient constructs a Spotify client. Without credentials (see
// SetCredentials) requests go out unauthenticated, which is only useful
// against a test server.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
		tokens:      make(map[string]oauth2.TokenSource),
	}
}

// SetRetryPolicy overrides the default retry count and backoff base.
// Non-positive values keep the defaults.
func (c *Client) SetRetryPolicy(maxRetries int, baseBackoff time.Duration) {
	if maxRetries > 0 {
		c.maxRetries = maxRetries
	}
	if baseBackoff > 0 {
		c.baseBackoff = baseBackoff
	}
}

// SetCredentials enables the OAuth2 refresh-token flow for user requests.
func (c *Client) SetCredentials(clientID, clientSecret string) {
	c.conf = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     spotifyEndpoint,
	}
}

// AuthorizeUser registers a user's refresh token. The token source caches
// access tokens and refreshes them as they expire.
func (c *Client) AuthorizeUser(userID, refreshToken string) {
	if c.conf == nil {
		return
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
	src := c.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[userID] = src
}

// RecentlyPlayed fetches the user's recent play events, mapped to domain
// events and sorted ascending by play time.
func (c *Client) RecentlyPlayed(ctx context.Context, userID string) ([]domain.PlayEvent, error) {
	url := fmt.Sprintf("%s/me/player/recently-played?limit=%d", c.baseURL, recentlyPlayedLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: %w", err)
	}

	httpClient, err := c.userClient(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequestWithRetry(httpClient, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify adapter: recently-played status %d", resp.StatusCode)
	}

	var body recentlyPlayedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("spotify adapter: recently-played decode error: %w", err)
	}

	return mapPlayHistoryToDomain(body.Items)
}

// userClient resolves the HTTP client for a user: the OAuth2-wrapped client
// when credentials are configured, the bare client otherwise.
func (c *Client) userClient(ctx context.Context, userID string) (*http.Client, error) {
	if c.conf == nil {
		return c.httpClient, nil
	}

	c.mu.Lock()
	src, ok := c.tokens[userID]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("spotify adapter: user %s: %w", userID, ports.ErrNoUserToken)
	}

	return oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), src), nil
}
