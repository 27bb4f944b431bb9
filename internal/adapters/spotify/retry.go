package spotify

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultMaxRetries  = 3
	defaultBaseBackoff = 500 * time.Millisecond
)

// doRequestWithRetry issues req on httpClient, retrying rate limits and
// server errors with exponential backoff. Every request this client issues is
// a body-less GET, so an attempt can reuse req as-is.
func (c *Client) doRequestWithRetry(httpClient *http.Client, req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("spotify adapter: request canceled: %w", err)
		}

		resp, err := httpClient.Do(req)
		retryAfter, retry := shouldRetry(resp, err)
		if !retry {
			return resp, err
		}

		if err != nil {
			log.Printf("WARN spotify adapter: attempt %d/%d failed: %v", attempt, c.maxRetries, err)
		} else {
			log.Printf("WARN spotify adapter: attempt %d/%d got status %d", attempt, c.maxRetries, resp.StatusCode)
			_ = resp.Body.Close()
		}

		if attempt == c.maxRetries {
			if err != nil {
				return nil, fmt.Errorf("spotify adapter: request failed after %d attempts: %w", c.maxRetries, err)
			}
			return nil, fmt.Errorf("spotify adapter: request failed after %d attempts: status %d", c.maxRetries, resp.StatusCode)
		}

		backoff := c.baseBackoff << (attempt - 1)
		if retryAfter > backoff {
			backoff = retryAfter
		}
		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("spotify adapter: request failed after %d attempts", c.maxRetries)
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}
	return 0, false
}

// parseRetryAfter reads the Retry-After header, which Spotify sends in
// seconds on 429 responses. The HTTP-date form is tolerated too.
func parseRetryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(raw); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("spotify adapter: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
