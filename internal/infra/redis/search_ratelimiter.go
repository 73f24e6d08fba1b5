package redis

import (
	"context"
	"fmt"
	"time"
)

type limiterClient interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// SearchRateLimiter bounds how many provider searches a user may trigger
// within a fixed window.
type SearchRateLimiter struct {
	client      limiterClient
	window      time.Duration
	maxRequests int64
}

// NewSearchRateLimiter creates a new limiter.
func NewSearchRateLimiter(client limiterClient, window time.Duration, maxRequests int) *SearchRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if maxRequests <= 0 {
		maxRequests = 20
	}
	return &SearchRateLimiter{
		client:      client,
		window:      window,
		maxRequests: int64(maxRequests),
	}
}

// Allow returns true while the user stays under the per-window budget.
func (l *SearchRateLimiter) Allow(ctx context.Context, userID int64) (bool, error) {
	key := fmt.Sprintf("search:ratelimit:%d", userID)
	count, err := l.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}
	if count == 1 {
		// First hit in this window opens it.
		if err := l.client.Expire(ctx, key, l.window); err != nil {
			return false, err
		}
	}
	return count <= l.maxRequests, nil
}
