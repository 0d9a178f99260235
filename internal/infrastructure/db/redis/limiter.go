package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter enforces a fixed-window attempt limit backed by Redis.
// Key format: ratelimit:<scope>:<subject>
//
// Token verification stays pure computation; the limiter only guards the
// issuance endpoints, which touch the store anyway.
type AttemptLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewAttemptLimiter creates an AttemptLimiter allowing max attempts per
// subject within each window.
func NewAttemptLimiter(client *redis.Client, max int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, max: int64(max), window: window}
}

// Allow records one attempt for subject under scope and reports whether it
// is still within the window's budget. The first attempt of a window sets
// the key's expiry.
func (l *AttemptLimiter) Allow(ctx context.Context, scope, subject string) (bool, error) {
	key := l.key(scope, subject)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	return count <= l.max, nil
}

func (l *AttemptLimiter) key(scope, subject string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, subject)
}
