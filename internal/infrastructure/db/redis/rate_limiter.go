package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/madinti/madinti-api/internal/core/ports"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter is a fixed-window counter per key.
// Key format: ratelimit:<key>
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit requests per key in each window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow counts one request against key.
func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateLimitDecision, error) {
	k := rateLimitPrefix + key

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return ports.RateLimitDecision{}, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return ports.RateLimitDecision{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil {
		return ports.RateLimitDecision{}, fmt.Errorf("rate limit ttl: %w", err)
	}
	if ttl < 0 {
		// a crash between INCR and EXPIRE left the key without a TTL
		_ = l.client.Expire(ctx, k, l.window).Err()
		ttl = l.window
	}

	remaining := l.limit - int(n)
	if remaining < 0 {
		remaining = 0
	}
	return ports.RateLimitDecision{
		Allowed:   int(n) <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetIn:   ttl,
	}, nil
}
