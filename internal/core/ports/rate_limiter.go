package ports

import (
	"context"
	"time"
)

// RateLimitDecision is the outcome of counting one request.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// RateLimiter counts requests per key within a window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitDecision, error)
}
