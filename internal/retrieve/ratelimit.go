package retrieve

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestInterval is the minimum spacing between managed-API calls.
// The API enforces a hard per-minute ceiling; staying above 7s per request
// keeps us under it rather than reacting to 429s after the fact.
const DefaultRequestInterval = 7 * time.Second

// IntervalLimiter serializes outbound managed-API calls so that at least a
// fixed interval elapses between them. Shared across all concurrent crawls.
type IntervalLimiter struct {
	limiter *rate.Limiter
}

// NewIntervalLimiter creates a limiter with the given minimum interval.
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Acquire blocks until the interval since the previous acquisition has
// elapsed, or the context is cancelled.
func (l *IntervalLimiter) Acquire(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
