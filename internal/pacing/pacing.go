package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Policy enforces a minimum interval between consecutive calls to one
// external service. The first call passes immediately; each following call
// waits out the remainder of the interval. A zero or negative interval
// disables pacing entirely.
type Policy struct {
	limiter *rate.Limiter
}

// NewPolicy builds a policy with the given minimum inter-call interval.
func NewPolicy(interval time.Duration) *Policy {
	if interval <= 0 {
		return &Policy{}
	}
	return &Policy{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is allowed or the context is cancelled.
func (p *Policy) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
