package worker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles calls to the completion service. The rate ceiling plus
// a fixed inter-batch delay keep dispatch under the service's limits; this
// is a throttle, not a correctness mechanism.
type Limiter struct {
	limiter *rate.Limiter
	delay   time.Duration
}

// NewLimiter creates a limiter allowing requestsPerSecond with the given
// burst, inserting delay between consecutive dispatches
func NewLimiter(requestsPerSecond float64, burst int, delay time.Duration) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		delay:   delay,
	}
}

// Wait blocks until the next dispatch is allowed
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow checks if a dispatch is allowed without waiting
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// WaitWithDelay waits for rate clearance and then the configured
// inter-batch delay
func (l *Limiter) WaitWithDelay(ctx context.Context) error {
	if err := l.Wait(ctx); err != nil {
		return err
	}

	if l.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.delay):
		}
	}

	return nil
}
