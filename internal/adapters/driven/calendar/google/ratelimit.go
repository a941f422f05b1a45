package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Conservative defaults, well below Google's per-user calendar quota.
const (
	defaultRequestsPerSecond = 5.0
	defaultBurst             = 10
	defaultBackoff           = 60 * time.Second
)

// rateLimiter paces page requests and backs off after a 429.
type rateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst)}
}

// Wait blocks until a request may be made, honouring any backoff.
func (r *rateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// backoff delays the next request after a rate limit response.
func (r *rateLimiter) backoff(d time.Duration) {
	if d <= 0 {
		d = defaultBackoff
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(d)
}
