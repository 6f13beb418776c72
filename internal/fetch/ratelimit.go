// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerSecond is the request budget for the public arXiv
	// bucket, shared by every worker of a run.
	DefaultRequestsPerSecond = 4.0
	DefaultBurst             = 1
)

// RateLimiter is a token bucket shared by all requests to the object
// store. A 429 response pauses every caller until the server's retry time.
type RateLimiter struct {
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// NewRateLimiter returns a limiter allowing rps requests per second with
// the given burst. Non-positive values take the defaults.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return r.limiter.Wait(ctx)
}

// RecordRateLimit pushes the shared retry time out by d. A shorter backoff
// never shortens one already in effect.
func (r *RateLimiter) RecordRateLimit(d time.Duration) {
	at := time.Now().Add(d)

	r.mu.Lock()
	defer r.mu.Unlock()
	if at.After(r.retryAt) {
		r.retryAt = at
	}
}

// Allow reports whether a request may be sent now without waiting.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
