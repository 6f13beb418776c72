// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the object-store client.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff on HTTP 429 when the server sends no
// Retry-After header. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

const defaultMaxRetries = 5

// Throttle is notified of every 429 with the delay the server asked for.
// fetch.RateLimiter implements it so that all workers back off together.
type Throttle interface {
	RecordRateLimit(retryAfter time.Duration)
}

// DoWithRetry executes req and retries on HTTP 429 (Too Many Requests).
// The wait is the server's Retry-After when present, otherwise
// RetryBaseDelay doubled per attempt. When maxRetries is 0 the default (5)
// is used. throttle may be nil.
//
// After exhausting retries the last 429 response is returned so the caller
// can inspect it. A cancelled context during a wait returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, throttle Throttle) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait, ok := RetryAfter(resp)
		if !ok {
			wait = RetryBaseDelay << attempt
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if throttle != nil {
			throttle.RecordRateLimit(wait)
		}
		slog.Debug("rate limited", "url", req.URL.Redacted(), "wait", wait, "attempt", attempt+1, "max_retries", maxRetries)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// RetryAfter parses a Retry-After header given in seconds or as an HTTP date.
func RetryAfter(resp *http.Response) (time.Duration, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(v); err == nil {
		d := time.Until(at)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
