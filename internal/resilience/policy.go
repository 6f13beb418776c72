// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resilience

import (
	"time"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// Defaults applied to zero fields of types.ResilienceConfig.
const (
	DefaultRetryMaxAttempts    = 3
	DefaultRetryInitialBackoff = 250 * time.Millisecond
	DefaultRetryMaxBackoff     = 2 * time.Second
	DefaultBreakerMinRequests  = 10
	DefaultBreakerFailureRatio = 0.5
	DefaultBreakerOpenTimeout  = 30 * time.Second

	retryMultiplier    = 2.0
	breakerHalfOpenMax = 2
)

func normalize(c types.ResilienceConfig) types.ResilienceConfig {
	if c.RetryMaxAttempts <= 0 {
		c.RetryMaxAttempts = DefaultRetryMaxAttempts
	}
	if c.RetryInitialBackoff <= 0 {
		c.RetryInitialBackoff = DefaultRetryInitialBackoff
	}
	if c.RetryMaxBackoff <= 0 {
		c.RetryMaxBackoff = DefaultRetryMaxBackoff
	}
	if c.RetryMaxBackoff < c.RetryInitialBackoff {
		c.RetryMaxBackoff = c.RetryInitialBackoff
	}
	if c.BreakerMinRequests == 0 {
		c.BreakerMinRequests = DefaultBreakerMinRequests
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		c.BreakerFailureRatio = DefaultBreakerFailureRatio
	}
	if c.BreakerOpenTimeout <= 0 {
		c.BreakerOpenTimeout = DefaultBreakerOpenTimeout
	}
	return c
}
