// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resilience wraps remote calls with bounded retries and a
// per-operation circuit breaker.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// Classification tells the executor how to treat an error. Retryable errors
// are attempted again; errors that RecordFailure count toward tripping the
// breaker.
type Classification struct {
	Retryable     bool
	RecordFailure bool
}

// Classifier maps an error onto a Classification.
type Classifier func(err error) Classification

// Executor runs operations under the configured retry and breaker policy.
// It is safe for concurrent use; breakers are created lazily per operation name.
type Executor struct {
	cfg types.ResilienceConfig

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[struct{}]
}

// NewExecutor builds an executor; zero config fields take package defaults.
func NewExecutor(cfg types.ResilienceConfig) *Executor {
	return &Executor{
		cfg:      normalize(cfg),
		breakers: make(map[string]*gobreaker.CircuitBreaker[struct{}]),
	}
}

// Execute runs fn for the named operation. A nil classifier retries nothing
// and records every error.
func (e *Executor) Execute(ctx context.Context, op string, fn func(context.Context) error, classify Classifier) error {
	if classify == nil {
		classify = recordAll
	}
	if e.cfg.BreakerDisabled {
		return e.retry(ctx, op, fn, classify)
	}

	_, err := e.breaker(op, classify).Execute(func() (struct{}, error) {
		return struct{}{}, e.retry(ctx, op, fn, classify)
	})
	return err
}

func (e *Executor) retry(ctx context.Context, op string, fn func(context.Context) error, classify Classifier) error {
	backoff := e.cfg.RetryInitialBackoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !classify(err).Retryable || attempt >= e.cfg.RetryMaxAttempts {
			return err
		}

		slog.Debug("retrying", "operation", op, "attempt", attempt, "backoff", backoff, "error", err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		backoff = min(time.Duration(float64(backoff)*retryMultiplier), e.cfg.RetryMaxBackoff)
	}
}

func (e *Executor) breaker(op string, classify Classifier) *gobreaker.CircuitBreaker[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b, ok := e.breakers[op]; ok {
		return b
	}

	b := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        op,
		MaxRequests: breakerHalfOpenMax,
		Timeout:     e.cfg.BreakerOpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < e.cfg.BreakerMinRequests {
				return false
			}
			return float64(c.TotalFailures)/float64(c.Requests) >= e.cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !classify(err).RecordFailure
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "operation", name, "from", from.String(), "to", to.String())
		},
	})
	e.breakers[op] = b
	return b
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func recordAll(error) Classification {
	return Classification{RecordFailure: true}
}
