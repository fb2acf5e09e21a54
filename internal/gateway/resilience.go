package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// WithTimeout bounds every submission to d. A zero or negative d disables the bound.
func WithTimeout(next Gateway, d time.Duration) Gateway {
	if d <= 0 {
		return next
	}
	return Func(func(ctx context.Context, req Request) (Confirmation, error) {
		callCtx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next.Submit(callCtx, req)
	})
}

// WithRetry resubmits requests that failed with ErrServiceUnavailable, waiting an exponentially
// growing backoff between attempts. Only use it for idempotent requests.
func WithRetry(next Gateway, cfg config.RetryConfig) Gateway {
	if cfg.MaxAttempts <= 1 {
		return next
	}
	return Func(func(ctx context.Context, req Request) (Confirmation, error) {
		var (
			res Confirmation
			err error
		)
		backoff := cfg.InitialBackoff
		for attempt := uint(1); ; attempt++ {
			res, err = next.Submit(ctx, req)
			if err == nil || !errors.Is(err, commerceerrors.ErrServiceUnavailable) || attempt >= cfg.MaxAttempts {
				return res, err
			}
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return Confirmation{}, fmt.Errorf("%w: %w", ctx.Err(), err)
			case <-timer.C:
			}
			backoff *= 2
		}
	})
}

// WithCircuitBreaker wraps next in a circuit breaker. While the breaker is open, submissions
// fail fast with ErrServiceUnavailable. Cancellation by the caller does not count as a failure.
func WithCircuitBreaker(next Gateway, name string, cfg config.CircuitBreakerConfig) Gateway {
	breaker := NewCircuitBreaker(name, cfg)
	return Func(func(ctx context.Context, req Request) (Confirmation, error) {
		res, err := breaker.Execute(func() (Confirmation, error) {
			return next.Submit(ctx, req)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Confirmation{}, fmt.Errorf("%s: %w: %w", req.Kind, commerceerrors.ErrServiceUnavailable, err)
		}
		return res, err
	})
}

// NewCircuitBreaker builds the breaker used by WithCircuitBreaker.
func NewCircuitBreaker(name string, cfg config.CircuitBreakerConfig) *gobreaker.CircuitBreaker[Confirmation] {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > cfg.ConsecutiveFailures ||
				(counts.TotalSuccesses+counts.TotalFailures > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(counts.TotalSuccesses+counts.TotalFailures)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// The shopper gave up; the service itself did not fail.
			return errors.Is(err, context.Canceled)
		},
	}
	return gobreaker.NewCircuitBreaker[Confirmation](st)
}
