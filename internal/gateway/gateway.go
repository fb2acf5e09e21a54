// Package gateway defines the boundary to external services the checkout depends on
// (address verification, payment processing) and a simulated implementation of it.
package gateway

import (
	"context"
	"fmt"
	"time"

	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/google/uuid"
)

// Kind names the external service a request is addressed to.
type Kind string

const (
	KindAddressVerification Kind = "address-verification"
	KindPayment             Kind = "payment"
)

// Request is a single submission to an external service.
type Request struct {
	Kind    Kind
	Payload any
}

// Confirmation is returned by a successful submission.
type Confirmation struct {
	ID string
}

// Gateway submits requests to an external service.
// A failed submission returns an error wrapping ErrServiceUnavailable; the caller may retry.
type Gateway interface {
	Submit(ctx context.Context, req Request) (Confirmation, error)
}

// Func adapts a function to the Gateway interface.
type Func func(ctx context.Context, req Request) (Confirmation, error)

func (f Func) Submit(ctx context.Context, req Request) (Confirmation, error) {
	return f(ctx, req)
}

// Simulated stands in for a remote service: it waits Delay, then succeeds with a random
// confirmation id unless Fail returns an error for the request.
type Simulated struct {
	Delay time.Duration
	Fail  func(Request) error
}

// NewSimulated creates a simulated gateway that always succeeds after delay.
func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{Delay: delay}
}

func (s *Simulated) Submit(ctx context.Context, req Request) (Confirmation, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Confirmation{}, fmt.Errorf("%s: %w: %w", req.Kind, commerceerrors.ErrServiceUnavailable, ctx.Err())
		case <-timer.C:
		}
	}
	if s.Fail != nil {
		if err := s.Fail(req); err != nil {
			return Confirmation{}, fmt.Errorf("%s: %w: %w", req.Kind, commerceerrors.ErrServiceUnavailable, err)
		}
	}
	return Confirmation{ID: uuid.NewString()}, nil
}
