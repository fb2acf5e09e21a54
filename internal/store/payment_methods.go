package store

import (
	"fmt"
	"slices"

	commerceerrors "github.com/abgdnv/storefront/internal/errors"
)

// AddPaymentMethod appends pm, assigning an id when it has none.
// A default method clears the flag on every other method.
func (s *Store) AddPaymentMethod(pm PaymentMethod) PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pm.ID == "" {
		pm.ID = newID()
	}
	if pm.IsDefault {
		s.clearDefaultPaymentMethod()
	}
	s.paymentMethods = append(s.paymentMethods, pm)
	return pm
}

func (s *Store) RemovePaymentMethod(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.paymentMethods, func(pm PaymentMethod) bool { return pm.ID == id })
	if i < 0 {
		return fmt.Errorf("payment method %q: %w", id, commerceerrors.ErrPaymentMethodNotFound)
	}
	s.paymentMethods = slices.Delete(s.paymentMethods, i, i+1)
	return nil
}

func (s *Store) RemovePaymentMethodAt(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.paymentMethods) {
		return fmt.Errorf("payment method index %d: %w", i, commerceerrors.ErrPaymentMethodNotFound)
	}
	s.paymentMethods = slices.Delete(s.paymentMethods, i, i+1)
	return nil
}

func (s *Store) SetDefaultPaymentMethod(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.paymentMethods, func(pm PaymentMethod) bool { return pm.ID == id })
	if i < 0 {
		return fmt.Errorf("payment method %q: %w", id, commerceerrors.ErrPaymentMethodNotFound)
	}
	s.clearDefaultPaymentMethod()
	s.paymentMethods[i].IsDefault = true
	return nil
}

func (s *Store) PaymentMethods() []PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.paymentMethods)
}

func (s *Store) clearDefaultPaymentMethod() {
	for i := range s.paymentMethods {
		s.paymentMethods[i].IsDefault = false
	}
}
