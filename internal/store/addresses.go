package store

import (
	"fmt"
	"slices"

	"github.com/abgdnv/storefront/internal/address"
	commerceerrors "github.com/abgdnv/storefront/internal/errors"
)

// AddAddress appends a, assigning an id when it has none, and returns the stored copy.
// A default address clears the flag on every other address.
func (s *Store) AddAddress(a address.Address) address.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	a = a.Clone()
	if a.ID == "" {
		a.ID = newID()
	}
	if a.IsDefault {
		s.clearDefaultAddress()
	}
	s.addresses = append(s.addresses, a)
	return a.Clone()
}

// UpdateAddress replaces the address with the given id, keeping that id.
func (s *Store) UpdateAddress(id string, a address.Address) (address.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.addressIndex(id)
	if i < 0 {
		return address.Address{}, fmt.Errorf("address %q: %w", id, commerceerrors.ErrAddressNotFound)
	}
	return s.replaceAddressAt(i, a), nil
}

// UpdateAddressAt replaces the address at position i.
func (s *Store) UpdateAddressAt(i int, a address.Address) (address.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.addresses) {
		return address.Address{}, fmt.Errorf("address index %d: %w", i, commerceerrors.ErrAddressNotFound)
	}
	return s.replaceAddressAt(i, a), nil
}

func (s *Store) RemoveAddress(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.addressIndex(id)
	if i < 0 {
		return fmt.Errorf("address %q: %w", id, commerceerrors.ErrAddressNotFound)
	}
	s.addresses = slices.Delete(s.addresses, i, i+1)
	return nil
}

func (s *Store) RemoveAddressAt(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.addresses) {
		return fmt.Errorf("address index %d: %w", i, commerceerrors.ErrAddressNotFound)
	}
	s.addresses = slices.Delete(s.addresses, i, i+1)
	return nil
}

// SetDefaultAddress marks id as the only default address.
func (s *Store) SetDefaultAddress(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.addressIndex(id)
	if i < 0 {
		return fmt.Errorf("address %q: %w", id, commerceerrors.ErrAddressNotFound)
	}
	s.clearDefaultAddress()
	s.addresses[i].IsDefault = true
	return nil
}

// Addresses returns the saved addresses in insertion order.
func (s *Store) Addresses() []address.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]address.Address, 0, len(s.addresses))
	for _, a := range s.addresses {
		out = append(out, a.Clone())
	}
	return out
}

// DefaultAddress returns the address flagged as default, if any.
func (s *Store) DefaultAddress() (address.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.addresses {
		if a.IsDefault {
			return a.Clone(), true
		}
	}
	return address.Address{}, false
}

func (s *Store) replaceAddressAt(i int, a address.Address) address.Address {
	a = a.Clone()
	a.ID = s.addresses[i].ID
	if a.IsDefault {
		s.clearDefaultAddress()
	}
	s.addresses[i] = a
	return a.Clone()
}

func (s *Store) addressIndex(id string) int {
	return slices.IndexFunc(s.addresses, func(a address.Address) bool { return a.ID == id })
}

func (s *Store) clearDefaultAddress() {
	for i := range s.addresses {
		s.addresses[i].IsDefault = false
	}
}
