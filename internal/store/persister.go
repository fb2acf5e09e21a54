package store

import (
	"context"

	"github.com/abgdnv/storefront/internal/address"
)

// PersistedState is the durable subset of a session's store.
type PersistedState struct {
	Cart           []CartItem        `json:"cart"`
	Wishlist       []WishlistItem    `json:"wishlist"`
	User           *User             `json:"user"`
	Theme          Theme             `json:"theme"`
	Country        string            `json:"country"`
	Currency       string            `json:"currency"`
	ViewMode       ViewMode          `json:"viewMode"`
	Addresses      []address.Address `json:"addresses"`
	PaymentMethods []PaymentMethod   `json:"paymentMethods"`
	Orders         []Order           `json:"orders"`
}

// Persister is the durability port for session state.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type Persister interface {
	// Load returns the saved state for sessionID.
	// Returns ErrStateNotFound if nothing has been saved yet.
	Load(ctx context.Context, sessionID string) (PersistedState, error)

	// Save replaces the saved state for sessionID.
	Save(ctx context.Context, sessionID string, state PersistedState) error
}
