package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	commerceerrors "github.com/abgdnv/storefront/internal/errors"
)

// MemoryPersister implements Persister with an in-process map.
// States are stored as JSON so a loaded state never aliases a live store.
type MemoryPersister struct {
	mu     sync.RWMutex
	states map[string][]byte
}

// NewMemoryPersister creates a new empty MemoryPersister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{states: make(map[string][]byte)}
}

func (m *MemoryPersister) Load(_ context.Context, sessionID string) (PersistedState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.states[sessionID]
	if !ok {
		return PersistedState{}, commerceerrors.ErrStateNotFound
	}
	var st PersistedState
	if err := json.Unmarshal(raw, &st); err != nil {
		return PersistedState{}, fmt.Errorf("failed to decode state: %w", err)
	}
	return st, nil
}

func (m *MemoryPersister) Save(_ context.Context, sessionID string, state PersistedState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[sessionID] = raw
	return nil
}
