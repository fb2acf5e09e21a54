package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/abgdnv/storefront/internal/address"
	"github.com/abgdnv/storefront/internal/catalog"
	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/gateway"
	"github.com/abgdnv/storefront/internal/region"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingPersister wraps a MemoryPersister and counts loads. Safe for concurrent use.
type countingPersister struct {
	*store.MemoryPersister
	mu      sync.Mutex
	loads   int
	loadErr error
	saveErr error
}

func (p *countingPersister) Load(ctx context.Context, id string) (store.PersistedState, error) {
	p.mu.Lock()
	p.loads++
	err := p.loadErr
	p.mu.Unlock()
	if err != nil {
		return store.PersistedState{}, err
	}
	return p.MemoryPersister.Load(ctx, id)
}

func (p *countingPersister) Save(ctx context.Context, id string, st store.PersistedState) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	return p.MemoryPersister.Save(ctx, id, st)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, messaging.Event) error { return nil }

func newTestManager(t *testing.T, p store.Persister) *Manager {
	t.Helper()
	registry := region.Default()
	return NewManager(Options{
		Registry:  registry,
		Persister: p,
		Addresses: address.NewService(registry),
		Verifier:  gateway.NewSimulated(0),
		Payments:  gateway.NewSimulated(0),
		Publisher: nopPublisher{},
		Logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
}

func shoe() catalog.Product {
	return catalog.Product{ID: "1", Name: "Shoe", Price: decimal.RequireFromString("25"), InStock: true}
}

func Test_Manager_GetIsolatesSessions(t *testing.T) {
	// given
	m := newTestManager(t, store.NewMemoryPersister())
	ctx := context.Background()

	// when
	a := m.Get(ctx, "session-a")
	a.Store.AddToCart(shoe())
	b := m.Get(ctx, "session-b")

	// then
	assert.Same(t, a, m.Get(ctx, "session-a"))
	assert.NotSame(t, a, b)
	assert.Equal(t, 1, a.Store.CartItemsCount())
	assert.Equal(t, 0, b.Store.CartItemsCount())
	assert.Equal(t, 2, m.Len())
}

func Test_Manager_RestoresPersistedState(t *testing.T) {
	// given
	p := store.NewMemoryPersister()
	first := newTestManager(t, p)
	ctx := context.Background()
	s := first.Get(ctx, "session-a")
	s.Store.AddToCart(shoe())
	s.Store.SetRegion("IN")
	first.Save(ctx, s)

	// when
	restored := newTestManager(t, p).Get(ctx, "session-a")

	// then
	assert.True(t, restored.Durable())
	assert.Equal(t, 1, restored.Store.CartItemsCount())
	assert.Equal(t, "INR", restored.Store.Currency().Code)
}

func Test_Manager_ConcurrentFirstAccessLoadsOnce(t *testing.T) {
	// given
	p := &countingPersister{MemoryPersister: store.NewMemoryPersister()}
	m := newTestManager(t, p)

	// when
	var wg sync.WaitGroup
	got := make([]*Session, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = m.Get(context.Background(), "session-a")
		}()
	}
	wg.Wait()

	// then
	for _, s := range got {
		assert.Same(t, got[0], s)
	}
	assert.Equal(t, 1, p.loads)
}

func Test_Manager_LoadFailureIsNotFatal(t *testing.T) {
	// given
	p := &countingPersister{MemoryPersister: store.NewMemoryPersister(), loadErr: errors.New("db down")}
	require.NoError(t, p.MemoryPersister.Save(context.Background(), "session-a", store.PersistedState{Country: "GB"}))
	m := newTestManager(t, p)

	// when
	s := m.Get(context.Background(), "session-a")
	s.Store.AddToCart(shoe())
	m.Save(context.Background(), s)

	// then
	assert.False(t, s.Durable())
	assert.Equal(t, 1, s.Store.CartItemsCount())
	stored, err := p.MemoryPersister.Load(context.Background(), "session-a")
	require.NoError(t, err)
	assert.Equal(t, "GB", stored.Country, "an unloaded session must not overwrite stored state")
	assert.Empty(t, stored.Cart)
}

func Test_Manager_SaveFailureIsNotFatal(t *testing.T) {
	// given
	p := &countingPersister{MemoryPersister: store.NewMemoryPersister(), saveErr: commerceerrors.ErrSaveState}
	m := newTestManager(t, p)
	s := m.Get(context.Background(), "session-a")
	s.Store.AddToCart(shoe())

	// when
	m.Save(context.Background(), s)

	// then
	assert.Equal(t, 1, s.Store.CartItemsCount())
}

func Test_Manager_Evict(t *testing.T) {
	// given
	p := store.NewMemoryPersister()
	m := newTestManager(t, p)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	ctx := context.Background()
	idle := m.Get(ctx, "idle")
	idle.Store.AddToCart(shoe())
	clock = clock.Add(time.Hour)
	m.Get(ctx, "active")

	// when
	evicted := m.Evict(ctx, 30*time.Minute)

	// then
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, m.Len())
	saved, err := p.Load(ctx, "idle")
	require.NoError(t, err)
	assert.Len(t, saved.Cart, 1, "evicted sessions are saved first")
}
