// Package session keeps one commerce store and one checkout per shopper session.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abgdnv/storefront/internal/address"
	"github.com/abgdnv/storefront/internal/checkout"
	"github.com/abgdnv/storefront/internal/gateway"
	"github.com/abgdnv/storefront/internal/pricing"
	"github.com/abgdnv/storefront/internal/region"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/messaging"
	"golang.org/x/sync/singleflight"
)

const defaultLoadTimeout = 5 * time.Second

// Session is the state owned by one shopper. It is never shared between session IDs.
type Session struct {
	ID       string
	Store    *store.Store
	Checkout *checkout.Orchestrator

	// durable is false when the persisted state could not be loaded; such a session is
	// served from memory and never saved, so it cannot overwrite what is stored.
	durable  bool
	lastSeen time.Time
}

// Durable reports whether changes to the session are persisted.
func (s *Session) Durable() bool {
	return s.durable
}

// Options holds the collaborators every session is built from.
type Options struct {
	Registry    *region.Registry
	Converter   pricing.Converter
	Persister   store.Persister
	Addresses   address.ValidationService
	Verifier    gateway.Gateway
	Payments    gateway.Gateway
	Publisher   messaging.Publisher
	OrderIDs    *checkout.OrderIDGenerator
	LoadTimeout time.Duration
	Logger      *slog.Logger
}

// Manager builds sessions lazily and keeps them in memory until they are evicted.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	loads    singleflight.Group
	opts     Options
	now      func() time.Time
	logger   *slog.Logger
}

func NewManager(opts Options) *Manager {
	if opts.Converter == nil {
		opts.Converter = pricing.NewRateConverter()
	}
	if opts.OrderIDs == nil {
		opts.OrderIDs = checkout.NewOrderIDGenerator()
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		now:      time.Now,
		logger:   opts.Logger.With("component", "sessions"),
	}
}

// Get returns the session for id, restoring its persisted state on first use.
// Concurrent first requests for the same id share a single load.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	if s, ok := m.touch(id); ok {
		return s
	}
	v, _, _ := m.loads.Do(id, func() (any, error) {
		if s, ok := m.touch(id); ok {
			return s, nil
		}
		s := m.build(id)
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.opts.LoadTimeout)
		defer cancel()
		if err := s.Store.Load(loadCtx); err != nil {
			m.logger.WarnContext(ctx, "Session served without durability", "session_id", id, "error", err)
			s.durable = false
		}
		m.mu.Lock()
		s.lastSeen = m.now()
		m.sessions[id] = s
		m.mu.Unlock()
		return s, nil
	})
	return v.(*Session)
}

// Save persists the session. Failures are logged; the session keeps working in memory.
func (m *Manager) Save(ctx context.Context, s *Session) {
	if !s.durable {
		return
	}
	if err := s.Store.Save(ctx); err != nil {
		m.logger.WarnContext(ctx, "Session state not saved", "session_id", s.ID, "error", err)
	}
}

// Len returns the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict saves and drops sessions idle for longer than idle. Sessions with a checkout step
// in flight are kept. It returns the number of evicted sessions.
func (m *Manager) Evict(ctx context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) && !s.Checkout.State().Processing {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		m.Save(ctx, s)
	}
	if len(stale) > 0 {
		m.logger.InfoContext(ctx, "Idle sessions evicted", "count", len(stale))
	}
	return len(stale)
}

// SaveAll persists every session held in memory. Used on shutdown.
func (m *Manager) SaveAll(ctx context.Context) {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()
	for _, s := range all {
		m.Save(ctx, s)
	}
}

// RunEvictor evicts idle sessions every interval until ctx is done.
func (m *Manager) RunEvictor(ctx context.Context, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Evict(ctx, idle)
		}
	}
}

func (m *Manager) touch(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

func (m *Manager) build(id string) *Session {
	st := store.New(id, m.opts.Registry, m.opts.Converter, m.opts.Persister, m.opts.Logger)
	co := checkout.NewOrchestrator(st, m.opts.Addresses, m.opts.Verifier, m.opts.Payments, m.opts.Publisher, m.opts.OrderIDs, m.opts.Logger)
	return &Session{ID: id, Store: st, Checkout: co, durable: true}
}
