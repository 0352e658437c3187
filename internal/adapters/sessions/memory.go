// Package sessions provides the in-memory storefront session store.
package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jsamuelsen/storefront/internal/domain"
)

// Config configures a MemoryStore.
type Config struct {
	// ItemsPerPage seeds the page size of new sessions.
	ItemsPerPage int

	// TTL is the idle lifetime. A session idle for longer is replaced by a
	// fresh one on next access even before the sweeper runs.
	TTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

type entry struct {
	mu      sync.Mutex
	session *domain.Session
	evicted bool
}

// MemoryStore implements ports.SessionStore in process memory. Each session
// has its own lock so requests for one session are serialized while other
// sessions proceed in parallel.
type MemoryStore struct {
	mu           sync.Mutex
	entries      map[string]*entry
	itemsPerPage int
	ttl          time.Duration
	now          func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(cfg Config) *MemoryStore {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &MemoryStore{
		entries:      make(map[string]*entry),
		itemsPerPage: cfg.ItemsPerPage,
		ttl:          cfg.TTL,
		now:          now,
	}
}

func (s *MemoryStore) acquire(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		e = &entry{session: domain.NewSession(id, s.itemsPerPage, s.now())}
		s.entries[id] = e
	}

	return e
}

// With runs fn holding the session's lock. The session is created on first
// use and its idle timer restarts after fn returns.
func (s *MemoryStore) With(ctx context.Context, id string, fn func(*domain.Session) error) error {
	if id == "" {
		return errors.New("session id is required")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		e := s.acquire(id)

		e.mu.Lock()
		if e.evicted {
			// Swept between acquire and lock; take the replacement.
			e.mu.Unlock()
			continue
		}

		now := s.now()
		if s.ttl > 0 && e.session.Expired(now, s.ttl) {
			e.session = domain.NewSession(id, s.itemsPerPage, now)
		}

		err := fn(e.session)
		e.session.Touch(s.now())
		e.mu.Unlock()

		return err
	}
}

// Delete drops the session if present.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.evicted = true
		e.mu.Unlock()
	}

	return nil
}

// Sweep evicts sessions last seen before cutoff. Sessions in use are
// skipped; they are, by definition, not idle.
func (s *MemoryStore) Sweep(_ context.Context, cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0

	for id, e := range s.entries {
		if !e.mu.TryLock() {
			continue
		}

		if e.session.LastSeen.Before(cutoff) {
			e.evicted = true
			delete(s.entries, id)
			removed++
		}

		e.mu.Unlock()
	}

	return removed
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
