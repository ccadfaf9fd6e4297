// Package viewstate keeps the controllers of each rendered page in memory.
//
// A full page load creates a view and embeds its id in the HTML; later HTMX
// requests from that page find their controllers by the id. Views are lost on
// restart and expire after a period without use.
package viewstate

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an idle view is kept
const DefaultTTL = 30 * time.Minute

// ErrExpired is returned for unknown or expired view ids
var ErrExpired = errors.New("view expired")

// ErrWrongKind is returned when a view holds a different kind of state than requested
var ErrWrongKind = errors.New("view holds a different page")

type entry struct {
	state    any
	lastUsed time.Time
}

// Store is an in-memory map of view id to page state.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu sync.Mutex
	m  map[string]*entry
}

// NewStore creates a store whose views expire after ttl of inactivity
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]*entry),
	}
}

// Create stores state under a new view id and returns the id
func (s *Store) Create(state any) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.m[id] = &entry{state: state, lastUsed: s.now()}
	s.mu.Unlock()

	return id
}

// Get returns the state for id and marks the view as used
func (s *Store) Get(id string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[id]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.lastUsed) > s.ttl {
		delete(s.m, id)
		return nil, false
	}
	e.lastUsed = s.now()
	return e.state, true
}

// Delete removes a view
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
}

// Len returns the number of stored views, expired or not
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// Sweep drops every expired view and returns how many were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	now := s.now()
	for id, e := range s.m {
		if now.Sub(e.lastUsed) > s.ttl {
			delete(s.m, id)
			n++
		}
	}
	return n
}

// StartSweeper sweeps every interval until stop is closed
func (s *Store) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.Sweep()
			case <-stop:
				return
			}
		}
	}()
}

// Lookup returns the state for id as a T
func Lookup[T any](s *Store, id string) (T, error) {
	var zero T
	v, ok := s.Get(id)
	if !ok {
		return zero, ErrExpired
	}
	t, ok := v.(T)
	if !ok {
		return zero, ErrWrongKind
	}
	return t, nil
}

// SetClock replaces the time source; used by tests
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}
