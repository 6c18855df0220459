// internal/domain/store/store.go
package store

import (
	"sync"
	"time"
)

// Listener observes a dispatched change. It runs while the store is locked,
// so listeners see changes in dispatch order and must not dispatch themselves.
type Listener func(prev, next State, action Action)

// Store is the state container of one browsing session
type Store struct {
	id string

	mu        sync.Mutex
	state     State
	listeners []Listener
	lastUsed  time.Time
	now       func() time.Time
}

// New creates a store holding the initial state
func New(id string, initial State) *Store {
	return &Store{
		id:       id,
		state:    initial,
		lastUsed: time.Now(),
		now:      time.Now,
	}
}

// ID returns the session id the store belongs to
func (s *Store) ID() string {
	return s.id
}

// State returns a copy of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	return s.state
}

// Dispatch applies the action through the root reducer and notifies listeners
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = Reduce(prev, action)
	s.lastUsed = s.now()

	for _, l := range s.listeners {
		l(prev, s.state, action)
	}
	return s.state
}

// Subscribe registers a listener for subsequent dispatches
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// IdleSince returns when the store was last read or written
func (s *Store) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
