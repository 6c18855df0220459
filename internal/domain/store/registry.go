// internal/domain/store/registry.go
package store

import (
	"context"
	"sync"
	"time"
)

// Loader builds the initial state of a session that is not in memory yet
type Loader func(ctx context.Context, id string) (State, error)

// Registry holds one Store per session id
type Registry struct {
	mu      sync.Mutex
	stores  map[string]*Store
	onOpen  []func(*Store)
	onEvict []func(id string)
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Store)}
}

// OnOpen registers a hook run once for every newly created store
func (r *Registry) OnOpen(fn func(*Store)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onOpen = append(r.onOpen, fn)
}

// OnEvict registers a hook run after a store is removed
func (r *Registry) OnEvict(fn func(id string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = append(r.onEvict, fn)
}

// Open returns the store for id, calling load to build it on first use.
// load and the OnOpen hooks run without the registry lock; if two callers
// race, the first store inserted wins and the other one is dropped.
func (r *Registry) Open(ctx context.Context, id string, load Loader) (*Store, error) {
	r.mu.Lock()
	if st, ok := r.stores[id]; ok {
		r.mu.Unlock()
		return st, nil
	}
	r.mu.Unlock()

	initial, err := load(ctx, id)
	if err != nil {
		return nil, err
	}

	st := New(id, initial)
	r.mu.Lock()
	hooks := append([]func(*Store){}, r.onOpen...)
	r.mu.Unlock()
	for _, fn := range hooks {
		fn(st)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.stores[id]; ok {
		return existing, nil
	}
	r.stores[id] = st
	return st, nil
}

// Lookup returns the store for id if it is in memory
func (r *Registry) Lookup(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stores[id]
	return st, ok
}

// Evict removes the store for id
func (r *Registry) Evict(id string) {
	r.mu.Lock()
	_, ok := r.stores[id]
	delete(r.stores, id)
	hooks := append([]func(string){}, r.onEvict...)
	r.mu.Unlock()

	if ok {
		for _, fn := range hooks {
			fn(id)
		}
	}
}

// Sweep evicts every store idle for longer than maxIdle and returns how many were removed
func (r *Registry) Sweep(maxIdle time.Duration, now time.Time) int {
	r.mu.Lock()
	var idle []string
	for id, st := range r.stores {
		if now.Sub(st.IdleSince()) > maxIdle {
			idle = append(idle, id)
		}
	}
	r.mu.Unlock()

	for _, id := range idle {
		r.Evict(id)
	}
	return len(idle)
}

// Len returns the number of sessions in memory
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
