// internal/domain/cart/repository.go
package cart

import (
	"context"
	"sync"
)

// Repository persists cart snapshots. It is a cache for session continuity;
// the in-memory session state is authoritative while the session lives.
// Loading a key that was never saved returns an empty snapshot.
type Repository interface {
	Load(ctx context.Context, key string) (Snapshot, error)
	Save(ctx context.Context, key string, snapshot Snapshot) error
	Delete(ctx context.Context, key string) error
}

// MemoryRepository keeps snapshots in process memory
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]Snapshot
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string]Snapshot)}
}

func (r *MemoryRepository) Load(_ context.Context, key string) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.carts[key], nil
}

func (r *MemoryRepository) Save(_ context.Context, key string, snapshot Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[key] = snapshot
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, key)
	return nil
}
