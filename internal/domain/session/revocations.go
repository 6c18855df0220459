// internal/domain/session/revocations.go
package session

import (
	"context"
	"sync"
	"time"
)

// Revocations remembers signed-in session tokens that were signed out, so a
// token cannot sign its session back in once the session left memory.
// Entries only need to outlive the token they revoke.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRevocations keeps revoked token ids in process memory
type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocations creates an empty revocation list
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke records tokenID until ttl passes. ttl <= 0 keeps it forever.
func (r *MemoryRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var until time.Time
	if ttl > 0 {
		until = r.now().Add(ttl)
	}
	r.revoked[tokenID] = until
	return nil
}

// IsRevoked reports whether tokenID was revoked and has not expired
func (r *MemoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !until.IsZero() && r.now().After(until) {
		delete(r.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
