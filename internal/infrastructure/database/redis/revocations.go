// internal/infrastructure/database/redis/revocations.go
package redis

import (
	"context"
	"fmt"
	"time"
)

// RevokedKeyPrefix is the key prefix of signed-out session token ids
const RevokedKeyPrefix = "session:revoked:"

// RevocationStore keeps signed-out token ids in redis until the token would
// have expired anyway
type RevocationStore struct {
	client *Client
}

// NewRevocationStore creates a redis backed revocation list
func NewRevocationStore(client *Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// RevokedKey returns the redis key of a revoked token id
func RevokedKey(tokenID string) string {
	return RevokedKeyPrefix + tokenID
}

// Revoke records tokenID. ttl <= 0 keeps it forever.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Redis.Set(ctx, RevokedKey(tokenID), time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Redis.Exists(ctx, RevokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session token: %w", err)
	}
	return n > 0, nil
}
