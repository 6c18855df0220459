// internal/infrastructure/database/redis/cart_repository.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
)

// CartKeyPrefix is the fixed key under which guest carts are cached
const CartKeyPrefix = "cart:session:"

// CartRepository stores guest carts as one JSON blob per session
type CartRepository struct {
	client *Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewCartRepository creates a guest cart repository. ttl <= 0 keeps carts forever.
func NewCartRepository(client *Client, ttl time.Duration, logger *logrus.Logger) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// CartKey returns the redis key of a session's cart
func CartKey(sessionID string) string {
	return CartKeyPrefix + sessionID
}

// Load reads the session's cart. Missing and corrupt blobs yield an empty cart.
func (r *CartRepository) Load(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	var snapshot cart.Snapshot
	err := r.client.GetJSON(ctx, CartKey(sessionID), &snapshot)
	switch {
	case err == nil:
		return snapshot, nil
	case errors.Is(err, redis.Nil):
		return cart.Snapshot{}, nil
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		return cart.Snapshot{}, fmt.Errorf("failed to load guest cart: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"error":      err,
	}).Warn("Discarding unreadable guest cart")
	_ = r.client.Del(ctx, CartKey(sessionID))
	return cart.Snapshot{}, nil
}

// Save writes the session's cart and refreshes its expiry. An empty cart deletes the key.
func (r *CartRepository) Save(ctx context.Context, sessionID string, snapshot cart.Snapshot) error {
	if snapshot.IsEmpty() {
		return r.Delete(ctx, sessionID)
	}
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.SetJSON(ctx, CartKey(sessionID), snapshot, ttl); err != nil {
		return fmt.Errorf("failed to save guest cart: %w", err)
	}
	return nil
}

// Delete removes the session's cart
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, CartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to delete guest cart: %w", err)
	}
	return nil
}
