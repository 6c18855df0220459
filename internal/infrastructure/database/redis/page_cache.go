// internal/infrastructure/database/redis/page_cache.go
package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/catalog"
)

const pageKeyPrefix = "catalog:page:"

// PageCache keeps upstream catalog pages for a short time so sessions
// browsing the same listing share one upstream request
type PageCache struct {
	client *Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewPageCache creates a page cache
func NewPageCache(client *Client, ttl time.Duration, logger *logrus.Logger) *PageCache {
	return &PageCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func pageKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return pageKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached page for the request URL
func (c *PageCache) Get(ctx context.Context, url string) ([]catalog.Entity, bool) {
	var items []catalog.Entity
	if err := c.client.GetJSON(ctx, pageKey(url), &items); err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithFields(logrus.Fields{
				"url":   url,
				"error": err,
			}).Warn("Catalog cache read failed")
		}
		return nil, false
	}
	return items, true
}

// Set caches the page for the request URL; failures are only logged
func (c *PageCache) Set(ctx context.Context, url string, items []catalog.Entity) {
	if c.ttl <= 0 {
		return
	}
	if err := c.client.SetJSON(ctx, pageKey(url), items, c.ttl); err != nil {
		c.logger.WithFields(logrus.Fields{
			"url":   url,
			"error": err,
		}).Warn("Catalog cache write failed")
	}
}
