// internal/domain/catalog/client.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/infrastructure/api"
	"golang.org/x/sync/singleflight"
)

// Page is one fetched batch. NextPage is nil when the batch was short
// or the fetch failed.
type Page struct {
	Items    []Entity `json:"items"`
	Page     int      `json:"page"`
	NextPage *int     `json:"next_page"`
}

// PageCache caches upstream list bodies by request URL
type PageCache interface {
	Get(ctx context.Context, key string) ([]Entity, bool)
	Set(ctx context.Context, key string, items []Entity)
}

// Querier loads catalog pages
type Querier interface {
	Query(ctx context.Context, kind Kind, f Filters) (Page, error)
}

// Client reads the remote catalog
type Client struct {
	api    *api.Client
	cache  PageCache
	logger *logrus.Logger
	group  singleflight.Group
}

// NewClient creates a catalog client. cache may be nil.
func NewClient(apiClient *api.Client, cache PageCache, logger *logrus.Logger) *Client {
	return &Client{
		api:    apiClient,
		cache:  cache,
		logger: logger,
	}
}

type listResponse struct {
	Data []Entity `json:"data"`
}

type itemResponse struct {
	Data Entity `json:"data"`
}

// Query fetches one page. It never fails loudly: on any error the
// returned page is empty with no next page, and the error is returned
// alongside for the caller to surface.
func (c *Client) Query(ctx context.Context, kind Kind, f Filters) (Page, error) {
	f = f.Normalize()
	empty := Page{Items: []Entity{}, Page: f.Page}

	path := string(kind)
	query := f.Values()
	key := c.api.URL(path, query)

	items, err := c.list(ctx, key, path, query)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"kind":  kind,
			"page":  f.Page,
			"error": err,
		}).Warn("Catalog fetch failed")
		return empty, fmt.Errorf("failed to fetch %s page %d: %w", kind, f.Page, err)
	}

	page := Page{Items: items, Page: f.Page}
	if len(items) == f.PageSize {
		next := f.Page + 1
		page.NextPage = &next
	}
	return page, nil
}

func (c *Client) list(ctx context.Context, key, path string, query url.Values) ([]Entity, error) {
	if c.cache != nil {
		if items, ok := c.cache.Get(ctx, key); ok {
			return items, nil
		}
	}

	// Identical concurrent queries share one upstream request. The shared
	// call outlives any single caller so one cancelled session does not
	// fail the others.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		var body listResponse
		err := c.api.Do(context.WithoutCancel(ctx), api.Request{
			Method: http.MethodGet,
			Path:   path,
			Query:  query,
		}, &body)
		if err != nil {
			return nil, err
		}
		if body.Data == nil {
			body.Data = []Entity{}
		}
		if c.cache != nil {
			c.cache.Set(context.WithoutCancel(ctx), key, body.Data)
		}
		return body.Data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Entity), nil
	}
}

// Get fetches a single entity
func (c *Client) Get(ctx context.Context, kind Kind, id int64) (Entity, error) {
	var body itemResponse
	err := c.api.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   string(kind) + "/" + strconv.FormatInt(id, 10),
	}, &body)
	if err != nil {
		if api.IsStatus(err, http.StatusNotFound) {
			return Entity{}, ErrEntityNotFound
		}
		return Entity{}, fmt.Errorf("failed to fetch %s %d: %w", kind, id, err)
	}
	if body.Data.ID == 0 {
		return Entity{}, ErrEntityNotFound
	}
	return body.Data, nil
}

// IsNotFound reports whether err means the entity does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}
