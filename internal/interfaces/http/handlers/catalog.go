// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
)

// FeedSource hands out the per-session catalog fetchers
type FeedSource interface {
	Feed(sessionID string, kind catalog.Kind) (*catalog.Fetcher, bool)
}

// CatalogHandler serves the paginated product and package feeds
type CatalogHandler struct {
	feeds    FeedSource
	entities *catalog.Client
	pageSize int
	wait     time.Duration
	logger   *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cfg *config.Config, feeds FeedSource, entities *catalog.Client, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		feeds:    feeds,
		entities: entities,
		pageSize: cfg.Upstream.PageSize,
		wait:     cfg.Upstream.Timeout,
		logger:   logger,
	}
}

// CatalogQuery is the filter form of GET /catalog/:kind
type CatalogQuery struct {
	Name     string `form:"name"`
	PriceMin string `form:"price_min"`
	PriceMax string `form:"price_max"`
	Wait     *bool  `form:"wait"`
}

// FeedResponse is a feed snapshot localized for the session language
type FeedResponse struct {
	Kind    catalog.Kind              `json:"kind"`
	Items   []catalog.LocalizedEntity `json:"items"`
	Page    int                       `json:"page"`
	HasMore bool                      `json:"has_more"`
	Loading bool                      `json:"loading"`
	Error   string                    `json:"error,omitempty"`
	Started bool                      `json:"started"`
}

// List handles GET /catalog/:kind
func (h *CatalogHandler) List(c *gin.Context) {
	kind, feed, ok := h.feed(c)
	if !ok {
		return
	}

	var query CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	filters := catalog.Filters{
		PageSize:     h.pageSize,
		NameContains: query.Name,
		PriceMin:     cart.ParsePrice(query.PriceMin),
		PriceMax:     cart.ParsePrice(query.PriceMax),
	}
	started := feed.SetFilters(filters)

	h.respond(c, kind, feed, started, query.Wait == nil || *query.Wait, "Catalog retrieved successfully")
}

// LoadMore handles POST /catalog/:kind/more
func (h *CatalogHandler) LoadMore(c *gin.Context) {
	kind, feed, ok := h.feed(c)
	if !ok {
		return
	}

	started := feed.LoadMore()
	h.respond(c, kind, feed, started, c.DefaultQuery("wait", "true") != "false", "Next page requested")
}

// Retry handles POST /catalog/:kind/retry
func (h *CatalogHandler) Retry(c *gin.Context) {
	kind, feed, ok := h.feed(c)
	if !ok {
		return
	}

	started := feed.Retry()
	h.respond(c, kind, feed, started, c.DefaultQuery("wait", "true") != "false", "Retry requested")
}

// Get handles GET /catalog/:kind/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	kind, err := catalog.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, h.logger, err, "Unknown catalog")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entity, err := h.entities.Get(c.Request.Context(), kind, id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item retrieved successfully",
		"data":    entity.Localize(h.language(c)),
	})
}

func (h *CatalogHandler) feed(c *gin.Context) (catalog.Kind, *catalog.Fetcher, bool) {
	kind, err := catalog.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, h.logger, err, "Unknown catalog")
		return "", nil, false
	}
	feed, ok := h.feeds.Feed(middleware.GetSessionIDFromContext(c), kind)
	if !ok {
		respondError(c, h.logger, session.ErrSessionExpired, "Session expired, please retry")
		return "", nil, false
	}
	return kind, feed, true
}

func (h *CatalogHandler) respond(c *gin.Context, kind catalog.Kind, feed *catalog.Fetcher, started, wait bool, message string) {
	if wait {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.wait)
		err := feed.Wait(ctx)
		cancel()
		// Still loading is a valid answer; the client polls the feed again
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			h.logger.WithField("error", err).Debug("Stopped waiting for catalog page")
		}
	}

	snap := feed.Snapshot()
	resp := FeedResponse{
		Kind:    kind,
		Items:   catalog.LocalizeAll(snap.Items, h.language(c)),
		Page:    snap.Page,
		HasMore: snap.HasMore,
		Loading: snap.Loading,
		Started: started,
	}
	if snap.Err != nil {
		resp.Error = "Failed to load catalog page"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    resp,
	})
}

func (h *CatalogHandler) language(c *gin.Context) string {
	if st, ok := middleware.GetStore(c); ok {
		return st.State().Language.Code
	}
	return ""
}
