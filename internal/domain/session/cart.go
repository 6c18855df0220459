// internal/domain/session/cart.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/store"
)

// EntityLookup resolves a catalog entity for the cart
type EntityLookup interface {
	Get(ctx context.Context, kind catalog.Kind, id int64) (catalog.Entity, error)
}

// CartService applies cart mutations to a session's store
type CartService struct {
	lookup   EntityLookup
	rules    cart.ShippingRules
	currency string
	logger   *logrus.Logger
	now      func() time.Time
}

// NewCartService creates a new cart service
func NewCartService(cfg *config.Config, lookup EntityLookup, logger *logrus.Logger) *CartService {
	return &CartService{
		lookup: lookup,
		rules: cart.ShippingRules{
			Fee:                   cfg.Store.ShippingFee,
			FreeShippingThreshold: cfg.Store.FreeShippingThreshold,
		},
		currency: cfg.Store.Currency,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CartLine is a cart line ready for display
type CartLine struct {
	cart.LineItem
	DisplayName string          `json:"display_name"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartView is the cart with its derived totals
type CartView struct {
	Products  []CartLine  `json:"products"`
	Packages  []CartLine  `json:"packages"`
	Totals    cart.Totals `json:"totals"`
	Currency  string      `json:"currency"`
	Version   uint64      `json:"version"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CartCount is the cart badge
type CartCount struct {
	Lines    int `json:"lines"`
	Quantity int `json:"quantity"`
}

// AddRequest represents add to cart request
type AddRequest struct {
	Kind     cart.Kind `json:"kind" binding:"required"`
	ID       int64     `json:"id" binding:"required,min=1"`
	Quantity int       `json:"quantity"`
}

// View renders the session's cart in the session language
func (s *CartService) View(st *store.Store) CartView {
	return s.render(st.State())
}

func (s *CartService) render(state store.State) CartView {
	lang := state.Language.Code
	snapshot := state.Cart.Snapshot
	return CartView{
		Products:  s.lines(snapshot.Products, lang),
		Packages:  s.lines(snapshot.Packages, lang),
		Totals:    cart.ComputeTotals(snapshot.Products, snapshot.Packages, s.rules),
		Currency:  s.currency,
		Version:   state.Cart.Version,
		UpdatedAt: snapshot.UpdatedAt,
	}
}

func (s *CartService) lines(items []cart.LineItem, lang string) []CartLine {
	out := make([]CartLine, len(items))
	for i, item := range items {
		name := item.Name
		if lang == "ar" && item.NameAr != "" {
			name = item.NameAr
		}
		out[i] = CartLine{
			LineItem:    item,
			DisplayName: name,
			LineTotal:   cart.ParsePrice(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
	}
	return out
}

// Add adds quantity of a catalog entity. The entity is looked up so the line
// carries the current price and stock; the stored quantity is clamped to stock.
func (s *CartService) Add(ctx context.Context, st *store.Store, req AddRequest) (CartView, error) {
	if !req.Kind.Valid() {
		return CartView{}, cart.ErrInvalidKind
	}
	if req.Quantity < 0 {
		return CartView{}, ErrInvalidQuantity
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	entity, err := s.lookup.Get(ctx, catalog.KindForCart(req.Kind), req.ID)
	if err != nil {
		return CartView{}, err
	}
	if entity.LeftInStock <= 0 {
		return CartView{}, cart.ErrOutOfStock
	}

	state := st.Dispatch(store.CartLineAdded{
		Item:     entity.LineItem(catalog.KindForCart(req.Kind)),
		Quantity: req.Quantity,
		At:       s.now(),
	})
	return s.render(state), nil
}

// SetQuantity sets the quantity of a line already in the cart. Zero removes it.
func (s *CartService) SetQuantity(st *store.Store, kind cart.Kind, id int64, quantity int) (CartView, error) {
	if !kind.Valid() {
		return CartView{}, cart.ErrInvalidKind
	}
	if quantity < 0 {
		return CartView{}, ErrInvalidQuantity
	}
	if _, ok := st.State().Cart.Find(kind, id); !ok {
		return CartView{}, cart.ErrItemNotFound
	}

	state := st.Dispatch(store.CartQuantitySet{Kind: kind, ID: id, Quantity: quantity, At: s.now()})
	return s.render(state), nil
}

// Remove drops a line from the cart
func (s *CartService) Remove(st *store.Store, kind cart.Kind, id int64) (CartView, error) {
	if !kind.Valid() {
		return CartView{}, cart.ErrInvalidKind
	}
	if _, ok := st.State().Cart.Find(kind, id); !ok {
		return CartView{}, cart.ErrItemNotFound
	}

	state := st.Dispatch(store.CartLineRemoved{Kind: kind, ID: id, At: s.now()})
	return s.render(state), nil
}

// Clear empties the cart
func (s *CartService) Clear(st *store.Store) CartView {
	return s.render(st.Dispatch(store.CartCleared{At: s.now()}))
}

// RemoveOrdered takes the lines of an ordered view out of the cart. Lines
// added or topped up after the view was rendered stay behind.
func (s *CartService) RemoveOrdered(st *store.Store, ordered CartView) CartView {
	var lines []cart.LineItem
	for _, group := range [][]CartLine{ordered.Products, ordered.Packages} {
		for _, line := range group {
			lines = append(lines, line.LineItem)
		}
	}
	return s.render(st.Dispatch(store.CartLinesOrdered{Lines: lines, At: s.now()}))
}

// Count returns the number of lines and units in the cart
func (s *CartService) Count(st *store.Store) CartCount {
	snapshot := st.State().Cart.Snapshot
	count := CartCount{Lines: len(snapshot.Products) + len(snapshot.Packages)}
	for _, lines := range [][]cart.LineItem{snapshot.Products, snapshot.Packages} {
		for _, item := range lines {
			count.Quantity += item.Quantity
		}
	}
	return count
}

// Refresh re-reads price and stock of every line from the catalog, drops
// lines that are gone or sold out and re-clamps the rest. The lookups run
// outside the store; the result is applied to the cart as it is when the
// refresh lands, so mutations made in the meantime survive. It reports
// whether the lines the refresh saw changed.
func (s *CartService) Refresh(ctx context.Context, st *store.Store) (CartView, bool, error) {
	current := st.State()
	fresh, gone, err := s.lookupLines(ctx, current.Cart.Snapshot)
	if err != nil {
		return s.render(current), false, err
	}

	now := s.now()
	if _, changed := cart.Refresh(current.Cart.Snapshot, fresh, gone, now); !changed {
		return s.render(current), false, nil
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": st.ID(),
		"gone":       len(gone),
	}).Info("Cart refreshed from catalog")

	state := st.Dispatch(store.CartRefreshed{Fresh: fresh, Gone: gone, At: now})
	return s.render(state), true, nil
}

// Preview renders the cart as a refresh would leave it without changing the session
func (s *CartService) Preview(ctx context.Context, st *store.Store) (CartView, bool, error) {
	current := st.State()
	fresh, gone, err := s.lookupLines(ctx, current.Cart.Snapshot)
	if err != nil {
		return s.render(current), false, err
	}

	preview := current
	snapshot, changed := cart.Refresh(current.Cart.Snapshot, fresh, gone, s.now())
	preview.Cart.Snapshot = snapshot
	return s.render(preview), changed, nil
}

func (s *CartService) lookupLines(ctx context.Context, snapshot cart.Snapshot) (map[cart.Key]cart.LineItem, map[cart.Key]bool, error) {
	fresh := make(map[cart.Key]cart.LineItem)
	gone := make(map[cart.Key]bool)
	for _, lines := range [][]cart.LineItem{snapshot.Products, snapshot.Packages} {
		for _, item := range lines {
			kind := catalog.KindForCart(item.Kind)
			entity, err := s.lookup.Get(ctx, kind, item.ID)
			if catalog.IsNotFound(err) {
				gone[item.Key()] = true
				continue
			}
			if err != nil {
				return nil, nil, fmt.Errorf("failed to refresh cart line %s/%d: %w", item.Kind, item.ID, err)
			}
			fresh[item.Key()] = entity.LineItem(kind)
		}
	}
	return fresh, gone, nil
}
