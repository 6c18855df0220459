// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/infrastructure/api"
)

var (
	ErrUnauthenticated      = errors.New("sign in to place an order")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCartChanged          = errors.New("cart changed, review it before placing the order")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrMissingAddress       = errors.New("delivery address is required")
)

// Service places orders from the session cart
type Service struct {
	api    *api.Client
	carts  *session.CartService
	logger *logrus.Logger
}

// NewService creates a new checkout service
func NewService(apiClient *api.Client, carts *session.CartService, logger *logrus.Logger) *Service {
	return &Service{
		api:    apiClient,
		carts:  carts,
		logger: logger,
	}
}

// Request represents a place order request
type Request struct {
	Address       string              `json:"address" binding:"required"`
	Phone         string              `json:"phone"`
	Notes         string              `json:"notes"`
	PaymentMethod order.PaymentMethod `json:"payment_method" binding:"required"`
}

// Summary is what the customer would be charged
type Summary struct {
	Cart        session.CartView `json:"cart"`
	Changed     bool             `json:"changed"`
	Charged     decimal.Decimal  `json:"shipping_charged"`
	CanCheckout bool             `json:"can_checkout"`
}

type orderLine struct {
	Type     string `json:"type"`
	ItemID   int64  `json:"item_id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type orderPayload struct {
	Address       string              `json:"address"`
	Phone         string              `json:"phone"`
	Notes         string              `json:"notes,omitempty"`
	PaymentMethod order.PaymentMethod `json:"payment_method"`
	Items         []orderLine         `json:"items"`
	Subtotal      string              `json:"subtotal"`
	Shipping      string              `json:"shipping"`
	Total         string              `json:"total"`
}

type orderResponse struct {
	Data order.Order `json:"data"`
}

// Summary checks the cart against the catalog and returns the totals. The
// session is left as it is; POST /cart/refresh applies the changes.
func (s *Service) Summary(ctx context.Context, st *store.Store) (*Summary, error) {
	view, changed, err := s.carts.Preview(ctx, st)
	if err != nil {
		return nil, err
	}
	state := st.State()
	return &Summary{
		Cart:        view,
		Changed:     changed,
		Charged:     shippingCharged(view),
		CanCheckout: state.Auth.SignedIn() && len(view.Products)+len(view.Packages) > 0,
	}, nil
}

// PlaceOrder submits the cart as an order and takes the ordered lines out of
// the cart on success.
// A cart whose prices or stock moved since the customer last saw it is
// refreshed and rejected with ErrCartChanged.
func (s *Service) PlaceOrder(ctx context.Context, st *store.Store, req Request) (*order.Order, error) {
	state := st.State()
	if !state.Auth.SignedIn() {
		return nil, ErrUnauthenticated
	}
	if state.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	req.Address = strings.TrimSpace(req.Address)
	if req.Address == "" {
		return nil, ErrMissingAddress
	}
	if req.Phone == "" {
		req.Phone = state.Auth.Phone
	}

	view, changed, err := s.carts.Refresh(ctx, st)
	if err != nil {
		return nil, err
	}
	if changed {
		return nil, ErrCartChanged
	}

	payload := orderPayload{
		Address:       req.Address,
		Phone:         req.Phone,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
		Subtotal:      view.Totals.Subtotal.String(),
		Shipping:      shippingCharged(view).String(),
		Total:         view.Totals.GrandTotal.String(),
	}
	for _, lines := range [][]session.CartLine{view.Products, view.Packages} {
		for _, line := range lines {
			payload.Items = append(payload.Items, orderLine{
				Type:     string(line.Kind),
				ItemID:   line.ID,
				Quantity: line.Quantity,
				Price:    line.Price,
			})
		}
	}

	var resp orderResponse
	err = s.api.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Path:     "orders",
		Body:     payload,
		Token:    state.Auth.Token,
		Language: state.Language.Code,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.carts.RemoveOrdered(st, view)

	s.logger.WithFields(logrus.Fields{
		"session_id":   st.ID(),
		"customer_id":  state.Auth.CustomerID,
		"order_number": resp.Data.OrderNumber,
		"total":        payload.Total,
	}).Info("Order placed")

	return &resp.Data, nil
}

func shippingCharged(view session.CartView) decimal.Decimal {
	if view.Totals.FreeShipping {
		return decimal.Zero
	}
	return view.Totals.Shipping
}
