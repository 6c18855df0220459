// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront/internal/domain/catalog"
)

// Status represents the order status reported by the remote API
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentMethod is how the customer pays on delivery or online
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// Valid reports whether the payment method is accepted
func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentCard
}

// Order mirrors an order record of the remote API
type Order struct {
	ID            int64          `json:"id"`
	OrderNumber   string         `json:"order_number"`
	Status        Status         `json:"status"`
	PaymentMethod PaymentMethod  `json:"payment_method"`
	Address       string         `json:"address"`
	Phone         string         `json:"phone"`
	Notes         string         `json:"notes,omitempty"`
	Items         []Item         `json:"items"`
	Subtotal      catalog.Amount `json:"subtotal"`
	Shipping      catalog.Amount `json:"shipping"`
	Total         catalog.Amount `json:"total"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Item is one order line
type Item struct {
	Kind     string         `json:"type"` // product or package
	ItemID   int64          `json:"item_id"`
	Name     string         `json:"name"`
	NameAr   string         `json:"name_ar,omitempty"`
	Price    catalog.Amount `json:"price"`
	Quantity int            `json:"quantity"`
}

// LineTotal returns price times quantity
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Decimal().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DisplayName picks the item name for lang
func (i Item) DisplayName(lang string) string {
	if lang == "ar" && i.NameAr != "" {
		return i.NameAr
	}
	return i.Name
}

// CanBeCancelled checks if order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// IsCompleted checks if order is completed
func (o *Order) IsCompleted() bool {
	return o.Status == StatusDelivered
}

// Page is one page of a customer's order history
type Page struct {
	Orders   []Order `json:"orders"`
	Page     int     `json:"page"`
	NextPage *int    `json:"next_page"`
}
