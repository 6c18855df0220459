// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"
)

// Kind distinguishes ordinary products from bundled packages
type Kind string

const (
	KindProduct Kind = "product"
	KindPackage Kind = "package"
)

// Valid reports whether k is a known line item kind
func (k Kind) Valid() bool {
	return k == KindProduct || k == KindPackage
}

// LineItem is a quantity-bearing reference to a product or package held in the cart.
// Price is kept as the decimal string the remote API returned.
type LineItem struct {
	ID          int64  `json:"id"`
	Kind        Kind   `json:"kind"`
	Name        string `json:"name"`
	NameAr      string `json:"name_ar,omitempty"`
	Image       string `json:"image,omitempty"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	LeftInStock int    `json:"left_in_stock"`
}

// Key identifies a cart line
type Key struct {
	Kind Kind
	ID   int64
}

// Key returns the line's key
func (i LineItem) Key() Key {
	return Key{Kind: i.Kind, ID: i.ID}
}

// Snapshot is the persisted form of a cart: the JSON blob cached per session
// and the unit loaded from and saved to a Repository.
type Snapshot struct {
	Products  []LineItem `json:"products"`
	Packages  []LineItem `json:"packages"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsEmpty reports whether the snapshot holds no lines
func (s Snapshot) IsEmpty() bool {
	return len(s.Products) == 0 && len(s.Packages) == 0
}

// Lines returns the sequence for kind
func (s Snapshot) Lines(kind Kind) []LineItem {
	if kind == KindPackage {
		return s.Packages
	}
	return s.Products
}

// Find returns the line for kind and id
func (s Snapshot) Find(kind Kind, id int64) (LineItem, bool) {
	for _, item := range s.Lines(kind) {
		if item.ID == id {
			return item, true
		}
	}
	return LineItem{}, false
}

// CartItem is a signed-in customer's cart line stored in the database
type CartItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CustomerID  uint           `gorm:"not null;uniqueIndex:idx_cart_items_line" json:"customer_id"`
	Kind        string         `gorm:"size:16;not null;uniqueIndex:idx_cart_items_line" json:"kind"`
	ItemID      int64          `gorm:"not null;uniqueIndex:idx_cart_items_line" json:"item_id"`
	Position    int            `gorm:"not null;default:0" json:"position"`
	Name        string         `gorm:"size:255" json:"name"`
	NameAr      string         `gorm:"size:255" json:"name_ar"`
	Image       string         `gorm:"size:500" json:"image"`
	Price       string         `gorm:"size:32;not null" json:"price"` // Price at time of adding
	Quantity    int            `gorm:"not null;default:1" json:"quantity"`
	LeftInStock int            `gorm:"not null;default:0" json:"left_in_stock"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// ToLineItem converts the stored row into a cart line
func (c CartItem) ToLineItem() LineItem {
	return LineItem{
		ID:          c.ItemID,
		Kind:        Kind(c.Kind),
		Name:        c.Name,
		NameAr:      c.NameAr,
		Image:       c.Image,
		Price:       c.Price,
		Quantity:    c.Quantity,
		LeftInStock: c.LeftInStock,
	}
}
