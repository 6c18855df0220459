// internal/domain/catalog/entity.go
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront/internal/domain/cart"
)

// Kind is a catalog collection exposed by the remote API
type Kind string

const (
	KindProducts Kind = "products"
	KindPackages Kind = "packages"
)

// ParseKind validates a collection name taken from a URL
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindProducts, KindPackages:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// CartKind returns the cart line kind for entities of this collection
func (k Kind) CartKind() cart.Kind {
	if k == KindPackages {
		return cart.KindPackage
	}
	return cart.KindProduct
}

// KindForCart is the inverse of CartKind
func KindForCart(k cart.Kind) Kind {
	if k == cart.KindPackage {
		return KindPackages
	}
	return KindProducts
}

// Amount is a money value as the remote API sends it. Some endpoints send
// strings and some send numbers; both decode to the same decimal text.
type Amount string

// UnmarshalJSON accepts a JSON string, number or null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = Amount(n.String())
	return nil
}

// Decimal parses the amount; malformed values are zero
func (a Amount) Decimal() decimal.Decimal {
	return cart.ParsePrice(string(a))
}

// Entity is a product or package record mirrored from the remote API.
// Entities are immutable once fetched.
type Entity struct {
	ID            int64    `json:"id"`
	NameEn        string   `json:"name"`
	NameAr        string   `json:"name_ar"`
	DescriptionEn string   `json:"description"`
	DescriptionAr string   `json:"description_ar"`
	Price         Amount   `json:"price"`
	Discount      Amount   `json:"discount"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	LeftInStock   int      `json:"left_in_stock"`
	Products      []Entity `json:"products,omitempty"` // Package contents
}

// LocalizedEntity is an entity with display fields resolved for one language
type LocalizedEntity struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       string            `json:"price"`
	Discount    string            `json:"discount,omitempty"`
	Image       string            `json:"image"`
	Images      []string          `json:"images,omitempty"`
	LeftInStock int               `json:"left_in_stock"`
	InStock     bool              `json:"in_stock"`
	Products    []LocalizedEntity `json:"products,omitempty"`
}

// Localize picks the language-tagged display fields. Arabic falls back to
// English when the Arabic text is missing.
func (e Entity) Localize(lang string) LocalizedEntity {
	out := LocalizedEntity{
		ID:          e.ID,
		Name:        pick(lang, e.NameEn, e.NameAr),
		Description: pick(lang, e.DescriptionEn, e.DescriptionAr),
		Price:       string(e.Price),
		Discount:    string(e.Discount),
		Image:       e.Image,
		Images:      e.Images,
		LeftInStock: e.LeftInStock,
		InStock:     e.LeftInStock > 0,
	}
	if out.Image == "" && len(e.Images) > 0 {
		out.Image = e.Images[0]
	}
	if len(e.Products) > 0 {
		out.Products = LocalizeAll(e.Products, lang)
	}
	return out
}

// LocalizeAll localizes a list of entities preserving order
func LocalizeAll(entities []Entity, lang string) []LocalizedEntity {
	out := make([]LocalizedEntity, len(entities))
	for i, e := range entities {
		out[i] = e.Localize(lang)
	}
	return out
}

// LineItem converts the entity into a cart line of the given kind, quantity unset
func (e Entity) LineItem(kind Kind) cart.LineItem {
	image := e.Image
	if image == "" && len(e.Images) > 0 {
		image = e.Images[0]
	}
	return cart.LineItem{
		ID:          e.ID,
		Kind:        kind.CartKind(),
		Name:        e.NameEn,
		NameAr:      e.NameAr,
		Image:       image,
		Price:       string(e.Price),
		LeftInStock: e.LeftInStock,
	}
}

func pick(lang, en, ar string) string {
	if lang == "ar" && ar != "" {
		return ar
	}
	return en
}
