// internal/domain/store/actions.go
package store

import (
	"time"

	"github.com/your-org/storefront/internal/domain/cart"
)

// Action describes a state change. Reducers switch on the concrete type.
type Action interface {
	actionName() string
}

// CartLineAdded adds Quantity of Item, merging with an existing line
type CartLineAdded struct {
	Item     cart.LineItem
	Quantity int
	At       time.Time
}

// CartQuantitySet sets the quantity of an existing line; zero removes it
type CartQuantitySet struct {
	Kind     cart.Kind
	ID       int64
	Quantity int
	At       time.Time
}

// CartLineRemoved drops a line
type CartLineRemoved struct {
	Kind cart.Kind
	ID   int64
	At   time.Time
}

// CartCleared empties the cart
type CartCleared struct {
	At time.Time
}

// CartRefreshed applies catalog data looked up for the cart's lines to
// whatever the cart holds when it is reduced
type CartRefreshed struct {
	Fresh map[cart.Key]cart.LineItem
	Gone  map[cart.Key]bool
	At    time.Time
}

// CartLinesOrdered takes the quantities of a placed order out of the cart
type CartLinesOrdered struct {
	Lines []cart.LineItem
	At    time.Time
}

// SignedIn stores the customer identity. The current guest cart is merged
// into Saved, the cart the customer left behind last time.
type SignedIn struct {
	Auth  AuthState
	Saved cart.Snapshot
	At    time.Time
}

// SignedOut forgets the customer and starts an empty guest cart
type SignedOut struct {
	At time.Time
}

// LanguageChanged switches the presentation language
type LanguageChanged struct {
	Code string
}

func (CartLineAdded) actionName() string    { return "cart/line_added" }
func (CartQuantitySet) actionName() string  { return "cart/quantity_set" }
func (CartLineRemoved) actionName() string  { return "cart/line_removed" }
func (CartCleared) actionName() string      { return "cart/cleared" }
func (CartRefreshed) actionName() string    { return "cart/refreshed" }
func (CartLinesOrdered) actionName() string { return "cart/lines_ordered" }
func (SignedIn) actionName() string         { return "auth/signed_in" }
func (SignedOut) actionName() string        { return "auth/signed_out" }
func (LanguageChanged) actionName() string  { return "language/changed" }

// Name returns the action's log name
func Name(a Action) string {
	return a.actionName()
}
