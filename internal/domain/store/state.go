// internal/domain/store/state.go
package store

import (
	"time"

	"github.com/your-org/storefront/internal/domain/cart"
)

// State is everything the storefront keeps for one browsing session
type State struct {
	Cart     CartState     `json:"cart"`
	Auth     AuthState     `json:"auth"`
	Language LanguageState `json:"language"`
}

// CartState is the cart slice. Version increases on every cart change so
// subscribers can tell cart mutations apart from other updates.
type CartState struct {
	cart.Snapshot
	Version uint64 `json:"version"`
}

// AuthState is the auth slice. Token is the remote API bearer token and
// TokenID the id of the session token issued for this sign-in.
type AuthState struct {
	CustomerID uint      `json:"customer_id,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Token      string    `json:"-"`
	TokenID    string    `json:"-"`
	SignedInAt time.Time `json:"signed_in_at,omitempty"`
}

// SignedIn reports whether the session belongs to a customer
func (a AuthState) SignedIn() bool {
	return a.CustomerID != 0 && a.Token != ""
}

// LanguageState is the language slice
type LanguageState struct {
	Code string `json:"code"`
}
