// internal/domain/store/reducers.go
package store

import "github.com/your-org/storefront/internal/domain/cart"

// Reduce is the root reducer: every slice sees every action
func Reduce(s State, a Action) State {
	return State{
		Cart:     reduceCart(s.Cart, a),
		Auth:     reduceAuth(s.Auth, a),
		Language: reduceLanguage(s.Language, a),
	}
}

func reduceCart(s CartState, a Action) CartState {
	var next cart.Snapshot
	switch a := a.(type) {
	case CartLineAdded:
		next = cart.AddLine(s.Snapshot, a.Item, a.Quantity, a.At)
	case CartQuantitySet:
		next = cart.SetLineQuantity(s.Snapshot, a.Kind, a.ID, a.Quantity, a.At)
	case CartLineRemoved:
		next = cart.RemoveLine(s.Snapshot, a.Kind, a.ID, a.At)
	case CartCleared:
		next = cart.Snapshot{UpdatedAt: a.At}
	case CartRefreshed:
		var changed bool
		if next, changed = cart.Refresh(s.Snapshot, a.Fresh, a.Gone, a.At); !changed {
			return s
		}
	case CartLinesOrdered:
		next = cart.RemoveOrdered(s.Snapshot, a.Lines, a.At)
	case SignedIn:
		next = cart.Merge(a.Saved, s.Snapshot, a.At)
	case SignedOut:
		next = cart.Snapshot{UpdatedAt: a.At}
	default:
		return s
	}
	return CartState{Snapshot: next, Version: s.Version + 1}
}

func reduceAuth(s AuthState, a Action) AuthState {
	switch a := a.(type) {
	case SignedIn:
		return a.Auth
	case SignedOut:
		return AuthState{}
	}
	return s
}

func reduceLanguage(s LanguageState, a Action) LanguageState {
	if a, ok := a.(LanguageChanged); ok {
		return LanguageState{Code: a.Code}
	}
	return s
}
