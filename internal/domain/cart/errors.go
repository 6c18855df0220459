package cart

import "errors"

var (
	ErrItemNotFound = errors.New("item not found in cart")
	ErrOutOfStock   = errors.New("item is out of stock")
	ErrInvalidKind  = errors.New("unknown cart item kind")
)
