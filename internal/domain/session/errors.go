package session

import "errors"

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrInvalidQuantity     = errors.New("quantity cannot be negative")
	ErrSessionExpired      = errors.New("session expired")
)
