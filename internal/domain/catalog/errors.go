package catalog

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown catalog kind")
	ErrEntityNotFound = errors.New("catalog entity not found")
)
