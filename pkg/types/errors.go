package types

import "errors"

// Board errors.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrInvalidID    = errors.New("invalid entity ID")
	ErrDuplicateID  = errors.New("duplicate entity ID")
	ErrEmptyItem    = errors.New("item needs text or an image")
	ErrInvalidColor = errors.New("invalid color")
)

// Persistence and document errors.
var (
	ErrNoBoard         = errors.New("no stored board")
	ErrMalformed       = errors.New("stored board is malformed")
	ErrInvalidDocument = errors.New("invalid board document")
)
