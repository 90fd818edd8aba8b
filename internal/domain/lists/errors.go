package lists

import "errors"

var (
	ErrListNotFound      = errors.New("list not found")
	ErrChildNameRequired = errors.New("child name is required")
	ErrItemIDRequired    = errors.New("list item id is required")
	ErrUnknownItem       = errors.New("list references an unknown item")
	ErrDuplicateItem     = errors.New("list references the same item twice")
)
