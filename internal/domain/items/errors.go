package items

import "errors"

var (
	ErrItemNotFound = errors.New("item not found")
	ErrNameRequired = errors.New("item name is required")
)
