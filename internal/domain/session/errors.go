package session

import "errors"

var ErrUnauthorized = errors.New("unauthorized")
