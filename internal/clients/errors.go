package clients

import "errors"

// ErrNotFound indicates no client exists for the given ID.
var ErrNotFound = errors.New("client not found")
