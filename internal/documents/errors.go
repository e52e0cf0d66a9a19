package documents

import "errors"

// ErrNotFound indicates no document exists for the given ID.
var ErrNotFound = errors.New("document not found")
