package tokens

import "errors"

// ErrInsufficientBalance indicates the broker holds fewer tokens than the
// submission minimum.
var ErrInsufficientBalance = errors.New("insufficient token balance")

// ErrBrokerNotFound indicates the broker does not exist in the ledger.
var ErrBrokerNotFound = errors.New("broker not found")
