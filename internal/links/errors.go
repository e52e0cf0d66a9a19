package links

import "errors"

var (
	// ErrNotFound indicates no link exists for the token.
	ErrNotFound = errors.New("onboarding link not found")
	// ErrInactive indicates the link exists but is not in active status.
	ErrInactive = errors.New("onboarding link not active")
	// ErrExpired indicates the link passed its expiry time.
	ErrExpired = errors.New("onboarding link expired")
	// ErrExhausted indicates the link reached its submission cap.
	ErrExhausted = errors.New("onboarding link submission limit reached")
)
