package domain

import "errors"

var (
	// ErrRateNotFound is distinct from a generic not-found: callers surface
	// it with an explicit "rate not found" message.
	ErrRateNotFound = errors.New("rate_not_found")
)
