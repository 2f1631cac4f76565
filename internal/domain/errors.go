package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so callers can map outcomes without leaking infrastructure details.
var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("service unavailable")
	ErrBadRequest  = errors.New("bad request")
)
