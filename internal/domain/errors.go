package domain

import "errors"

// Sentinel errors returned by services. Handlers map them to HTTP statuses in
// one place; anything not in this set is treated as an internal failure.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("not logged in")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrPreconditionFailed = errors.New("precondition failed")
)
