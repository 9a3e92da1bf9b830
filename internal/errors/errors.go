package errors

import "errors"

// Domain error taxonomy. Services return these sentinels (usually wrapped
// with context via fmt.Errorf and %w); handlers translate them to HTTP with
// FromError.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidState    = errors.New("invalid state")
	ErrConflict        = errors.New("conflict")
	ErrAlreadyReviewed = errors.New("already reviewed")
	ErrStorage         = errors.New("storage error")
)
