package domain

import "errors"

var (
	// ErrNotFound is returned when the requested escrow account does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("escrow account not found")
	// ErrInvalidState signals a precondition failure on status or expiry.
	// The loser of a concurrent race against the same account surfaces this error.
	ErrInvalidState        = errors.New("invalid escrow state")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	// ErrStore wraps transient transactional failures from the ledger store.
	// Operations that fail with it performed no writes and are safe to retry whole.
	ErrStore = errors.New("store unavailable")
)
