package review

import "errors"

// Error taxonomy surfaced to the HTTP boundary.
var (
	// ErrIncomplete is a missing required field, maps to 400.
	ErrIncomplete = errors.New("incomplete parameters")
	// ErrValidation is a malformed field value, maps to 400.
	ErrValidation = errors.New("invalid parameters")
	// ErrConflict is a duplicate review slipping past the upsert check.
	// The check-then-act is not atomic under concurrent first-time
	// submissions; the store's unique index is the real backstop. Maps to a
	// generic 500 since the check should have prevented it.
	ErrConflict = errors.New("duplicate review")
	// ErrNotFound is a missing referenced user or product, maps to 404.
	ErrNotFound = errors.New("not found")
)
