package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and repositories. Handlers map
// these to HTTP status codes with errors.Is / errors.As.
var (
	// ErrNotFound signals a missing entity (or an id looked up under the
	// wrong berth scope).
	ErrNotFound = errors.New("not found")

	// ErrDuplicate signals a uniqueness violation on berth number or
	// user email, surfaced by the store's unique constraint.
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidCredentials covers a wrong password on login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a bad field shape or range. It maps to 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a field-level validation failure
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
