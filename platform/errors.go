// errors.go - Domain-side error types.
//
// Ledger errors stay in the tokens package; the platform package reuses
// tokens.ErrNotFound for missing entities so callers match one sentinel.
package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a triggering action's input is
	// malformed. Raised before any state commit; no side effects.
	ErrValidation = errors.New("validation failed")

	// ErrNotAuthorized is returned when a caller outside the admin
	// allow-list invokes an admin-only operation.
	ErrNotAuthorized = errors.New("caller is not an administrator")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
