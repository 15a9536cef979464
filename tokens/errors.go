/*
errors.go - Centralized error types for the token ledger

PURPOSE:

	All ledger error types in one place for consistency and discoverability.
	Collaborating packages (platform, api) match on these with errors.Is.

ERROR CATEGORIES:
 1. State errors     - Missing or already-present balance records
 2. Funds errors     - Spend exceeding the available balance
 3. Input errors     - Zero or negative amounts
 4. Archive errors   - Durability layer failures surfaced unchanged

USAGE:

	if errors.Is(err, tokens.ErrInsufficientTokens) {
	    // balance was left untouched
	}

SEE ALSO:
  - ledger.go: Returns these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package tokens

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when an operation addresses an identity with
	// no balance record. Earn and Spend never auto-create balances.
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyInitialized is returned when Initialize is called twice for
	// the same identity. The first grant stands; nothing is recorded.
	ErrAlreadyInitialized = errors.New("user already initialized")

	// ErrInsufficientTokens is returned when a spend exceeds the current
	// balance. No partial spend, no balance mutation.
	ErrInsufficientTokens = errors.New("insufficient tokens")

	// ErrInvalidAmount is returned when an earn or spend amount is zero.
	// Amounts are unsigned, so negative values cannot be expressed.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientTokensError reports how far short a spend fell.
type InsufficientTokensError struct {
	User      Identity
	Available uint64
	Requested uint64
}

func (e *InsufficientTokensError) Error() string {
	return fmt.Sprintf("insufficient tokens: available %d, requested %d, shortfall %d",
		e.Available, e.Requested, e.Shortfall())
}

func (e *InsufficientTokensError) Shortfall() uint64 {
	return e.Requested - e.Available
}

func (e *InsufficientTokensError) Unwrap() error {
	return ErrInsufficientTokens
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// or caller state, rather than a ledger-side failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientTokens) ||
		errors.Is(err, ErrAlreadyInitialized) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNotFound)
}

// IsNotFound returns true if the error indicates a missing balance record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
