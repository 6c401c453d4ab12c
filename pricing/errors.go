/*
errors.go - Error types for the pricing engine

ERROR CATEGORIES:
  1. Validation errors - tariff business-rule violations at write time
  2. Lookup errors - no tariff row for a (category, season) key

A missing tariff is a reportable condition, not a zero price. The
calculator returns TariffNotFoundError and lets the caller decide
whether to degrade; it never silently prices a stay at zero.
*/
package pricing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrTariffNotFound is returned when no tariff row exists for the
	// requested (category, season) key. Usually a configuration gap.
	ErrTariffNotFound = errors.New("tariff not found")

	// ErrValidation is the base for tariff write-time validation failures.
	ErrValidation = errors.New("validation failed")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// TariffNotFoundError carries the key that missed.
type TariffNotFoundError struct {
	Category Category
	Season   Season
}

func (e *TariffNotFoundError) Error() string {
	return fmt.Sprintf("no tariff for category %q in %s season", e.Category, e.Season)
}

func (e *TariffNotFoundError) Unwrap() error { return ErrTariffNotFound }

// ValidationError maps field names to human-readable problems. Surfaced
// to the admin data-entry caller, never logged as a system fault.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, msg string) { e.Fields[field] = msg }

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("%s: %s", field, msg)
	}
	return "validation failed"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input rather
// than a system fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing tariff row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTariffNotFound)
}
