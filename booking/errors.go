/*
errors.go - Error types for the reservation domain

TAXONOMY:
  ValidationError      user-input rule violation; surfaced, never logged
  ErrCapacityExceeded  no availability for the dates; expected and frequent
  ErrCapacityUndefined no capacity row configured for a category; an
                       operational misconfiguration, deliberately a
                       different type from ErrCapacityExceeded so callers
                       cannot show "fully booked" for a config gap
  ErrNotFound          missing reservation/enquiry by ID
*/
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/maineblanc/booking-engine/pricing"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrCapacityExceeded is returned when admitting a reservation would
	// push concurrent occupancy past the category's limit.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrCapacityUndefined is returned when no capacity row exists for a
	// category. Configuration gap, not "fully booked".
	ErrCapacityUndefined = errors.New("capacity not configured")

	// ErrMissingDates is returned when a capacity check runs without both
	// dates set.
	ErrMissingDates = errors.New("reservation dates are required")

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is the base for draft validation failures.
	ErrValidation = errors.New("validation failed")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// CapacityExceededError carries the context of a refused admission.
type CapacityExceededError struct {
	Category      pricing.Category
	StartDate     time.Time
	EndDate       time.Time
	MaxConcurrent int
	Overlapping   int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("no %s pitch available between %s and %s (%d of %d taken)",
		e.Category,
		e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02"),
		e.Overlapping, e.MaxConcurrent)
}

func (e *CapacityExceededError) Unwrap() error { return ErrCapacityExceeded }

// CapacityUndefinedError names the unconfigured category.
type CapacityUndefinedError struct {
	Category pricing.Category
}

func (e *CapacityUndefinedError) Error() string {
	return fmt.Sprintf("capacity is not configured for category %q", e.Category)
}

func (e *CapacityUndefinedError) Unwrap() error { return ErrCapacityUndefined }

// ValidationError maps field names to problems, same shape as the pricing
// package's so the API layer renders both uniformly.
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

// IsClientError returns true for errors caused by the customer's input or
// the state of the calendar, as opposed to system faults.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrMissingDates)
}

// IsConfigError returns true for operational misconfiguration that an
// admin, not the customer, must fix.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrCapacityUndefined)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
