// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is always wrapped by a ValidationError naming the violated constraint.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidSortField is returned when a sort field is not one of the
	// supported values.
	ErrInvalidSortField = errors.New("invalid sort field")

	// ErrInvalidSortDirection is returned when a sort direction is not
	// "asc" or "desc".
	ErrInvalidSortDirection = errors.New("invalid sort direction")
)

// ValidationError reports which constraint a card or settings value violated.
// It wraps ErrValidation so callers can check with errors.Is.
type ValidationError struct {
	Field  string // The field that failed validation (e.g., "question")
	Reason string // Human-readable description of the violated constraint
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrValidation to support errors.Is checks.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a new ValidationError for the given field and reason.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
