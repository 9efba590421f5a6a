package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("not found")

// Auth errors are surfaced as form-level messages; none of them is fatal.
var (
	ErrNotRegistered      = errors.New("user not registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyRegistered  = errors.New("email already registered")
)

// ValidationError reports a rejected input. It is checked synchronously
// before any mutation or storage I/O.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
