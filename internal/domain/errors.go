package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a malformed request: missing or ill-typed fields,
	// out of range pagination, empty updates.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoFieldsProvided is returned for an update without any field to set.
	ErrNoFieldsProvided = fmt.Errorf("%w: no fields provided for update", ErrInvalidInput)
	// ErrDuplicateKey is returned when employee_id already exists.
	ErrDuplicateKey = errors.New("employee_id must be unique")
	// ErrNotFound is returned when no record matches employee_id.
	ErrNotFound = errors.New("employee not found")
	// ErrUnauthenticated is returned for a missing or invalid credential.
	ErrUnauthenticated = errors.New("invalid token")
)

// InvalidInputf wraps ErrInvalidInput with a formatted detail message.
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
