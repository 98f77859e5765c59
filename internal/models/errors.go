package models

import (
	"errors"
	"fmt"
	"strings"
)

// Business-rule failures. Handlers translate these into HTTP statuses and
// user-displayable messages; anything else is a store error and surfaces
// as a generic 500.
var (
	ErrEventNotFound         = errors.New("event not found")
	ErrStudentNotFound       = errors.New("student not found")
	ErrCapacityFull          = errors.New("event registration is full")
	ErrDuplicateRegistration = errors.New("duplicate registration for event")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrNoFields              = errors.New("no fields to update")
	ErrNoData                = errors.New("no data to export")
	ErrSessionNotFound       = errors.New("session not found")
)

// MissingFieldsError lists every required field that was absent or blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// FieldError reports a single malformed field with its user-facing message.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// IsValidationError reports whether err is recoverable by correcting input.
func IsValidationError(err error) bool {
	var mf *MissingFieldsError
	var fe *FieldError
	return errors.As(err, &mf) || errors.As(err, &fe)
}

// WrapStore annotates a data access failure with the operation that hit it.
// The wrapped detail is for server-side logs only.
func WrapStore(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
