package store

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("paperstore: validation failed")

	// ErrInvalidKey is returned when a paper_id cannot be parsed as an integer.
	ErrInvalidKey = errors.New("paperstore: invalid paper id")

	// ErrNotFound is returned when no paper exists for a valid key.
	ErrNotFound = errors.New("paperstore: paper not found")

	// ErrStoreUnavailable wraps any failed DynamoDB call.
	ErrStoreUnavailable = errors.New("paperstore: store unavailable")

	// ErrEmptyUpdate is returned by UpdateBuilder when no field qualifies.
	ErrEmptyUpdate = errors.New("paperstore: no fields to update")
)

// FieldError reports which input field was rejected and why.
type FieldError struct {
	// Field is the form/attribute name, e.g. "page_number".
	Field string

	// Reason is a short human-readable explanation, e.g. "is required".
	Reason string

	// Err is ErrValidation or ErrInvalidKey.
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s %s", e.Err, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// unavailable wraps a backend error so callers can match ErrStoreUnavailable
// while the SDK error stays reachable for logging.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
