package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two storage contract failures every backend must
// report the same way.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("duplicate key")
)

// FieldError is one caller-fixable problem with a named input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of field problems so callers can fix
// everything in one round trip.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// InsufficientStockError names the offending item and how much stock it has.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d, Requested: %d",
		e.ItemName, e.Available, e.Requested)
}

// StorageUnavailableError wraps a backend failure. Read paths degrade to
// empty results on it; write paths surface it.
type StorageUnavailableError struct {
	Cause error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Cause)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Cause }
