package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is wrapped by every "missing entity" error.
	ErrNotFound = errors.New("not found")

	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrCartNotFound     = fmt.Errorf("cart %w", ErrNotFound)
	ErrCartItemNotFound = fmt.Errorf("product %w in cart", ErrNotFound)
	ErrStudentNotFound  = fmt.Errorf("student %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	// ErrInvalidID reports an identifier the backing store cannot parse.
	ErrInvalidID = errors.New("invalid id")
)

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Errors []string
}

func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Errors: msgs}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// DuplicateKeyError reports a unique constraint violation.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already exists: %q is already in use", e.Field, e.Value)
}

// InsufficientStockError is returned when a cart asks for more units than a
// product has available.
type InsufficientStockError struct {
	ProductID string
	Title     string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d", e.Title, e.Available)
}

// IsNotFound reports whether err denotes a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
