package common

import (
	"errors"
	"fmt"
)

// Domain errors. Callers wrap them with fmt.Errorf("...: %w", err) and
// handlers match with errors.Is.
var (
	// ErrNotFound also covers rows owned by another tenant.
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidEnumValue  = errors.New("invalid enum value")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
)

// NotFound wraps ErrNotFound with the entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// AlreadyExists wraps ErrAlreadyExists with a description of the conflicting key.
func AlreadyExists(entity, key string) error {
	return fmt.Errorf("%s with %s %w", entity, key, ErrAlreadyExists)
}

// Invalid wraps ErrValidation with a message.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
