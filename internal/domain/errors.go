package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every typed error below unwraps to one of them.
var (
	// ErrNotFound means no quote matched the lookup.
	ErrNotFound = errors.New("not found")

	// ErrValidation means a caller-supplied parameter was rejected.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable means an outside resource, such as an avatar host, failed.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError describes a lookup that matched nothing. ID is set for
// direct lookups, Type for filtered random selection.
type NotFoundError struct {
	Entity string
	ID     string
	Type   QuoteType
}

func (e *NotFoundError) Error() string {
	switch {
	case e.ID != "":
		return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
	case e.Type != "":
		return fmt.Sprintf("no %s %s found", e.Type, e.Entity)
	default:
		return e.Entity + " not found"
	}
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError reports a missing entity. id may be empty.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// NewNoMatchError reports that no quote has the requested type.
func NewNoMatchError(quoteType QuoteType) error {
	return &NotFoundError{Entity: "quote", Type: quoteType}
}

// ValidationError rejects one named parameter.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError rejects field with a human-readable reason.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue is NewValidationError that also records the
// rejected input for logging.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError reports a failed outside resource.
type UnavailableError struct {
	Resource string
	Reason   string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return e.Resource + " unavailable"
	}

	return fmt.Sprintf("%s unavailable: %s", e.Resource, e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError reports that resource failed, with an optional reason.
func NewUnavailableError(resource, reason string) error {
	return &UnavailableError{Resource: resource, Reason: reason}
}

// IsNotFound reports whether err is, or wraps, a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is, or wraps, a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable reports whether err is, or wraps, an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
