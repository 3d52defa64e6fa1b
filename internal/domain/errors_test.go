package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrValidation, ErrUnavailable}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     string
	}{
		{"quote by id", NewNotFoundError("quote", "12"), ErrNotFound, "quote 12 not found"},
		{"entity only", NewNotFoundError("quote", ""), ErrNotFound, "quote not found"},
		{"no quote of type", NewNoMatchError(QuoteTypePractical), ErrNotFound, "no practical quote found"},
		{"field", NewValidationError("theme", "must be one of: light dark"), ErrValidation, "invalid theme: must be one of: light dark"},
		{"no field", NewValidationError("", "empty request"), ErrValidation, "validation failed: empty request"},
		{"unavailable with reason", NewUnavailableError("avatar", "HTTP 503"), ErrUnavailable, "avatar unavailable: HTTP 503"},
		{"unavailable", NewUnavailableError("avatar", ""), ErrUnavailable, "avatar unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestNoMatchError_Fields(t *testing.T) {
	var notFound *NotFoundError
	require.ErrorAs(t, NewNoMatchError(QuoteTypeInspiration), &notFound)

	assert.Equal(t, "quote", notFound.Entity)
	assert.Empty(t, notFound.ID)
	assert.Equal(t, QuoteTypeInspiration, notFound.Type)
}

func TestValidationErrorWithValue(t *testing.T) {
	err := NewValidationErrorWithValue("width", "must be at most 600", 900)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "width", validation.Field)
	assert.Equal(t, 900, validation.Value)
}

func TestUnavailableError_Fields(t *testing.T) {
	var unavailable *UnavailableError
	require.ErrorAs(t, fmt.Errorf("fetch: %w", NewUnavailableError("avatar", "timeout")), &unavailable)

	assert.Equal(t, "avatar", unavailable.Resource)
	assert.Equal(t, "timeout", unavailable.Reason)
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNotFound with NotFoundError", NewNotFoundError("quote", "1"), IsNotFound, true},
		{"IsNotFound with no match", NewNoMatchError(QuoteTypePractical), IsNotFound, true},
		{"IsNotFound with wrapped", fmt.Errorf("wrapped: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound with other error", ErrValidation, IsNotFound, false},
		{"IsNotFound with nil", nil, IsNotFound, false},

		{"IsValidation with ValidationError", NewValidationError("width", "too small"), IsValidation, true},
		{"IsValidation with wrapped", fmt.Errorf("wrapped: %w", ErrValidation), IsValidation, true},
		{"IsValidation with other error", ErrNotFound, IsValidation, false},

		{"IsUnavailable with UnavailableError", NewUnavailableError("avatar", "timeout"), IsUnavailable, true},
		{"IsUnavailable with wrapped", fmt.Errorf("wrapped: %w", ErrUnavailable), IsUnavailable, true},
		{"IsUnavailable with other error", ErrNotFound, IsUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	wrapped := fmt.Errorf("layer2: %w", fmt.Errorf("layer1: %w", NewNotFoundError("quote", "42")))

	assert.True(t, IsNotFound(wrapped))

	var notFound *NotFoundError
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "42", notFound.ID)
}
