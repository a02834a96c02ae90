package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"validation", Validation("amount must be positive"), ErrValidation, "validation error: amount must be positive"},
		{"not found", NotFound("car"), ErrNotFound, "not found: car"},
		{"forbidden", Forbidden("not room owner"), ErrForbidden, "forbidden: not room owner"},
		{"transition", InvalidTransition("Completed", "Pending"), ErrInvalidTransition, "invalid status transition: Completed -> Pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestBackend(t *testing.T) {
	assert.Nil(t, Backend(nil))

	cause := errors.New("connection refused")
	err := Backend(cause)
	assert.True(t, errors.Is(err, ErrBackend))
	assert.True(t, errors.Is(err, cause))
}
