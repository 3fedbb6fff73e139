package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", Validation("amount must be positive"), ErrValidation},
		{"unauthorized", Unauthorized("role %s cannot review", "Employee"), ErrUnauthorized},
		{"not found", NotFound("claim %d", 42), ErrNotFound},
		{"conflict", Conflict("claim already transitioned"), ErrConflict},
		{"system", System("create claim", errors.New("disk full")), ErrSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)

			// Each error belongs to exactly one category.
			for _, other := range []error{ErrValidation, ErrUnauthorized, ErrNotFound, ErrConflict, ErrSystem} {
				if other == tt.sentinel {
					continue
				}
				assert.NotErrorIs(t, tt.err, other)
			}
		})
	}
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("review claim: %w", Conflict("lost race"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Conflict("lost race")))
	assert.True(t, IsRetryable(System("op", errors.New("timeout"))))
	assert.False(t, IsRetryable(Validation("bad input")))
	assert.False(t, IsRetryable(Unauthorized("no")))
	assert.False(t, IsRetryable(NotFound("claim")))
}
