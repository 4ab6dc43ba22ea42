package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/playtube/playtube-api/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	testCases := []struct {
		name     string
		err      *apperror.Error
		expected int
	}{
		{"validation", apperror.Validation("bad input"), http.StatusBadRequest},
		{"unauthorized", apperror.Unauthorized("no token"), http.StatusUnauthorized},
		{"not found", apperror.NotFound("no such user"), http.StatusNotFound},
		{"conflict", apperror.Conflict("duplicate"), http.StatusConflict},
		{"internal", apperror.Internal("boom", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Status())
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := apperror.Conflict("email already in use")
		assert.Equal(t, "email already in use", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("write conflict")
		err := apperror.Internal("failed to save user", cause)
		assert.Equal(t, "failed to save user: write conflict", err.Error())
		assert.Equal(t, cause, errors.Unwrap(err))
	})
}

func TestAs(t *testing.T) {
	t.Run("finds wrapped app error", func(t *testing.T) {
		inner := apperror.Unauthorized("invalid refresh token")
		wrapped := fmt.Errorf("refresh: %w", inner)

		appErr, ok := apperror.As(wrapped)
		require.True(t, ok)
		assert.Equal(t, apperror.KindUnauthorized, appErr.Kind)
		assert.Equal(t, "invalid refresh token", appErr.Message)
	})

	t.Run("plain error is not an app error", func(t *testing.T) {
		_, ok := apperror.As(errors.New("plain"))
		assert.False(t, ok)
	})
}
