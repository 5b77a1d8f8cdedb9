package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors_StatusCodes(t *testing.T) {
	cases := []struct {
		kind   string
		err    *AppError
		status int
	}{
		{KindValidation, NewValidationError("bad input", nil), http.StatusBadRequest},
		{KindPolicy, NewPolicyError("submission rejected"), http.StatusBadRequest},
		{KindAccessDenied, NewAccessDeniedError(), http.StatusForbidden},
		{KindUnauthorized, NewUnauthorizedError("invalid credentials"), http.StatusUnauthorized},
		{KindRateLimited, NewRateLimitedError("too many requests", 300), http.StatusTooManyRequests},
		{KindDownstream, NewDownstreamError("delivery failed", nil), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.StatusCode)
			assert.Equal(t, tc.kind, tc.err.Kind)
		})
	}
}

func TestNewRateLimitedError_RetryAfterData(t *testing.T) {
	err := NewRateLimitedError("too many requests", 300)
	data, ok := err.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 300, data["retry_after"])

	assert.Nil(t, NewRateLimitedError("too many requests", 0).Data)
}

func TestGetAppError(t *testing.T) {
	appErr := NewPolicyError("submission rejected")

	got, ok := GetAppError(fmt.Errorf("handler: %w", appErr))
	require.True(t, ok)
	assert.Equal(t, appErr, got)

	_, ok = GetAppError(errors.New("plain"))
	assert.False(t, ok)
}
