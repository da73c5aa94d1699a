package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceErrorWrapAndUnwrap(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := Wrap(ErrCodeInternal, "failed", http.StatusInternalServerError, inner)

	assert.Equal(t, inner, err.Unwrap())
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), string(ErrCodeInternal))
}

func TestWithDetailsAccumulates(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad", http.StatusBadRequest).
		WithDetails("field", "aadhaar").
		WithDetails("reason", "length")

	require.Len(t, err.Details, 2)
	assert.Equal(t, "aadhaar", err.Details["field"])
}

func TestRateLimitedCarriesRemainingLockout(t *testing.T) {
	err := RateLimited(42)
	assert.Equal(t, http.StatusTooManyRequests, err.HTTPStatus)
	assert.EqualValues(t, 42, err.Details["remaining_lockout_seconds"])
}

func TestGetServiceErrorFromChain(t *testing.T) {
	base := NotFound("consent", "c-1")
	wrapped := fmt.Errorf("lookup failed: %w", base)

	found := Get(wrapped)
	require.NotNil(t, found)
	assert.Equal(t, ErrCodeNotFound, found.Code)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestIsServiceError(t *testing.T) {
	assert.True(t, IsServiceError(Conflict("already revoked")))
	assert.False(t, IsServiceError(fmt.Errorf("plain error")))
}
