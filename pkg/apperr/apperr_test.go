package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation("invalid_rating", "rating must be 1..5"), http.StatusBadRequest},
		{NotFound("booking_not_found", "booking not found"), http.StatusNotFound},
		{Authorization("not_owner", "not your booking"), http.StatusForbidden},
		{Conflict("already_paid", "booking already paid"), http.StatusConflict},
		{PaymentRequired("payment_required", "booking is not paid"), http.StatusPaymentRequired},
		{Dependency("store unavailable", errors.New("conn refused")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus(), tc.err.Code)
	}
}

func TestAsThroughWrapping(t *testing.T) {
	base := Conflict("duplicate_review", "booking already reviewed")
	wrapped := fmt.Errorf("create review: %w", base)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "duplicate_review", appErr.Code)
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindNotFound))
}

func TestDependencyKeepsCause(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := Dependency("transaction failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "deadlock detected")
}

func TestAsOnPlainError(t *testing.T) {
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}
