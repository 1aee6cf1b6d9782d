// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mercado/internal/platform/apperr"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    *apperr.AppError
		status int
		code   string
	}{
		{apperr.NotFound("Product"), http.StatusNotFound, apperr.CodeNotFound},
		{apperr.InvalidCredentials(), http.StatusUnauthorized, apperr.CodeInvalidCredentials},
		{apperr.Revoked("gone"), http.StatusUnauthorized, apperr.CodeRevoked},
		{apperr.Forbidden("no"), http.StatusForbidden, apperr.CodeForbidden},
		{apperr.Conflict("taken"), http.StatusBadRequest, apperr.CodeConflict},
		{apperr.RateLimited(3), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{apperr.Internal(nil), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Business not found", apperr.NotFound("Business").Error())
}

func TestRateLimitedFloor(t *testing.T) {
	assert.Equal(t, 1, apperr.RateLimited(0).RetryAfter)
	assert.Equal(t, 90, apperr.RateLimited(90).RetryAfter)
}

func TestAsThroughWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("product_list_failed: %w", apperr.Internal(cause))

	appError := apperr.As(wrapped)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeInternal, appError.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.NotContains(t, appError.Error(), "connection reset")

	assert.Nil(t, apperr.As(cause))
	assert.False(t, apperr.IsAppError(cause))
}
