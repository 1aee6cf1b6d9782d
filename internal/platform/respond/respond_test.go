// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/respond"
	"github.com/taibuivan/mercado/pkg/pagination"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelopes(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Created(recorder, map[string]string{"id": "b-1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":"b-1"}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	respond.Paginated(recorder, []string{}, pagination.NewMeta(pagination.Params{Page: 1, Limit: 20}, 0))

	body := decode(t, recorder)
	assert.Equal(t, []any{}, body["data"])
	assert.Contains(t, body, "meta")
}

func TestError(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("validation details", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Error(recorder, request, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: "price", Message: "This field is required"}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		body := decode(t, recorder)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
		assert.Len(t, body["details"], 1)
	})

	t.Run("bearer challenge", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Error(recorder, request, apperr.InvalidToken("Token expired"))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
	})

	t.Run("retry after", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Error(recorder, request, apperr.RateLimited(42))

		assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
		assert.Equal(t, "42", recorder.Header().Get("Retry-After"))
	})

	t.Run("plain errors are hidden", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Error(recorder, request, errors.New("pq: relation documents does not exist"))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		body := decode(t, recorder)
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
		assert.NotContains(t, recorder.Body.String(), "relation")
	})
}
