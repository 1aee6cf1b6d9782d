// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes JSON responses in the Mercado envelope.
//
// Success bodies carry {"data": ...} and paginated lists add "meta". Errors are
// rendered from [apperr.AppError]; anything else becomes INTERNAL_ERROR.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/constants"
	"github.com/taibuivan/mercado/internal/platform/ctxutil"
	"github.com/taibuivan/mercado/pkg/pagination"
)

// # Envelopes

type dataEnvelope struct {
	Data any `json:"data"`
}

type pageEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

type errorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// # Success

func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

// Data writes data in the envelope with an explicit status.
func Data(writer http.ResponseWriter, status int, data any) {
	writeJSON(writer, status, dataEnvelope{Data: data})
}

// OK writes 200 with data in the envelope.
func OK(writer http.ResponseWriter, data any) {
	Data(writer, http.StatusOK, data)
}

// Created writes 201 with data in the envelope.
func Created(writer http.ResponseWriter, data any) {
	Data(writer, http.StatusCreated, data)
}

// Paginated writes 200 with a page of items and its meta block.
func Paginated(writer http.ResponseWriter, items any, meta pagination.Meta) {
	writeJSON(writer, http.StatusOK, pageEnvelope{Data: items, Meta: meta})
}

// NoContent writes 204.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// # Errors

/*
Error renders err as an error envelope.

Errors outside the [apperr] taxonomy are logged with their cause and answered
with a generic 500. Authentication failures carry a Bearer challenge and
throttled responses a Retry-After header.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	header := writer.Header()
	if appError.HTTPStatus == http.StatusUnauthorized {
		header.Set(constants.HeaderAuthenticate, "Bearer")
	}
	if appError.RetryAfter > 0 {
		header.Set(constants.HeaderRetryAfter, strconv.Itoa(appError.RetryAfter))
	}

	writeJSON(writer, appError.HTTPStatus, errorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
