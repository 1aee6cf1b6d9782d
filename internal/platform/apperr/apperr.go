// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type that crosses the service boundary.

Storage and domain code return plain errors; services translate them into an
[AppError] carrying the HTTP status, a machine-readable code and a client-safe
message. Authentication failures use distinct codes (INVALID_CREDENTIALS,
INVALID_TOKEN, UNKNOWN_SUBJECT, TOKEN_REVOKED) so clients can tell a bad
password from an expired session.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is returned by services and rendered by the respond package.
// Cause is logged server-side and never serialized.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
	// RetryAfter is the number of seconds a throttled client should wait.
	RetryAfter int `json:"-"`
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes Cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

// Error codes.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUnknownSubject     = "UNKNOWN_SUBJECT"
	CodeRevoked            = "TOKEN_REVOKED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
)

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # 4xx

// NotFound reports a missing resource, e.g. NotFound("Business") reads
// "Business not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// Unauthorized reports a missing or unusable credential.
func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

// InvalidCredentials is returned for unknown emails and wrong passwords alike.
func InvalidCredentials() *AppError {
	return newError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid email or password")
}

// InvalidToken reports a token that is malformed, expired, wrongly signed or
// of the wrong type.
func InvalidToken(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeInvalidToken, msg)
}

// UnknownSubject reports a valid token whose account no longer exists.
func UnknownSubject(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnknownSubject, msg)
}

// Revoked reports a refresh token that was superseded or cleared.
func Revoked(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeRevoked, msg)
}

func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, msg)
}

// Conflict reports a duplicate. It is a 400, not a 409.
func Conflict(msg string) *AppError {
	return newError(http.StatusBadRequest, CodeConflict, msg)
}

func ValidationError(msg string, details ...FieldError) *AppError {
	err := newError(http.StatusBadRequest, CodeValidation, msg)
	err.Details = details
	return err
}

// RateLimited asks the client to retry after the given number of seconds.
func RateLimited(retryAfterSeconds int) *AppError {
	retryAfterSeconds = max(retryAfterSeconds, 1)
	err := newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
	err.RetryAfter = retryAfterSeconds
	return err
}

// # 5xx

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	err := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// # Helpers

// IsAppError reports whether err's chain contains an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}
