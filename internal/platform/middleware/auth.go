// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/ctxutil"
	"github.com/taibuivan/mercado/internal/platform/guard"
	requestutil "github.com/taibuivan/mercado/internal/platform/request"
	"github.com/taibuivan/mercado/internal/platform/respond"
	"github.com/taibuivan/mercado/internal/platform/sec"
)

// Authenticator resolves an access token into an identity.
//
// Defined here so the middleware does not import the users/auth package.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*sec.Identity, error)
}

// Authenticate verifies the bearer token when one is present.
//
// # Flow
//  1. No Authorization header: the request continues anonymously.
//  2. Malformed header: 401 UNAUTHORIZED.
//  3. Token rejected by the [Authenticator]: its error is returned as-is
//     (INVALID_TOKEN, UNKNOWN_SUBJECT).
//  4. Otherwise the [*sec.Identity] is stored in the request context.
func Authenticate(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, wellFormed := requestutil.BearerToken(request)
			if !wellFormed {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization header"))
				return
			}
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			identity, err := authenticator.Authenticate(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", identity.ID)))
			if trace := traceFrom(ctx); trace != nil {
				trace.userID = identity.ID
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
// Must be registered after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if _, err := requestutil.RequiredIdentity(request); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission admits only identities whose role grants permission.
// Implies [RequireAuth].
func RequirePermission(permission sec.Permission) func(http.Handler) http.Handler {
	return requireRule(guard.Permission(permission))
}

func requireRule(rule guard.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity, err := requestutil.RequiredIdentity(request)
			if err == nil {
				err = guard.Check(request.Context(), identity, rule)
			}
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
