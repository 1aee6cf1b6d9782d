// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/metrics"
	"github.com/taibuivan/mercado/internal/platform/sec"
)

var (
	// ErrInvalidToken covers bad signatures, expiry, malformed payloads,
	// type mismatches and missing subjects.
	ErrInvalidToken = sec.ErrInvalidToken

	// ErrUnknownSubject is returned when a valid token names a deleted account.
	ErrUnknownSubject = apperr.UnknownSubject(msgUnknownSubject)

	// ErrRevoked is returned when a refresh token is not the stored one.
	ErrRevoked = apperr.Revoked(msgRevoked)
)

// SessionVerifier turns bearer tokens into accounts.
type SessionVerifier struct {
	codec   *sec.TokenCodec
	users   UserRepository
	metrics *metrics.Metrics
}

// NewSessionVerifier constructs a verifier. recorder may be nil.
func NewSessionVerifier(codec *sec.TokenCodec, users UserRepository, recorder *metrics.Metrics) *SessionVerifier {
	return &SessionVerifier{codec: codec, users: users, metrics: recorder}
}

/*
Resolve verifies token and loads the account named by its subject.

Steps:
 1. Decode and verify the signature and expiry.
 2. When expected is non-empty, the token type must match it.
 3. The subject must be non-empty.
 4. The subject is looked up by email.

Returns:
  - *User: the account; a missing stored role resolves to customer
  - error: ErrInvalidToken, ErrUnknownSubject, or Internal on store failure
*/
func (verifier *SessionVerifier) Resolve(ctx context.Context, token string, expected sec.TokenType) (*User, error) {
	claims, err := verifier.codec.Decode(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if expected != "" && claims.Type != expected {
		return nil, ErrInvalidToken
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return nil, ErrInvalidToken
	}

	user, err := verifier.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, apperr.Internal(err)
	}

	return user, nil
}

// Authenticate resolves an access token into an identity.
func (verifier *SessionVerifier) Authenticate(ctx context.Context, accessToken string) (*sec.Identity, error) {
	user, err := verifier.Resolve(ctx, accessToken, sec.TokenAccess)
	if err != nil {
		verifier.metrics.AuthEvent(metrics.EventVerify, false)
		return nil, err
	}
	return user.Identity(), nil
}
