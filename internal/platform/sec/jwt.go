// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing, role
// permissions) from the domain logic. Its services are constructed once at
// startup and injected into the application layer.
package sec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/pkg/uuid"
)

// # Token Types

// TokenType discriminates access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// headerNonce makes every signed token unique. exp has one-second
// resolution, so two tokens for the same subject and type issued within a
// second would otherwise be byte-identical. The payload stays {sub, exp, type}.
const headerNonce = "nonce"

var (
	// ErrInvalidToken is returned for bad signatures, expiry, malformed payloads,
	// and type mismatches. The message is deliberately generic.
	ErrInvalidToken = apperr.InvalidToken("Could not validate credentials")

	// errMissingSecret marks a codec without a signing key.
	errMissingSecret = errors.New("sec: signing secret is not configured")
)

// TokenClaims is the signed payload of every token.
//
// Serialized as exactly {"sub": ..., "exp": ..., "type": ...}: the other
// registered claims are omitted when empty.
type TokenClaims struct {
	jwt.RegisteredClaims

	Type TokenType `json:"type"`
}

// TokenCodec signs and verifies HS256 tokens with a process-wide secret.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// CodecOption customizes a [TokenCodec].
type CodecOption func(*TokenCodec)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) CodecOption {
	return func(codec *TokenCodec) {
		codec.now = now
	}
}

// NewTokenCodec creates a codec. An empty secret is a fatal misconfiguration.
func NewTokenCodec(secret string, accessTTL, refreshTTL time.Duration, options ...CodecOption) (*TokenCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errMissingSecret
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("sec: token TTLs must be positive (access=%s, refresh=%s)", accessTTL, refreshTTL)
	}

	codec := &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, option := range options {
		option(codec)
	}
	return codec, nil
}

// AccessTTL reports the lifetime of access tokens.
func (codec *TokenCodec) AccessTTL() time.Duration { return codec.accessTTL }

// IssueAccess creates a short-lived access token for the subject.
func (codec *TokenCodec) IssueAccess(subject string) (string, error) {
	return codec.issue(subject, TokenAccess, codec.accessTTL)
}

// IssueRefresh creates a long-lived refresh token for the subject.
func (codec *TokenCodec) IssueRefresh(subject string) (string, error) {
	return codec.issue(subject, TokenRefresh, codec.refreshTTL)
}

func (codec *TokenCodec) issue(subject string, tokenType TokenType, timeToLive time.Duration) (string, error) {
	if len(codec.secret) == 0 {
		return "", errMissingSecret
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("sec: token subject is required")
	}

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(codec.clock().Add(timeToLive)),
		},
		Type: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header[headerNonce] = uuid.New()

	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Decode verifies the signature and expiry of a token and returns its claims.
//
// The token type is not checked here; callers that consume a specific type
// must compare [TokenClaims.Type] themselves.
func (codec *TokenCodec) Decode(tokenString string) (*TokenClaims, error) {
	if len(codec.secret) == 0 {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &TokenClaims{}, func(*jwt.Token) (any, error) {
		return codec.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(codec.clock),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (codec *TokenCodec) clock() time.Time {
	if codec.now == nil {
		return time.Now()
	}
	return codec.now()
}
