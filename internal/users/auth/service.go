// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/constants"
	"github.com/taibuivan/mercado/internal/platform/ctxutil"
	"github.com/taibuivan/mercado/internal/platform/metrics"
	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/pkg/uuid"
)

// dummyPassword is hashed once and compared against on unknown-email logins
// so both failure paths pay for a bcrypt comparison.
const dummyPassword = "mercado-timing-equalizer"

// # Service

// Service implements the authentication use cases.
type Service struct {
	users       UserRepository
	attempts    LoginAttemptRepository
	hasher      *sec.PasswordHasher
	codec       *sec.TokenCodec
	verifier    *SessionVerifier
	metrics     *metrics.Metrics
	maxAttempts int

	dummyOnce sync.Once
	dummyHash string
}

// Dependencies groups the collaborators of [Service].
type Dependencies struct {
	Users    UserRepository
	Attempts LoginAttemptRepository
	Hasher   *sec.PasswordHasher
	Codec    *sec.TokenCodec
	Verifier *SessionVerifier
	Metrics  *metrics.Metrics

	// MaxLoginAttempts is the number of failures tolerated per window.
	// Zero disables throttling.
	MaxLoginAttempts int
}

// NewService constructs a [Service]. A nil Attempts disables throttling.
func NewService(deps Dependencies) *Service {
	attempts := deps.Attempts
	if attempts == nil {
		attempts = NoopLoginAttempts{}
	}
	return &Service{
		users:       deps.Users,
		attempts:    attempts,
		hasher:      deps.Hasher,
		codec:       deps.Codec,
		verifier:    deps.Verifier,
		metrics:     deps.Metrics,
		maxAttempts: deps.MaxLoginAttempts,
	}
}

// # Registration Flow

// RegisterInput holds the data required to open an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register hashes the password and persists a new customer account.

Returns:
  - *User: the created account
  - error: Conflict when the email or username is taken
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := normalizeEmail(input.Email)

	if err := service.ensureAvailable(ctx, email, input.Username); err != nil {
		service.metrics.AuthEvent(metrics.EventRegister, false)
		return nil, err
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.users.Create(ctx, user); err != nil {
		service.metrics.AuthEvent(metrics.EventRegister, false)
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, apperr.Internal(fmt.Errorf("auth_service_register_failed: %w", err))
	}

	service.metrics.AuthEvent(metrics.EventRegister, true)
	ctxutil.GetLogger(ctx).Info("user_registered", slog.String("user_id", user.ID))

	return user, nil
}

// ensureAvailable rejects taken emails and usernames with one generic message.
func (service *Service) ensureAvailable(ctx context.Context, email, username string) error {
	if _, err := service.users.FindByEmail(ctx, email); err == nil {
		return apperr.Conflict(msgAlreadyExists)
	} else if !errors.Is(err, ErrUserNotFound) {
		return apperr.Internal(err)
	}

	if _, err := service.users.FindByUsername(ctx, username); err == nil {
		return apperr.Conflict(msgAlreadyExists)
	} else if !errors.Is(err, ErrUserNotFound) {
		return apperr.Internal(err)
	}

	return nil
}

// # Authentication Flow

// LoginInput holds the credentials of a login attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login verifies credentials and issues a token pair.

Description: Unknown emails and wrong passwords fail identically. On success
the refresh token is stored on the account, replacing any previous one.

Returns:
  - *TokenPair: access and refresh tokens
  - error: InvalidCredentials, RateLimited, or Internal
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	email := normalizeEmail(input.Email)
	logger := ctxutil.GetLogger(ctx)

	if err := service.checkThrottle(ctx, email); err != nil {
		return nil, err
	}

	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, apperr.Internal(err)
		}
		service.hasher.Verify(input.Password, service.timingHash())
		service.recordFailure(ctx, email)
		logger.Warn("login_failed", slog.String("reason", "unknown_email"))
		return nil, apperr.InvalidCredentials()
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		service.recordFailure(ctx, email)
		logger.Warn("login_failed", slog.String("reason", "wrong_password"), slog.String("user_id", user.ID))
		return nil, apperr.InvalidCredentials()
	}

	if err := service.attempts.Reset(ctx, email); err != nil {
		logger.Warn("login_attempts_reset_failed", slog.Any("error", err))
	}

	pair, err := service.issuePair(user.Email)
	if err != nil {
		return nil, err
	}

	if err := service.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_store_refresh_failed: %w", err))
	}

	service.metrics.AuthEvent(metrics.EventLogin, true)
	logger.Info("login_succeeded", slog.String("user_id", user.ID))

	return pair, nil
}

func (service *Service) issuePair(subject string) (*TokenPair, error) {
	accessToken, err := service.codec.IssueAccess(subject)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_issue_access_failed: %w", err))
	}

	refreshToken, err := service.codec.IssueRefresh(subject)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_issue_refresh_failed: %w", err))
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constants.TokenTypeBearer,
	}, nil
}

// checkThrottle fails with RateLimited once the failure budget is spent.
// Counter read errors are logged and the attempt proceeds.
func (service *Service) checkThrottle(ctx context.Context, email string) error {
	if service.maxAttempts <= 0 {
		return nil
	}

	failures, retryAfter, err := service.attempts.Failures(ctx, email)
	if err != nil {
		ctxutil.GetLogger(ctx).Warn("login_attempts_read_failed", slog.Any("error", err))
		return nil
	}

	if failures >= service.maxAttempts {
		service.metrics.AuthEvent(metrics.EventLogin, false)
		return apperr.RateLimited(int(math.Ceil(retryAfter.Seconds())))
	}
	return nil
}

func (service *Service) recordFailure(ctx context.Context, email string) {
	service.metrics.AuthEvent(metrics.EventLogin, false)
	if service.maxAttempts <= 0 {
		return
	}
	if _, err := service.attempts.RecordFailure(ctx, email); err != nil {
		ctxutil.GetLogger(ctx).Warn("login_attempts_record_failed", slog.Any("error", err))
	}
}

func (service *Service) timingHash() string {
	service.dummyOnce.Do(func() {
		service.dummyHash, _ = service.hasher.Hash(dummyPassword)
	})
	return service.dummyHash
}

// # Session Management

/*
Refresh exchanges the stored refresh token for a new access token.

Description: The presented token must verify as a refresh token and equal the
value stored on the account. The refresh token is returned unchanged.

Returns:
  - *TokenPair: new access token, same refresh token
  - error: InvalidToken, UnknownSubject, Revoked, or Internal
*/
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)

	user, err := service.verifier.Resolve(ctx, refreshToken, sec.TokenRefresh)
	if err != nil {
		service.metrics.AuthEvent(metrics.EventRefresh, false)
		return nil, err
	}

	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		service.metrics.AuthEvent(metrics.EventRefresh, false)
		ctxutil.GetLogger(ctx).Warn("refresh_token_revoked", slog.String("user_id", user.ID))
		return nil, ErrRevoked
	}

	accessToken, err := service.codec.IssueAccess(user.Email)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_refresh_access_failed: %w", err))
	}

	service.metrics.AuthEvent(metrics.EventRefresh, true)

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constants.TokenTypeBearer,
	}, nil
}

// Logout clears the stored refresh token of the caller.
func (service *Service) Logout(ctx context.Context, identity *sec.Identity) error {
	if identity == nil {
		return apperr.Unauthorized("Authentication required")
	}

	if err := service.users.SetRefreshToken(ctx, identity.ID, ""); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUnknownSubject
		}
		return apperr.Internal(fmt.Errorf("auth_service_logout_failed: %w", err))
	}

	service.metrics.AuthEvent(metrics.EventLogout, true)
	ctxutil.GetLogger(ctx).Info("logout_succeeded", slog.String("user_id", identity.ID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
