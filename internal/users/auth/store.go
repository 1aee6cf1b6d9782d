// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/taibuivan/mercado/internal/platform/sec"
)

// ErrUserNotFound is returned by [UserRepository] lookups that match nothing.
var ErrUserNotFound = errors.New("auth: user not found")

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	// FindByID returns the account with the given ID, or [ErrUserNotFound].
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email, or [ErrUserNotFound].
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername returns the account with the given username, or [ErrUserNotFound].
	FindByUsername(ctx context.Context, username string) (*User, error)

	/*
		Create persists a new account.

		Returns:
		  - error: apperr.Conflict when the email is already taken
	*/
	Create(ctx context.Context, user *User) error

	// SetRefreshToken replaces the stored refresh token. An empty token clears it.
	SetRefreshToken(ctx context.Context, userID, token string) error

	// UpdateRole changes the account role.
	UpdateRole(ctx context.Context, userID string, role sec.Role) error

	// List returns a page of accounts in creation order and the total count.
	List(ctx context.Context, skip, limit int) ([]*User, int, error)
}

// # Login Throttling

// LoginAttemptRepository counts failed logins per email within a window.
type LoginAttemptRepository interface {

	// Failures returns the current failure count and the time until it resets.
	Failures(ctx context.Context, email string) (int, time.Duration, error)

	// RecordFailure increments the failure count, starting the window on the
	// first failure.
	RecordFailure(ctx context.Context, email string) (int, error)

	// Reset clears the failure count.
	Reset(ctx context.Context, email string) error
}
