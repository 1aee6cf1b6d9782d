// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/internal/users/auth"
)

/*
TestService_Register stores a customer with a bcrypt hash and rejects duplicates.
*/
func TestService_Register(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user := f.register(t, "ana_maria", "Ana@Example.com")
	assert.Equal(t, sec.RoleCustomer, user.Role)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, "Passw0rd1", user.PasswordHash)

	stored, err := f.users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, sec.NewPasswordHasher(4).Verify("Passw0rd1", stored.PasswordHash))

	_, err = f.service.Register(ctx, auth.RegisterInput{Username: "other", Email: "ana@example.com", Password: "Passw0rd1"})
	assert.Equal(t, "CONFLICT", codeOf(t, err))

	_, err = f.service.Register(ctx, auth.RegisterInput{Username: "ana_maria", Email: "new@example.com", Password: "Passw0rd1"})
	assert.Equal(t, "CONFLICT", codeOf(t, err))
}

/*
TestService_Login issues a pair and persists the refresh token.
*/
func TestService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.register(t, "ana", "a@x.com")

	pair, err := f.service.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Passw0rd1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)

	claims, err := f.codec.Decode(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, sec.TokenAccess, claims.Type)

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

/*
TestService_Login_GenericFailure checks unknown email and wrong password fail identically.
*/
func TestService_Login_GenericFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "ana", "a@x.com")

	_, unknownErr := f.service.Login(ctx, auth.LoginInput{Email: "nobody@x.com", Password: "Passw0rd1"})
	_, wrongErr := f.service.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Wrong0pass"})

	assert.Equal(t, "INVALID_CREDENTIALS", codeOf(t, unknownErr))
	assert.Equal(t, "INVALID_CREDENTIALS", codeOf(t, wrongErr))
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

/*
TestService_Login_Throttled blocks after the failure budget and resets on success.
*/
func TestService_Login_Throttled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "ana", "a@x.com")

	for range 3 {
		_, err := f.service.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Wrong0pass"})
		assert.Equal(t, "INVALID_CREDENTIALS", codeOf(t, err))
	}

	_, err := f.service.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Passw0rd1"})
	assert.Equal(t, "RATE_LIMITED", codeOf(t, err))

	require.NoError(t, f.attempts.Reset(ctx, "a@x.com"))
	_, err = f.service.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Passw0rd1"})
	require.NoError(t, err)
}

/*
TestService_Refresh_Superseded verifies only the latest refresh token is honoured.
*/
func TestService_Refresh_Superseded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "ana", "a@x.com")

	first, err := f.service.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Passw0rd1"})
	require.NoError(t, err)
	second, err := f.service.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Passw0rd1"})
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.service.Refresh(ctx, first.RefreshToken)
	assert.Equal(t, "TOKEN_REVOKED", codeOf(t, err))

	renewed, err := f.service.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, second.RefreshToken, renewed.RefreshToken)
	assert.NotEqual(t, second.AccessToken, renewed.AccessToken)

	claims, err := f.codec.Decode(renewed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sec.TokenAccess, claims.Type)
}

/*
TestService_Refresh_SupersededWithinOneSecond logs in twice back to back on the
wall clock; the first refresh token must already be revoked.
*/
func TestService_Refresh_SupersededWithinOneSecond(t *testing.T) {
	ctx := context.Background()
	f := newWallClockFixture(t)
	f.register(t, "ana", "a@x.com")

	first, err := f.service.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Passw0rd1"})
	require.NoError(t, err)
	second, err := f.service.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Passw0rd1"})
	require.NoError(t, err)

	_, err = f.service.Refresh(ctx, first.RefreshToken)
	assert.Equal(t, "TOKEN_REVOKED", codeOf(t, err))

	_, err = f.service.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

/*
TestService_Refresh_Rejects covers wrong type, expiry and unknown subjects.
*/
func TestService_Refresh_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "ana", "a@x.com")

	pair, err := f.service.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Passw0rd1"})
	require.NoError(t, err)

	_, err = f.service.Refresh(ctx, pair.AccessToken)
	assert.Equal(t, "INVALID_TOKEN", codeOf(t, err))

	ghost, err := f.codec.IssueRefresh("ghost@x.com")
	require.NoError(t, err)
	_, err = f.service.Refresh(ctx, ghost)
	assert.Equal(t, "UNKNOWN_SUBJECT", codeOf(t, err))

	f.clock.Advance(8 * 24 * time.Hour)
	_, err = f.service.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, "INVALID_TOKEN", codeOf(t, err))
}

/*
TestService_Logout clears the stored refresh token.
*/
func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.register(t, "ana", "a@x.com")

	pair, err := f.service.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Passw0rd1"})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, user.Identity()))

	_, err = f.service.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, "TOKEN_REVOKED", codeOf(t, err))

	assert.Equal(t, "UNAUTHORIZED", codeOf(t, f.service.Logout(ctx, nil)))
}
