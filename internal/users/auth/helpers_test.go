// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/constants"
	"github.com/taibuivan/mercado/internal/platform/docstore/memory"
	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/internal/users/auth"
)

const testSecret = "auth-test-secret"

// steppingClock advances by one second on every read so consecutive tokens differ.
type steppingClock struct {
	mu      sync.Mutex
	current time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(time.Second)
	return c.current
}

func (c *steppingClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// fakeAttempts is an in-memory LoginAttemptRepository.
type fakeAttempts struct {
	mu       sync.Mutex
	failures map[string]int
}

func (f *fakeAttempts) Failures(_ context.Context, email string) (int, time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures[email], time.Minute, nil
}

func (f *fakeAttempts) RecordFailure(_ context.Context, email string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures == nil {
		f.failures = map[string]int{}
	}
	f.failures[email]++
	return f.failures[email], nil
}

func (f *fakeAttempts) Reset(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, email)
	return nil
}

type fixture struct {
	service  *auth.Service
	verifier *auth.SessionVerifier
	users    *auth.DocumentUserRepository
	codec    *sec.TokenCodec
	clock    *steppingClock
	attempts *fakeAttempts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &steppingClock{current: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	f := buildFixture(t, sec.WithClock(clock.Now))
	f.clock = clock
	return f
}

// newWallClockFixture signs with time.Now, so back-to-back tokens share
// the same exp second.
func newWallClockFixture(t *testing.T) *fixture {
	t.Helper()
	return buildFixture(t)
}

func buildFixture(t *testing.T, options ...sec.CodecOption) *fixture {
	t.Helper()

	codec, err := sec.NewTokenCodec(testSecret, 30*time.Minute, 7*24*time.Hour, options...)
	require.NoError(t, err)

	store := memory.New(memory.WithUnique(constants.CollectionUsers, auth.FieldEmail))
	users := auth.NewUserRepository(store.Collection(constants.CollectionUsers))
	verifier := auth.NewSessionVerifier(codec, users, nil)
	attempts := &fakeAttempts{}

	service := auth.NewService(auth.Dependencies{
		Users:            users,
		Attempts:         attempts,
		Hasher:           sec.NewPasswordHasher(bcrypt.MinCost),
		Codec:            codec,
		Verifier:         verifier,
		MaxLoginAttempts: 3,
	})

	return &fixture{service: service, verifier: verifier, users: users, codec: codec, attempts: attempts}
}

func (f *fixture) register(t *testing.T, username, email string) *auth.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: "Passw0rd1",
	})
	require.NoError(t, err)
	return user
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected AppError, got %v", err)
	return ae.Code
}
