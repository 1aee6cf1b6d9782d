// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/sec"
)

const testSecret = "test-secret-with-enough-entropy"

// fakeClock is a settable time source.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time { return c.current }

func newCodec(t *testing.T, clock *fakeClock) *sec.TokenCodec {
	t.Helper()
	codec, err := sec.NewTokenCodec(testSecret, 30*time.Minute, 7*24*time.Hour, sec.WithClock(clock.Now))
	require.NoError(t, err)
	return codec
}

func payloadOf(t *testing.T, token string) map[string]any {
	t.Helper()
	segments := strings.Split(token, ".")
	require.Len(t, segments, 3)

	raw, err := base64.RawURLEncoding.DecodeString(segments[1])
	require.NoError(t, err)

	payload := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

/*
TestTokenCodec_IssueAndDecode verifies both token types round-trip with their TTLs.
*/
func TestTokenCodec_IssueAndDecode(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newCodec(t, clock)

	access, err := codec.IssueAccess("user-1")
	require.NoError(t, err)
	refresh, err := codec.IssueRefresh("user-1")
	require.NoError(t, err)

	claims, err := codec.Decode(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, sec.TokenAccess, claims.Type)
	assert.Equal(t, clock.current.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())

	claims, err = codec.Decode(refresh)
	require.NoError(t, err)
	assert.Equal(t, sec.TokenRefresh, claims.Type)
	assert.Equal(t, clock.current.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

/*
TestTokenCodec_PayloadShape asserts the payload carries exactly sub, exp and type.
*/
func TestTokenCodec_PayloadShape(t *testing.T) {
	clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
	codec := newCodec(t, clock)

	token, err := codec.IssueAccess("user-1")
	require.NoError(t, err)

	payload := payloadOf(t, token)
	assert.Len(t, payload, 3)
	assert.Equal(t, "user-1", payload["sub"])
	assert.Equal(t, "access", payload["type"])
	assert.Equal(t, float64(1_700_000_000+1800), payload["exp"])
}

/*
TestTokenCodec_SameInstantTokensDiffer issues two refresh tokens at one instant.
The payloads match but the signed tokens must not.
*/
func TestTokenCodec_SameInstantTokensDiffer(t *testing.T) {
	clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
	codec := newCodec(t, clock)

	first, err := codec.IssueRefresh("a@x.com")
	require.NoError(t, err)
	second, err := codec.IssueRefresh("a@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, payloadOf(t, first), payloadOf(t, second))

	for _, token := range []string{first, second} {
		claims, err := codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, sec.TokenRefresh, claims.Type)
	}
}

/*
TestTokenCodec_Expiry checks that tokens stop decoding once exp has passed.
*/
func TestTokenCodec_Expiry(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newCodec(t, clock)

	token, err := codec.IssueAccess("user-1")
	require.NoError(t, err)

	clock.current = clock.current.Add(29 * time.Minute)
	_, err = codec.Decode(token)
	require.NoError(t, err)

	clock.current = clock.current.Add(2 * time.Minute)
	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenCodec_Rejects covers signature, tampering, algorithm and format failures.
*/
func TestTokenCodec_Rejects(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	codec := newCodec(t, clock)

	valid, err := codec.IssueAccess("user-1")
	require.NoError(t, err)

	other, err := sec.NewTokenCodec("a-different-secret", time.Minute, time.Hour)
	require.NoError(t, err)
	foreign, err := other.IssueAccess("user-1")
	require.NoError(t, err)

	segments := strings.Split(valid, ".")
	forgedPayload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"admin-1","exp":9999999999,"type":"access"}`))
	tampered := segments[0] + "." + forgedPayload + "." + segments[2]

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix(), "type": "access",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix(), "type": "access",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1", "type": "access",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong_secret", foreign},
		{"tampered_payload", tampered},
		{"alg_none", unsigned},
		{"alg_hs512", hs512},
		{"missing_exp", noExpiry},
		{"garbage", "not.a.token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.token)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "INVALID_TOKEN", ae.Code)
			assert.Equal(t, "Could not validate credentials", ae.Message)
		})
	}
}

/*
TestNewTokenCodec_Config ensures misconfiguration is rejected at construction.
*/
func TestNewTokenCodec_Config(t *testing.T) {
	_, err := sec.NewTokenCodec("", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenCodec("   ", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenCodec(testSecret, 0, time.Hour)
	assert.Error(t, err)

	var zero sec.TokenCodec
	_, err = zero.IssueAccess("user-1")
	assert.Error(t, err)
	_, err = zero.Decode("anything")
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}
