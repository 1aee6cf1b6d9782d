// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mercado/internal/platform/constants"
	"github.com/taibuivan/mercado/internal/platform/docstore"
	"github.com/taibuivan/mercado/internal/platform/docstore/memory"
	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/internal/users/auth"
)

func TestSessionVerifier_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.register(t, "ana", "a@x.com")

	access, err := f.codec.IssueAccess("a@x.com")
	require.NoError(t, err)

	identity, err := f.verifier.Authenticate(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, sec.RoleCustomer, identity.Role)

	refresh, err := f.codec.IssueRefresh("a@x.com")
	require.NoError(t, err)
	_, err = f.verifier.Authenticate(ctx, refresh)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = f.verifier.Authenticate(ctx, "garbage")
	assert.Equal(t, "INVALID_TOKEN", codeOf(t, err))
}

func TestSessionVerifier_Resolve_AnyType(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ana", "a@x.com")

	refresh, err := f.codec.IssueRefresh("a@x.com")
	require.NoError(t, err)

	user, err := f.verifier.Resolve(context.Background(), refresh, "")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
}

/*
TestSessionVerifier_MissingRole treats legacy documents without a role as customers.
*/
func TestSessionVerifier_MissingRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	store := memory.New()
	collection := store.Collection(constants.CollectionUsers)
	require.NoError(t, collection.InsertOne(ctx, docstore.Document{
		"_id":      "legacy-1",
		"username": "legacy",
		"email":    "legacy@x.com",
		"password": "$2a$04$invalid",
	}))

	verifier := auth.NewSessionVerifier(f.codec, auth.NewUserRepository(collection), nil)
	access, err := f.codec.IssueAccess("legacy@x.com")
	require.NoError(t, err)

	identity, err := verifier.Authenticate(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleCustomer, identity.Role)

	stored, err := collection.FindOne(ctx, docstore.ByID("legacy-1"))
	require.NoError(t, err)
	_, hasRole := stored["role"]
	assert.False(t, hasRole)
}
