// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/constants"
	"github.com/taibuivan/mercado/internal/platform/docstore/memory"
	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/internal/users/account"
	"github.com/taibuivan/mercado/internal/users/auth"
	"github.com/taibuivan/mercado/pkg/pagination"
)

func seedUsers(t *testing.T) *auth.DocumentUserRepository {
	t.Helper()

	store := memory.New()
	users := auth.NewUserRepository(store.Collection(constants.CollectionUsers))

	seed := []*auth.User{
		{ID: "admin-1", Username: "root", Email: "root@x.com", Role: sec.RoleAdmin},
		{ID: "cust-1", Username: "ana", Email: "ana@x.com", Role: sec.RoleCustomer},
		{ID: "sell-1", Username: "bob", Email: "bob@x.com", Role: sec.RoleSeller},
	}
	for _, user := range seed {
		require.NoError(t, users.Create(context.Background(), user))
	}
	return users
}

func code(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	return ae.Code
}

func TestService_Me(t *testing.T) {
	ctx := context.Background()
	service := account.NewService(seedUsers(t))

	user, err := service.Me(ctx, &sec.Identity{ID: "cust-1"})
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)

	_, err = service.Me(ctx, nil)
	assert.Equal(t, "UNAUTHORIZED", code(t, err))

	_, err = service.Me(ctx, &sec.Identity{ID: "gone"})
	assert.Equal(t, "UNKNOWN_SUBJECT", code(t, err))
}

func TestService_List(t *testing.T) {
	service := account.NewService(seedUsers(t))

	users, total, err := service.List(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 1)
	assert.Equal(t, "sell-1", users[0].ID)
}

func TestService_ChangeRole(t *testing.T) {
	ctx := context.Background()
	admin := &sec.Identity{ID: "admin-1", Role: sec.RoleAdmin}

	tests := []struct {
		name     string
		actor    *sec.Identity
		target   string
		role     string
		wantCode string
	}{
		{"anonymous", nil, "cust-1", "seller", "UNAUTHORIZED"},
		{"seller cannot manage users", &sec.Identity{ID: "sell-1", Role: sec.RoleSeller}, "cust-1", "seller", "FORBIDDEN"},
		{"unknown role", admin, "cust-1", "owner", "VALIDATION_ERROR"},
		{"own role", admin, "admin-1", "customer", "FORBIDDEN"},
		{"missing user", admin, "nobody", "seller", "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := account.NewService(seedUsers(t))
			_, err := service.ChangeRole(ctx, tt.actor, tt.target, tt.role)
			assert.Equal(t, tt.wantCode, code(t, err))
		})
	}

	t.Run("admin promotes customer", func(t *testing.T) {
		service := account.NewService(seedUsers(t))
		user, err := service.ChangeRole(ctx, admin, "cust-1", "admin")
		require.NoError(t, err)
		assert.Equal(t, sec.RoleAdmin, user.Role)
	})
}

func TestService_PromoteToSeller(t *testing.T) {
	ctx := context.Background()
	users := seedUsers(t)
	service := account.NewService(users)

	require.NoError(t, service.PromoteToSeller(ctx, "cust-1"))
	promoted, err := users.FindByID(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleSeller, promoted.Role)

	require.NoError(t, service.PromoteToSeller(ctx, "admin-1"))
	admin, err := users.FindByID(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, admin.Role, "admins are never demoted")

	assert.Equal(t, "UNKNOWN_SUBJECT", code(t, service.PromoteToSeller(ctx, "gone")))
}
