// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account exposes the signed-in user's profile and the administrative
view over all accounts.

# Architecture

  - Entities: reuses [auth.User]; this package owns no documents of its own.
  - Domain: role changes go through the permission map in sec, never through
    string comparison.
  - Integration: [Service.PromoteToSeller] is called by the business domain
    when a customer opens their first business.
*/
package account

import (
	"context"

	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/internal/users/auth"
)

// # Repository Contracts

// UserStore is the subset of [auth.UserRepository] this package needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*auth.User, error)
	UpdateRole(ctx context.Context, userID string, role sec.Role) error
	List(ctx context.Context, skip, limit int) ([]*auth.User, int, error)
}

// Request and response field names.
const (
	FieldRole = "role"
)

const (
	msgUserResource  = "User"
	msgOwnRoleChange = "Administrators cannot change their own role"
)
