// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/ctxutil"
	"github.com/taibuivan/mercado/internal/platform/guard"
	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/internal/platform/validate"
	"github.com/taibuivan/mercado/internal/users/auth"
	"github.com/taibuivan/mercado/pkg/pagination"
)

// # Service Layer

// Service implements account use cases.
type Service struct {
	users UserStore
}

// NewService constructs a [Service].
func NewService(users UserStore) *Service {
	return &Service{users: users}
}

// # Profile

/*
Me returns the full account of the authenticated caller.

Returns:
  - *auth.User: the stored account, read fresh from the store
  - error: Unauthorized for anonymous callers, UnknownSubject if the account
    was removed after the token was issued
*/
func (service *Service) Me(ctx context.Context, identity *sec.Identity) (*auth.User, error) {
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	user, err := service.users.FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, auth.ErrUnknownSubject
		}
		return nil, apperr.Internal(fmt.Errorf("account_service_me_failed: %w", err))
	}
	return user, nil
}

// List returns one page of accounts and the total count.
func (service *Service) List(ctx context.Context, params pagination.Params) ([]*auth.User, int, error) {
	users, total, err := service.users.List(ctx, params.Skip(), params.Limit)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("account_service_list_failed: %w", err))
	}
	return users, total, nil
}

// # Role Management

/*
ChangeRole sets the role of another account.

Description: The actor needs the user:manage permission. Unknown role names
are a validation error. Administrators cannot change their own role.

Returns:
  - *auth.User: the updated account
  - error: Unauthorized, Forbidden, ValidationError, NotFound or Internal
*/
func (service *Service) ChangeRole(ctx context.Context, actor *sec.Identity, userID, roleName string) (*auth.User, error) {
	if err := guard.Check(ctx, actor, guard.Permission(sec.PermUserManage)); err != nil {
		return nil, err
	}

	role, err := sec.ParseRole(roleName)
	if err != nil {
		return nil, validate.RequiredError(FieldRole, fmt.Sprintf("Must be one of: %s, %s, %s", sec.RoleCustomer, sec.RoleSeller, sec.RoleAdmin))
	}

	if actor.ID == userID {
		return nil, apperr.Forbidden(msgOwnRoleChange)
	}

	if err := service.users.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, apperr.NotFound(msgUserResource)
		}
		return nil, apperr.Internal(fmt.Errorf("account_service_change_role_failed: %w", err))
	}

	ctxutil.GetLogger(ctx).Info("user_role_changed",
		slog.String("target_user_id", userID),
		slog.String("role", string(role)),
	)

	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("account_service_reload_failed: %w", err))
	}
	return user, nil
}

/*
PromoteToSeller upgrades a customer to seller.

Sellers and admins are left unchanged, so calling it for every new business
is safe.
*/
func (service *Service) PromoteToSeller(ctx context.Context, userID string) error {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return auth.ErrUnknownSubject
		}
		return apperr.Internal(fmt.Errorf("account_service_promote_lookup_failed: %w", err))
	}

	if user.Role != sec.RoleCustomer {
		return nil
	}

	if err := service.users.UpdateRole(ctx, userID, sec.RoleSeller); err != nil {
		return apperr.Internal(fmt.Errorf("account_service_promote_failed: %w", err))
	}

	ctxutil.GetLogger(ctx).Info("user_promoted_to_seller", slog.String("target_user_id", userID))
	return nil
}
