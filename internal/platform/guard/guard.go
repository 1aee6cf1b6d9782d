// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package guard gates access to operations based on the caller's identity.

Guards are pure reads: they never mutate state, so a failing guard leaves no
side effects behind. Services compose them with [Check]:

	err := guard.Check(ctx, identity,
		guard.Permission(sec.PermProductManage),
		guard.Owns(businesses, input.BusinessID),
	)

Rules run in the declared order and the first failure is returned.
*/
package guard

import (
	"context"
	"errors"
	"slices"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/sec"
)

// ErrResourceNotFound is returned by [OwnerLookup] implementations when the
// resource does not exist.
var ErrResourceNotFound = errors.New("guard: resource not found")

const (
	msgNotEnoughPermissions = "Not enough permissions"
	msgNotOwner             = "You do not own this resource"
)

// OwnerLookup resolves the owner of a resource.
type OwnerLookup interface {
	// Resource names the resource in NotFound messages (e.g. "Business").
	Resource() string

	// OwnerOf returns the owner id, or [ErrResourceNotFound].
	OwnerOf(ctx context.Context, resourceID string) (string, error)
}

// Rule is a single access predicate.
type Rule func(ctx context.Context, identity *sec.Identity) error

// Check evaluates rules in order and returns the first failure.
func Check(ctx context.Context, identity *sec.Identity, rules ...Rule) error {
	if identity == nil {
		return apperr.Unauthorized("Not authenticated")
	}
	for _, rule := range rules {
		if err := rule(ctx, identity); err != nil {
			return err
		}
	}
	return nil
}

// Role passes when the identity holds exactly role.
func Role(role sec.Role) Rule {
	return func(_ context.Context, identity *sec.Identity) error {
		_, err := RequireRole(identity, role)
		return err
	}
}

// AnyRole passes when the identity holds one of roles.
func AnyRole(roles ...sec.Role) Rule {
	return func(_ context.Context, identity *sec.Identity) error {
		_, err := RequireAnyRole(identity, roles...)
		return err
	}
}

// Permission passes when the identity's role grants permission.
func Permission(permission sec.Permission) Rule {
	return func(_ context.Context, identity *sec.Identity) error {
		_, err := RequirePermission(identity, permission)
		return err
	}
}

// Owns passes when the identity owns the resource.
func Owns(lookup OwnerLookup, resourceID string) Rule {
	return func(ctx context.Context, identity *sec.Identity) error {
		_, err := RequireOwnership(ctx, identity, lookup, resourceID)
		return err
	}
}

// RequireRole fails with Forbidden unless identity.Role equals role.
func RequireRole(identity *sec.Identity, role sec.Role) (*sec.Identity, error) {
	if identity == nil {
		return nil, apperr.Unauthorized("Not authenticated")
	}
	if identity.Role != role {
		return nil, apperr.Forbidden(msgNotEnoughPermissions)
	}
	return identity, nil
}

// RequireAnyRole fails with Forbidden unless identity.Role is one of roles.
func RequireAnyRole(identity *sec.Identity, roles ...sec.Role) (*sec.Identity, error) {
	if identity == nil {
		return nil, apperr.Unauthorized("Not authenticated")
	}
	if !slices.Contains(roles, identity.Role) {
		return nil, apperr.Forbidden(msgNotEnoughPermissions)
	}
	return identity, nil
}

// RequirePermission fails with Forbidden unless the role grants permission.
func RequirePermission(identity *sec.Identity, permission sec.Permission) (*sec.Identity, error) {
	if identity == nil {
		return nil, apperr.Unauthorized("Not authenticated")
	}
	if !identity.Role.Can(permission) {
		return nil, apperr.Forbidden(msgNotEnoughPermissions)
	}
	return identity, nil
}

// RequireOwnership fetches the resource owner and compares it to identity.ID.
//
// # Errors
//   - NotFound when the resource does not exist.
//   - Forbidden when another account owns it.
//   - Internal when the lookup fails.
func RequireOwnership(ctx context.Context, identity *sec.Identity, lookup OwnerLookup, resourceID string) (*sec.Identity, error) {
	if identity == nil {
		return nil, apperr.Unauthorized("Not authenticated")
	}

	ownerID, err := lookup.OwnerOf(ctx, resourceID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, apperr.NotFound(lookup.Resource())
		}
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, apperr.Internal(err)
	}

	if ownerID == "" || ownerID != identity.ID {
		return nil, apperr.Forbidden(msgNotOwner)
	}
	return identity, nil
}
