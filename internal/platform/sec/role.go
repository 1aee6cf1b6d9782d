// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Default role for standard registered users
	RoleCustomer Role = "customer"

	// Owns at least one business and sells products
	RoleSeller Role = "seller"

	// Unrestricted system access
	RoleAdmin Role = "admin"
)

// Roles lists every known role.
var Roles = []Role{RoleCustomer, RoleSeller, RoleAdmin}

// ParseRole converts a stored or requested role name into a [Role].
func ParseRole(name string) (Role, error) {
	role := Role(name)
	if _, ok := rolePermissions[role]; !ok {
		return "", fmt.Errorf("sec: unknown role %q", name)
	}
	return role, nil
}

// EffectiveRole resolves the role used for a request.
// Missing and unknown stored values fall back to [RoleCustomer].
func EffectiveRole(name string) Role {
	role, err := ParseRole(name)
	if err != nil {
		return RoleCustomer
	}
	return role
}

// # Permissions

// Permission represents a named capability in the system.
type Permission string

const (
	PermBusinessCreate Permission = "business:create"
	PermBusinessManage Permission = "business:manage"
	PermProductManage  Permission = "product:manage"
	PermUserRead       Permission = "user:read"
	PermUserManage     Permission = "user:manage"
)

// rolePermissions maps each role to its granted permissions.
// New roles are added here; guards never compare role strings for capabilities.
var rolePermissions = map[Role][]Permission{
	RoleCustomer: {
		PermBusinessCreate,
		PermUserRead,
	},
	RoleSeller: {
		PermBusinessCreate,
		PermBusinessManage,
		PermProductManage,
		PermUserRead,
	},
	RoleAdmin: {
		PermBusinessCreate,
		PermBusinessManage,
		PermProductManage,
		PermUserRead,
		PermUserManage,
	},
}

// Can reports whether the role grants the permission.
func (r Role) Can(permission Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == permission {
			return true
		}
	}
	return false
}

// # Identity

// Identity is the authenticated actor attached to a request.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
