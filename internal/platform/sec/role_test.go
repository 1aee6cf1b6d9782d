// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mercado/internal/platform/sec"
)

func TestRole_Can(t *testing.T) {
	tests := []struct {
		role       sec.Role
		permission sec.Permission
		allowed    bool
	}{
		{sec.RoleCustomer, sec.PermBusinessCreate, true},
		{sec.RoleCustomer, sec.PermUserRead, true},
		{sec.RoleCustomer, sec.PermBusinessManage, false},
		{sec.RoleCustomer, sec.PermProductManage, false},
		{sec.RoleCustomer, sec.PermUserManage, false},
		{sec.RoleSeller, sec.PermProductManage, true},
		{sec.RoleSeller, sec.PermBusinessManage, true},
		{sec.RoleSeller, sec.PermUserManage, false},
		{sec.RoleAdmin, sec.PermUserManage, true},
		{sec.RoleAdmin, sec.PermProductManage, true},
		{sec.Role("root"), sec.PermUserRead, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.permission), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.role.Can(tt.permission))
		})
	}
}

func TestEffectiveRole(t *testing.T) {
	assert.Equal(t, sec.RoleSeller, sec.EffectiveRole("seller"))
	assert.Equal(t, sec.RoleAdmin, sec.EffectiveRole("admin"))
	assert.Equal(t, sec.RoleCustomer, sec.EffectiveRole(""))
	assert.Equal(t, sec.RoleCustomer, sec.EffectiveRole("superuser"))

	_, err := sec.ParseRole("Admin")
	assert.Error(t, err)
}
