package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestUser_HasPermission(t *testing.T) {
	member := &User{
		Role:        RoleCreation,
		Active:      true,
		Permissions: datatypes.NewJSONType(DefaultPermissions(false)),
	}
	assert.True(t, member.HasPermission(PermTasksComplete))
	assert.False(t, member.HasPermission(PermContractsDelete))

	admin := &User{Role: RoleAdmin, Active: true}
	assert.True(t, admin.HasPermission(PermContractsDelete), "admin role passes every check")

	inactive := &User{Role: RoleAdmin, Active: false}
	assert.False(t, inactive.HasPermission(PermDashboard))
}
