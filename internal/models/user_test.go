// internal/models/user_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndCheckPassword(t *testing.T) {
	user := &User{}
	assert.NoError(t, user.SetPassword("Secret123!"))
	assert.NotEqual(t, "Secret123!", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("Secret123!"))
	assert.Error(t, user.CheckPassword("wrong"))
}

func TestRoleHelpers(t *testing.T) {
	user := &User{Roles: []UserRole{{Role: RoleCustomer}, {Role: RoleAdmin}}}

	assert.Equal(t, []string{"CUSTOMER", "ADMIN"}, user.RoleNames())
	assert.True(t, user.HasRole(RoleAdmin))
	assert.False(t, user.HasRole(RoleDesigner))

	empty := &User{}
	assert.Empty(t, empty.RoleNames())
	assert.False(t, empty.HasRole(RoleCustomer))
}

func TestMovementIsAdjustment(t *testing.T) {
	assert.True(t, MovementIn.IsAdjustment())
	assert.True(t, MovementOut.IsAdjustment())
	assert.True(t, MovementAdjustment.IsAdjustment())
	assert.False(t, MovementSale.IsAdjustment())
	assert.False(t, MovementReturn.IsAdjustment())
}
