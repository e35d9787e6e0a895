package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	user := &User{Username: "alice"}
	require.NoError(t, user.SetPassword("hunter2"))

	assert.NotEqual(t, "hunter2", user.PasswordHash)
	assert.True(t, user.CheckPassword("hunter2"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestInGroup(t *testing.T) {
	user := &User{
		Groups: []*Group{
			nil,
			{Name: "Critics"},
			{Name: MoviesAdminGroupName},
		},
	}

	assert.True(t, user.InGroup(MoviesAdminGroupName))
	assert.True(t, user.InGroup("Critics"))
	assert.False(t, user.InGroup("Editors"))
	assert.False(t, (&User{}).InGroup(MoviesAdminGroupName))
}

func TestHasGlobalPermission(t *testing.T) {
	user := &User{
		GlobalPermissions: []string{"movie.create"},
		Groups: []*Group{
			{Name: "Curators", Permissions: []string{"director.edit"}},
		},
	}

	assert.True(t, user.HasGlobalPermission("movie.create"), "direct permission")
	assert.True(t, user.HasGlobalPermission("director.edit"), "group permission")
	assert.False(t, user.HasGlobalPermission("user.delete"))
}

func TestInviteCodeIsValid(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	two := 2

	tests := []struct {
		name string
		code InviteCode
		want bool
	}{
		{"active unlimited", InviteCode{IsActive: true}, true},
		{"inactive", InviteCode{IsActive: false}, false},
		{"expired", InviteCode{IsActive: true, ExpiresAt: &past}, false},
		{"not yet expired", InviteCode{IsActive: true, ExpiresAt: &future}, true},
		{"uses remaining", InviteCode{IsActive: true, MaxUses: &two, Uses: 1}, true},
		{"uses exhausted", InviteCode{IsActive: true, MaxUses: &two, Uses: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.IsValid())
		})
	}
}
