package services

import (
	"testing"

	"github.com/fitclubhq/fitclub-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestProfilePermissionsMember(t *testing.T) {
	perms := ProfilePermissions("team-berlin", models.RoleMember)
	assert.Equal(t, []string{"read(team:team-berlin)"}, perms)
}

func TestProfilePermissionsElevated(t *testing.T) {
	for _, role := range []string{models.RoleTrainer, models.RoleOwner} {
		perms := ProfilePermissions("team-berlin", role)
		assert.Equal(t, []string{
			"read(team:team-berlin)",
			"update(team:team-berlin:" + role + ")",
			"delete(team:team-berlin:" + role + ")",
		}, perms, role)
	}
}

func TestMembershipRoles(t *testing.T) {
	assert.Equal(t, []string{models.RoleMember}, MembershipRoles(models.RoleMember))
	assert.Equal(t, []string{models.RoleMember, models.RoleOwner}, MembershipRoles(models.RoleOwner))
	assert.Equal(t, []string{models.RoleMember, models.RoleTrainer}, MembershipRoles(models.RoleTrainer))
}
