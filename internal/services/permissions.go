package services

import (
	"fmt"

	"github.com/fitclubhq/fitclub-backend/internal/models"
)

// Permission strings follow the backend grammar <action>(<scope>), e.g.
// read(team:gym-berlin) or update(team:gym-berlin:OWNER).

// ProfilePermissions builds the permission set granted on a member's profile.
// Every member gets read visibility; OWNER and TRAINER additionally get
// update/delete rights.
func ProfilePermissions(teamID, role string) []string {
	perms := []string{fmt.Sprintf("read(team:%s)", teamID)}
	if models.ElevatedRole(role) {
		perms = append(perms,
			fmt.Sprintf("update(team:%s:%s)", teamID, role),
			fmt.Sprintf("delete(team:%s:%s)", teamID, role),
		)
	}
	return perms
}

// MembershipRoles returns the role list stored on the membership record.
func MembershipRoles(role string) []string {
	if role == models.RoleMember {
		return []string{models.RoleMember}
	}
	return []string{models.RoleMember, role}
}
