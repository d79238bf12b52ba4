package models

// Membership roles. OWNER and TRAINER receive elevated rights on the
// member's profile document.
const (
	RoleMember  = "MEMBER"
	RoleTrainer = "TRAINER"
	RoleOwner   = "OWNER"
)

// ValidRole reports whether r is one of the known membership roles.
func ValidRole(r string) bool {
	switch r {
	case RoleMember, RoleTrainer, RoleOwner:
		return true
	}
	return false
}

// ElevatedRole reports whether r grants update/delete rights.
func ElevatedRole(r string) bool {
	return r == RoleOwner || r == RoleTrainer
}
