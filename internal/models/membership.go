package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Membership links an identity to a tenant's team and carries the permission
// strings granted on the member's profile document.
type Membership struct {
	ID          uuid.UUID                    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID    string                       `gorm:"size:50;not null;index" json:"-"`
	TeamID      string                       `gorm:"size:50;not null;uniqueIndex:idx_memberships_team_user" json:"team_id"`
	UserID      uuid.UUID                    `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_team_user" json:"user_id"`
	Roles       datatypes.JSONSlice[string]  `gorm:"type:jsonb" json:"roles"`
	Permissions datatypes.JSONSlice[string]  `gorm:"type:jsonb" json:"permissions"`
	CreatedAt   time.Time                    `json:"created_at"`
}
