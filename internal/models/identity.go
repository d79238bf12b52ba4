package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identity is the auth-provider account record. The user-facing Profile is a
// separate document provisioned after registration.
type Identity struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID     string         `gorm:"size:50;not null;uniqueIndex:idx_identities_tenant_email" json:"-"`
	Email        string         `gorm:"not null;size:255;uniqueIndex:idx_identities_tenant_email" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	DisplayName  string         `gorm:"size:255" json:"display_name"`
	Role         string         `gorm:"size:20;default:'MEMBER'" json:"role"`
	AuthProvider string         `gorm:"size:50;default:'email'" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
