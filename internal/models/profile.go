package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Preferences are the per-user app settings seeded at provisioning time.
type Preferences struct {
	Notifications  bool   `json:"notifications"`
	EmailUpdates   bool   `json:"emailUpdates"`
	DarkMode       bool   `json:"darkMode"`
	OfflineMode    bool   `json:"offlineMode"`
	HapticFeedback bool   `json:"hapticFeedback"`
	AutoUpdate     bool   `json:"autoUpdate"`
	Language       string `json:"language"`
}

type PrivacySettings struct {
	PublicProfile bool `json:"publicProfile"`
	ShowWorkouts  bool `json:"showWorkouts"`
	ShowProgress  bool `json:"showProgress"`
	TwoFactorAuth bool `json:"twoFactorAuth"`
}

type ProfileStats struct {
	Workouts     int `json:"workouts"`
	Classes      int `json:"classes"`
	Achievements int `json:"achievements"`
}

// Profile is the user-facing account document. Its existence implies the
// owning identity also holds a team membership for the same tenant.
type Profile struct {
	ID          uuid.UUID                             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID    string                                `gorm:"size:50;not null;uniqueIndex:idx_profiles_tenant_user" json:"-"`
	UserID      uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex:idx_profiles_tenant_user" json:"user_id"`
	Name        string                                `gorm:"size:255;not null" json:"name"`
	Email       string                                `gorm:"size:255;not null" json:"email"`
	Role        string                                `gorm:"size:20;not null;default:'MEMBER'" json:"role"`
	Preferences datatypes.JSONType[Preferences]       `gorm:"type:jsonb" json:"preferences"`
	Privacy     datatypes.JSONType[PrivacySettings]   `gorm:"type:jsonb" json:"privacy"`
	Stats       datatypes.JSONType[ProfileStats]      `gorm:"type:jsonb" json:"stats"`
	CreatedAt   time.Time                             `json:"created_at"`
	UpdatedAt   time.Time                             `json:"updated_at"`
}

// DefaultPreferences are the fixed seed values for a freshly provisioned
// profile.
func DefaultPreferences() Preferences {
	return Preferences{
		Notifications:  true,
		EmailUpdates:   false,
		DarkMode:       true,
		OfflineMode:    false,
		HapticFeedback: true,
		AutoUpdate:     true,
		Language:       "en",
	}
}

func DefaultPrivacy() PrivacySettings {
	return PrivacySettings{
		PublicProfile: false,
		ShowWorkouts:  true,
		ShowProgress:  false,
		TwoFactorAuth: false,
	}
}
