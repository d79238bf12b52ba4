package models

import (
	"time"

	"github.com/google/uuid"
)

// Credential is one key of a device's credential set (session token, auth
// token, active tenant id).
type Credential struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DeviceID  string    `gorm:"size:100;not null;uniqueIndex:idx_credentials_device_key" json:"device_id"`
	Key       string    `gorm:"size:50;not null;uniqueIndex:idx_credentials_device_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}
