package classes

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Class struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID        string         `gorm:"size:50;not null;index" json:"-"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	Trainer         string         `gorm:"size:255" json:"trainer"`
	StartsAt        time.Time      `gorm:"not null;index" json:"starts_at"`
	DurationMinutes int            `gorm:"not null;default:60" json:"duration_minutes"`
	Capacity        int            `gorm:"not null;default:20" json:"capacity"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID  string    `gorm:"size:50;not null;uniqueIndex:idx_bookings_tenant_class_user" json:"-"`
	ClassID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_tenant_class_user" json:"class_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_tenant_class_user;index" json:"user_id"`
	Status    string    `gorm:"size:20;not null;default:'confirmed'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Class     Class     `gorm:"foreignKey:ClassID" json:"class"`
}

// --- DTOs ---

type ClassListResponse struct {
	Classes []Class `json:"classes"`
	Total   int64   `json:"total"`
}

type BookingResponse struct {
	ID      string `json:"id"`
	ClassID string `json:"class_id"`
	Status  string `json:"status"`
}
