package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is read-mostly reference data describing a membership offering.
type Plan struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID     string    `gorm:"size:50;not null;index" json:"-"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	PriceCents   int64     `gorm:"not null;default:0" json:"price_cents"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
