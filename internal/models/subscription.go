package models

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID  string    `gorm:"size:50;not null;index" json:"-"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`
	PlanID    uuid.UUID `gorm:"type:uuid;not null" json:"plan_id"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	// IsActive is set once at creation. Access decisions must use ActiveAt
	// instead of trusting this stored flag.
	IsActive  bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Profile   Profile   `gorm:"foreignKey:ProfileID" json:"-"`
	Plan      Plan      `gorm:"foreignKey:PlanID" json:"-"`
}

// ActiveAt recomputes subscription activity from the period dates.
func (s *Subscription) ActiveAt(now time.Time) bool {
	return !now.Before(s.StartDate) && now.Before(s.EndDate)
}
