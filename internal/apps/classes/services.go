package classes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrClassNotFound  = errors.New("class not found")
	ErrClassFull      = errors.New("class is fully booked")
	ErrAlreadyBooked  = errors.New("class already booked")
	ErrBookingMissing = errors.New("booking not found")
)

type ClassService struct {
	db *gorm.DB
}

func NewClassService(db *gorm.DB) *ClassService {
	return &ClassService{db: db}
}

// ListUpcoming returns classes starting after now, soonest first.
func (s *ClassService) ListUpcoming(ctx context.Context, tenantID string) ([]Class, int64, error) {
	var classes []Class
	q := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).Where("starts_at > ?", time.Now())
	if err := q.Order("starts_at asc").Find(&classes).Error; err != nil {
		return nil, 0, err
	}
	var total int64
	if err := q.Model(&Class{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return classes, total, nil
}

// Book reserves a spot. Capacity and the duplicate check run inside one
// transaction so two racing bookings cannot both take the last spot.
func (s *ClassService) Book(ctx context.Context, tenantID string, classID, userID uuid.UUID) (*Booking, error) {
	var booking *Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class Class
		if err := tx.Scopes(tenant.ForTenant(tenantID)).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&class, "id = ?", classID).Error; err != nil {
			return ErrClassNotFound
		}

		var existing int64
		if err := tx.Model(&Booking{}).Scopes(tenant.ForTenant(tenantID)).
			Where("class_id = ? AND user_id = ? AND status = 'confirmed'", classID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyBooked
		}

		var booked int64
		if err := tx.Model(&Booking{}).Scopes(tenant.ForTenant(tenantID)).
			Where("class_id = ? AND status = 'confirmed'", classID).
			Count(&booked).Error; err != nil {
			return err
		}
		if booked >= int64(class.Capacity) {
			return ErrClassFull
		}

		booking = &Booking{
			ID:       uuid.New(),
			TenantID: tenantID,
			ClassID:  classID,
			UserID:   userID,
			Status:   "confirmed",
		}
		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *ClassService) MyBookings(ctx context.Context, tenantID string, userID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).
		Preload("Class").
		Where("user_id = ? AND status = 'confirmed'", userID).
		Order("created_at desc").
		Find(&bookings).Error
	return bookings, err
}

func (s *ClassService) Cancel(ctx context.Context, tenantID string, bookingID, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&Booking{}).
		Scopes(tenant.ForTenant(tenantID)).
		Where("id = ? AND user_id = ?", bookingID, userID).
		Update("status", "cancelled")
	if result.Error != nil {
		return fmt.Errorf("cancel booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookingMissing
	}
	return nil
}
