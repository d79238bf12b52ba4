package services

import (
	"context"
	"errors"

	"github.com/fitclubhq/fitclub-backend/internal/models"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORM-backed implementations of the service store interfaces.

type GormProfileStore struct {
	db *gorm.DB
}

func NewGormProfileStore(db *gorm.DB) *GormProfileStore {
	return &GormProfileStore{db: db}
}

func (s *GormProfileStore) GetByUserID(ctx context.Context, tenantID string, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *GormProfileStore) Create(ctx context.Context, profile *models.Profile) error {
	return s.db.WithContext(ctx).Create(profile).Error
}

type GormMembershipStore struct {
	db *gorm.DB
}

func NewGormMembershipStore(db *gorm.DB) *GormMembershipStore {
	return &GormMembershipStore{db: db}
}

func (s *GormMembershipStore) Exists(ctx context.Context, tenantID, teamID string, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Scopes(tenant.ForTenant(tenantID)).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormMembershipStore) Create(ctx context.Context, membership *models.Membership) error {
	return s.db.WithContext(ctx).Create(membership).Error
}

type GormPlanStore struct {
	db *gorm.DB
}

func NewGormPlanStore(db *gorm.DB) *GormPlanStore {
	return &GormPlanStore{db: db}
}

func (s *GormPlanStore) GetByID(ctx context.Context, tenantID string, planID uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).First(&plan, "id = ?", planID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *GormPlanStore) List(ctx context.Context, tenantID string) ([]models.Plan, error) {
	var plans []models.Plan
	err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).Order("price_cents asc").Find(&plans).Error
	return plans, err
}

type GormSubscriptionStore struct {
	db *gorm.DB
}

func NewGormSubscriptionStore(db *gorm.DB) *GormSubscriptionStore {
	return &GormSubscriptionStore{db: db}
}

func (s *GormSubscriptionStore) Create(ctx context.Context, sub *models.Subscription) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *GormSubscriptionStore) GetByProfile(ctx context.Context, tenantID string, profileID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).
		Where("profile_id = ?", profileID).
		Order("created_at desc").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
