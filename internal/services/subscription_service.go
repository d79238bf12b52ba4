package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitclubhq/fitclub-backend/internal/models"
	"github.com/google/uuid"
)

// ErrPlanNotFound means the referenced plan does not resolve; nothing is
// written in that case.
var ErrPlanNotFound = errors.New("plan not found")

// PlanStore is the read-mostly plan reference data boundary.
type PlanStore interface {
	// GetByID returns (nil, nil) when the plan does not exist.
	GetByID(ctx context.Context, tenantID string, planID uuid.UUID) (*models.Plan, error)
	List(ctx context.Context, tenantID string) ([]models.Plan, error)
}

type SubscriptionStore interface {
	Create(ctx context.Context, sub *models.Subscription) error
	// GetByProfile returns (nil, nil) when the profile has no subscription.
	GetByProfile(ctx context.Context, tenantID string, profileID uuid.UUID) (*models.Subscription, error)
}

// SubscriptionService attaches the default plan to freshly provisioned
// profiles and serves subscription reads with recomputed activity.
type SubscriptionService struct {
	plans PlanStore
	subs  SubscriptionStore
	now   func() time.Time
}

func NewSubscriptionService(plans PlanStore, subs SubscriptionStore) *SubscriptionService {
	return &SubscriptionService{plans: plans, subs: subs, now: time.Now}
}

// WithClock overrides the service clock. Tests only.
func (s *SubscriptionService) WithClock(now func() time.Time) *SubscriptionService {
	s.now = now
	return s
}

// AttachDefaultSubscription creates a subscription running from now for the
// plan's full duration. Invoked only right after first-time profile
// creation, never on ordinary login.
func (s *SubscriptionService) AttachDefaultSubscription(ctx context.Context, tenantID string, profileID, planID uuid.UUID) (*models.Subscription, error) {
	plan, err := s.plans.GetByID(ctx, tenantID, planID)
	if err != nil {
		return nil, fmt.Errorf("plan lookup failed: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}

	start := s.now()
	sub := models.Subscription{
		ID:        uuid.New(),
		TenantID:  tenantID,
		ProfileID: profileID,
		PlanID:    plan.ID,
		StartDate: start,
		EndDate:   start.Add(time.Duration(plan.DurationDays) * 24 * time.Hour),
		IsActive:  true,
	}
	if err := s.subs.Create(ctx, &sub); err != nil {
		return nil, fmt.Errorf("subscription creation failed: %w", err)
	}
	return &sub, nil
}

// GetForProfile returns the profile's subscription with IsActive recomputed
// from the period dates; the stored flag is never trusted.
func (s *SubscriptionService) GetForProfile(ctx context.Context, tenantID string, profileID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.subs.GetByProfile(ctx, tenantID, profileID)
	if err != nil || sub == nil {
		return nil, err
	}
	sub.IsActive = sub.ActiveAt(s.now())
	return sub, nil
}

func (s *SubscriptionService) ListPlans(ctx context.Context, tenantID string) ([]models.Plan, error) {
	return s.plans.List(ctx, tenantID)
}
