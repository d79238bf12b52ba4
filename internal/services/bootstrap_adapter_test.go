package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitclubhq/fitclub-backend/internal/bootstrap"
	"github.com/fitclubhq/fitclub-backend/internal/models"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyProviderErr(t *testing.T) {
	// Rejections pass through untouched so callers can match sentinels.
	for _, sentinel := range []error{
		ErrEmailTaken, ErrWeakCredentials, ErrInvalidCredentials, ErrInvalidToken, ErrUserNotFound,
	} {
		assert.ErrorIs(t, classifyProviderErr(sentinel), sentinel)
		assert.NotErrorIs(t, classifyProviderErr(sentinel), bootstrap.ErrNetwork)
	}

	// Context errors stay classifiable as timeouts upstream.
	assert.ErrorIs(t, classifyProviderErr(context.DeadlineExceeded), context.DeadlineExceeded)

	// Anything else is a transport failure.
	err := classifyProviderErr(errors.New("connection refused"))
	assert.ErrorIs(t, err, bootstrap.ErrNetwork)

	assert.NoError(t, classifyProviderErr(nil))
}

func TestBootstrapProvisionerMapsOutcome(t *testing.T) {
	svc, _, memberships := provisionFixture(t)
	adapter := NewBootstrapProvisioner(svc)
	ctx := context.Background()

	req := bootstrap.ProvisionRequest{
		TenantID: "gym-berlin",
		UserID:   uuid.New(),
		Name:     "Jamie Doe",
		Email:    "jamie@example.com",
		Role:     models.RoleMember,
	}

	outcome, err := adapter.EnsureProfile(ctx, req)
	require.NoError(t, err)
	assert.True(t, outcome.Created)
	assert.False(t, outcome.Repaired)

	// Remove the membership record to simulate an earlier partial run, then
	// re-provision: the outcome reports a repair, not a creation.
	for k := range memberships.memberships {
		delete(memberships.memberships, k)
	}
	outcome2, err := adapter.EnsureProfile(ctx, req)
	require.NoError(t, err)
	assert.False(t, outcome2.Created)
	assert.True(t, outcome2.Repaired)
	assert.Equal(t, outcome.ProfileID, outcome2.ProfileID)
}

func subscriptionAdapterFixture(plan *models.Plan) (*BootstrapSubscriptionInitializer, *fakeSubscriptionStore) {
	registry := tenant.NewRegistry()
	cfg := &tenant.GymConfig{TenantID: "gym-berlin", DefaultTeamID: "team-berlin"}
	if plan != nil {
		cfg.DefaultPlanID = plan.ID.String()
	}
	registry.Register(cfg)

	subs := newFakeSubscriptionStore()
	plans := newFakePlanStore()
	if plan != nil {
		plans.plans[plan.ID] = plan
	}
	svc := NewSubscriptionService(plans, subs).
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) })
	return NewBootstrapSubscriptionInitializer(svc, registry), subs
}

func TestAttachDefaultCreatesOnce(t *testing.T) {
	plan := &models.Plan{ID: uuid.New(), TenantID: "gym-berlin", Name: "Monthly", DurationDays: 30}
	adapter, subs := subscriptionAdapterFixture(plan)
	ctx := context.Background()
	profileID := uuid.New()

	id, created, err := adapter.AttachDefault(ctx, "gym-berlin", profileID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, id)
	require.Len(t, subs.subs, 1)

	// A second attach returns the existing subscription untouched.
	id2, created2, err := adapter.AttachDefault(ctx, "gym-berlin", profileID)
	require.NoError(t, err)
	assert.False(t, created2)
	assert.Equal(t, id, id2)
	assert.Len(t, subs.subs, 1)
}

func TestAttachDefaultWithoutConfiguredPlan(t *testing.T) {
	adapter, subs := subscriptionAdapterFixture(nil)

	_, _, err := adapter.AttachDefault(context.Background(), "gym-berlin", uuid.New())
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.Empty(t, subs.subs)
}
