package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fitclubhq/fitclub-backend/internal/models"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileStore struct {
	profiles map[uuid.UUID]*models.Profile
	getErr   error
	createErr error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (f *fakeProfileStore) GetByUserID(_ context.Context, tenantID string, userID uuid.UUID) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[userID]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	return p, nil
}

func (f *fakeProfileStore) Create(_ context.Context, profile *models.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.profiles[profile.UserID] = profile
	return nil
}

type fakeMembershipStore struct {
	memberships map[string]*models.Membership
	existsErr   error
	createErr   error
}

func newFakeMembershipStore() *fakeMembershipStore {
	return &fakeMembershipStore{memberships: make(map[string]*models.Membership)}
}

func membershipKey(tenantID, teamID string, userID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", tenantID, teamID, userID)
}

func (f *fakeMembershipStore) Exists(_ context.Context, tenantID, teamID string, userID uuid.UUID) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.memberships[membershipKey(tenantID, teamID, userID)]
	return ok, nil
}

func (f *fakeMembershipStore) Create(_ context.Context, m *models.Membership) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.memberships[membershipKey(m.TenantID, m.TeamID, m.UserID)] = m
	return nil
}

func provisionFixture(t *testing.T) (*ProvisionService, *fakeProfileStore, *fakeMembershipStore) {
	t.Helper()
	registry := tenant.NewRegistry()
	registry.Register(&tenant.GymConfig{
		TenantID:      "gym-berlin",
		Name:          "Berlin Gym",
		DefaultTeamID: "team-berlin",
		DefaultPlanID: uuid.NewString(),
	})
	profiles := newFakeProfileStore()
	memberships := newFakeMembershipStore()
	return NewProvisionService(profiles, memberships, registry), profiles, memberships
}

func validInput() ProvisionInput {
	return ProvisionInput{
		TenantID: "gym-berlin",
		UserID:   uuid.New(),
		Name:     "Jamie Doe",
		Email:    "jamie@example.com",
		Role:     models.RoleMember,
	}
}

func TestEnsureProfileCreatesProfileAndMembership(t *testing.T) {
	svc, profiles, memberships := provisionFixture(t)
	in := validInput()

	result, err := svc.EnsureProfile(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.True(t, result.MembershipCreated)
	assert.NotEqual(t, uuid.Nil, result.ProfileID)

	profile := profiles.profiles[in.UserID]
	require.NotNil(t, profile)
	assert.Equal(t, in.Email, profile.Email)
	assert.Equal(t, models.RoleMember, profile.Role)

	prefs := profile.Preferences.Data()
	assert.True(t, prefs.Notifications)
	assert.True(t, prefs.DarkMode)
	assert.False(t, prefs.EmailUpdates)
	assert.Equal(t, "en", prefs.Language)

	privacy := profile.Privacy.Data()
	assert.True(t, privacy.ShowWorkouts)
	assert.False(t, privacy.ShowProgress)
	assert.False(t, privacy.PublicProfile)

	stats := profile.Stats.Data()
	assert.Zero(t, stats.Workouts)
	assert.Zero(t, stats.Classes)
	assert.Zero(t, stats.Achievements)

	m := memberships.memberships[membershipKey("gym-berlin", "team-berlin", in.UserID)]
	require.NotNil(t, m)
	assert.Equal(t, []string{models.RoleMember}, []string(m.Roles))
	assert.Equal(t, []string{"read(team:team-berlin)"}, []string(m.Permissions))
}

func TestEnsureProfileSecondCallIsIdempotent(t *testing.T) {
	svc, _, _ := provisionFixture(t)
	in := validInput()
	ctx := context.Background()

	first, err := svc.EnsureProfile(ctx, in)
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := svc.EnsureProfile(ctx, in)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.False(t, second.MembershipCreated)
	assert.Equal(t, first.ProfileID, second.ProfileID)
}

func TestEnsureProfileMissingFields(t *testing.T) {
	svc, _, _ := provisionFixture(t)

	_, err := svc.EnsureProfile(context.Background(), ProvisionInput{TenantID: "gym-berlin"})
	require.ErrorIs(t, err, ErrInvalidPayload)
	assert.Contains(t, err.Error(), "userId")
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "role")
}

func TestEnsureProfileUnknownRole(t *testing.T) {
	svc, _, _ := provisionFixture(t)
	in := validInput()
	in.Role = "ADMIN"

	_, err := svc.EnsureProfile(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestEnsureProfilePartialFailureKeepsProfile(t *testing.T) {
	svc, profiles, memberships := provisionFixture(t)
	memberships.createErr = errors.New("connection reset")
	in := validInput()

	result, err := svc.EnsureProfile(context.Background(), in)
	require.ErrorIs(t, err, ErrPartialProvisioning)
	assert.True(t, result.Created)
	assert.NotEqual(t, uuid.Nil, result.ProfileID)

	// No rollback: the profile survives the failed membership grant.
	assert.NotNil(t, profiles.profiles[in.UserID])
}

func TestEnsureProfileRepairsMissingMembership(t *testing.T) {
	svc, _, memberships := provisionFixture(t)
	in := validInput()
	ctx := context.Background()

	memberships.createErr = errors.New("connection reset")
	first, err := svc.EnsureProfile(ctx, in)
	require.ErrorIs(t, err, ErrPartialProvisioning)

	// Retry with a healthy membership store grants only the missing step.
	memberships.createErr = nil
	second, err := svc.EnsureProfile(ctx, in)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.True(t, second.MembershipCreated)
	assert.Equal(t, first.ProfileID, second.ProfileID)
}

func TestEnsureProfileElevatedRolePermissions(t *testing.T) {
	svc, _, memberships := provisionFixture(t)
	in := validInput()
	in.Role = models.RoleTrainer

	_, err := svc.EnsureProfile(context.Background(), in)
	require.NoError(t, err)

	m := memberships.memberships[membershipKey("gym-berlin", "team-berlin", in.UserID)]
	require.NotNil(t, m)
	assert.Equal(t, []string{models.RoleMember, models.RoleTrainer}, []string(m.Roles))
	assert.Equal(t, []string{
		"read(team:team-berlin)",
		"update(team:team-berlin:TRAINER)",
		"delete(team:team-berlin:TRAINER)",
	}, []string(m.Permissions))
}

func TestEnsureProfileUnknownTenant(t *testing.T) {
	svc, _, _ := provisionFixture(t)
	in := validInput()
	in.TenantID = "gym-munich"

	_, err := svc.EnsureProfile(context.Background(), in)
	assert.Error(t, err)
}

func TestJoinDefaultTeam(t *testing.T) {
	svc, _, memberships := provisionFixture(t)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.JoinDefaultTeam(ctx, "gym-berlin", userID))
	require.NotNil(t, memberships.memberships[membershipKey("gym-berlin", "team-berlin", userID)])

	// Second join is a no-op.
	require.NoError(t, svc.JoinDefaultTeam(ctx, "gym-berlin", userID))
	assert.Len(t, memberships.memberships, 1)
}

func TestJoinDefaultTeamMissingUser(t *testing.T) {
	svc, _, _ := provisionFixture(t)
	err := svc.JoinDefaultTeam(context.Background(), "gym-berlin", uuid.Nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
