package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fitclubhq/fitclub-backend/internal/models"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	// ErrInvalidPayload means a required provisioning field is missing.
	ErrInvalidPayload = errors.New("invalid provisioning payload")

	// ErrPartialProvisioning means the profile exists but the membership
	// grant failed. Retry re-attempts only the missing step.
	ErrPartialProvisioning = errors.New("partial provisioning")
)

// ProfileStore is the profile persistence boundary of the provisioner.
type ProfileStore interface {
	// GetByUserID returns (nil, nil) when no profile exists.
	GetByUserID(ctx context.Context, tenantID string, userID uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
}

// MembershipStore is the team-membership boundary of the provisioner.
type MembershipStore interface {
	Exists(ctx context.Context, tenantID, teamID string, userID uuid.UUID) (bool, error)
	Create(ctx context.Context, membership *models.Membership) error
}

type ProvisionInput struct {
	TenantID string
	UserID   uuid.UUID
	Name     string
	Email    string
	Role     string
}

type ProvisionResult struct {
	ProfileID         uuid.UUID
	Created           bool
	MembershipCreated bool
}

// ProvisionService runs with elevated privilege: it creates profiles and
// grants team memberships the freshly registered identity could not grant
// itself.
type ProvisionService struct {
	profiles    ProfileStore
	memberships MembershipStore
	registry    *tenant.Registry
}

func NewProvisionService(profiles ProfileStore, memberships MembershipStore, registry *tenant.Registry) *ProvisionService {
	return &ProvisionService{profiles: profiles, memberships: memberships, registry: registry}
}

// EnsureProfile idempotently guarantees that a profile document and the
// matching team membership exist for the identity. A second call with the
// same userId returns the existing profile id and creates nothing; a call
// after a partial failure repairs only the missing membership.
func (s *ProvisionService) EnsureProfile(ctx context.Context, in ProvisionInput) (ProvisionResult, error) {
	if err := validateInput(in); err != nil {
		return ProvisionResult{}, err
	}

	teamID := s.registry.DefaultTeamID(in.TenantID)
	if teamID == "" {
		return ProvisionResult{}, fmt.Errorf("no default team configured for tenant %q", in.TenantID)
	}

	existing, err := s.profiles.GetByUserID(ctx, in.TenantID, in.UserID)
	if err != nil {
		return ProvisionResult{}, fmt.Errorf("profile lookup failed: %w", err)
	}
	if existing != nil {
		result := ProvisionResult{ProfileID: existing.ID, Created: false}
		created, err := s.ensureMembership(ctx, in, teamID)
		if err != nil {
			return result, fmt.Errorf("%w: membership grant failed: %v", ErrPartialProvisioning, err)
		}
		result.MembershipCreated = created
		return result, nil
	}

	profile := models.Profile{
		ID:          uuid.New(),
		TenantID:    in.TenantID,
		UserID:      in.UserID,
		Name:        in.Name,
		Email:       in.Email,
		Role:        in.Role,
		Preferences: datatypes.NewJSONType(models.DefaultPreferences()),
		Privacy:     datatypes.NewJSONType(models.DefaultPrivacy()),
		Stats:       datatypes.NewJSONType(models.ProfileStats{}),
	}
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return ProvisionResult{}, fmt.Errorf("profile creation failed: %w", err)
	}

	result := ProvisionResult{ProfileID: profile.ID, Created: true}

	// No rollback on membership failure; the caller retries the missing
	// step via the partial-provisioning path.
	created, err := s.ensureMembership(ctx, in, teamID)
	if err != nil {
		slog.Error("membership grant failed after profile creation",
			"tenant_id", in.TenantID, "user_id", in.UserID.String(), "stage", "membership", "error", err.Error())
		return result, fmt.Errorf("%w: membership grant failed: %v", ErrPartialProvisioning, err)
	}
	result.MembershipCreated = created
	return result, nil
}

// JoinDefaultTeam grants plain member access to the tenant's default team.
// Backs the join-default-team function entry point.
func (s *ProvisionService) JoinDefaultTeam(ctx context.Context, tenantID string, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: missing userId", ErrInvalidPayload)
	}
	teamID := s.registry.DefaultTeamID(tenantID)
	if teamID == "" {
		return fmt.Errorf("no default team configured for tenant %q", tenantID)
	}
	_, err := s.ensureMembership(ctx, ProvisionInput{TenantID: tenantID, UserID: userID, Role: models.RoleMember}, teamID)
	return err
}

func (s *ProvisionService) ensureMembership(ctx context.Context, in ProvisionInput, teamID string) (bool, error) {
	exists, err := s.memberships.Exists(ctx, in.TenantID, teamID, in.UserID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	membership := models.Membership{
		ID:          uuid.New(),
		TenantID:    in.TenantID,
		TeamID:      teamID,
		UserID:      in.UserID,
		Roles:       datatypes.NewJSONSlice(MembershipRoles(in.Role)),
		Permissions: datatypes.NewJSONSlice(ProfilePermissions(teamID, in.Role)),
	}
	if err := s.memberships.Create(ctx, &membership); err != nil {
		return false, err
	}
	return true, nil
}

func validateInput(in ProvisionInput) error {
	var missing []string
	if in.UserID == uuid.Nil {
		missing = append(missing, "userId")
	}
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Role == "" {
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidPayload, strings.Join(missing, ", "))
	}
	if !models.ValidRole(in.Role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidPayload, in.Role)
	}
	return nil
}
