package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitclubhq/fitclub-backend/internal/bootstrap"
	"github.com/fitclubhq/fitclub-backend/internal/models"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/google/uuid"
)

// Adapters binding the concrete services to the bootstrap pipeline's stage
// interfaces. Unexpected provider failures are classified as network errors
// here, at the transport boundary.

type BootstrapIdentityProvider struct {
	auth     *AuthService
	tenantID string
}

func NewBootstrapIdentityProvider(auth *AuthService, tenantID string) *BootstrapIdentityProvider {
	return &BootstrapIdentityProvider{auth: auth, tenantID: tenantID}
}

func (p *BootstrapIdentityProvider) CreateAccount(ctx context.Context, email, password, name string) (bootstrap.Identity, bootstrap.Tokens, error) {
	identity, tokens, err := p.auth.CreateAccount(ctx, p.tenantID, email, password, name)
	if err != nil {
		return bootstrap.Identity{}, bootstrap.Tokens{}, classifyProviderErr(err)
	}
	return toBootstrapIdentity(identity), toBootstrapTokens(tokens), nil
}

func (p *BootstrapIdentityProvider) CreateSession(ctx context.Context, email, password string) (bootstrap.Identity, bootstrap.Tokens, error) {
	identity, tokens, err := p.auth.CreateSession(ctx, p.tenantID, email, password)
	if err != nil {
		return bootstrap.Identity{}, bootstrap.Tokens{}, classifyProviderErr(err)
	}
	return toBootstrapIdentity(identity), toBootstrapTokens(tokens), nil
}

func (p *BootstrapIdentityProvider) DeleteSession(ctx context.Context, sessionToken string) error {
	if err := p.auth.DeleteSession(ctx, p.tenantID, sessionToken); err != nil {
		return classifyProviderErr(err)
	}
	return nil
}

func (p *BootstrapIdentityProvider) CurrentUser(ctx context.Context, sessionToken string) (bootstrap.Identity, error) {
	identity, err := p.auth.CurrentUser(ctx, p.tenantID, sessionToken)
	if err != nil {
		return bootstrap.Identity{}, classifyProviderErr(err)
	}
	return toBootstrapIdentity(identity), nil
}

type BootstrapProvisioner struct {
	svc *ProvisionService
}

func NewBootstrapProvisioner(svc *ProvisionService) *BootstrapProvisioner {
	return &BootstrapProvisioner{svc: svc}
}

func (p *BootstrapProvisioner) EnsureProfile(ctx context.Context, req bootstrap.ProvisionRequest) (bootstrap.ProvisionOutcome, error) {
	result, err := p.svc.EnsureProfile(ctx, ProvisionInput{
		TenantID: req.TenantID,
		UserID:   req.UserID,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
	})
	return bootstrap.ProvisionOutcome{
		ProfileID: result.ProfileID,
		Created:   result.Created,
		Repaired:  !result.Created && result.MembershipCreated,
	}, err
}

type BootstrapSubscriptionInitializer struct {
	svc      *SubscriptionService
	registry *tenant.Registry
}

func NewBootstrapSubscriptionInitializer(svc *SubscriptionService, registry *tenant.Registry) *BootstrapSubscriptionInitializer {
	return &BootstrapSubscriptionInitializer{svc: svc, registry: registry}
}

// AttachDefault attaches the tenant's configured default plan unless the
// profile already holds a subscription.
func (a *BootstrapSubscriptionInitializer) AttachDefault(ctx context.Context, tenantID string, profileID uuid.UUID) (uuid.UUID, bool, error) {
	existing, err := a.svc.GetForProfile(ctx, tenantID, profileID)
	if err != nil {
		return uuid.Nil, false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	planID, err := uuid.Parse(a.registry.DefaultPlanID(tenantID))
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("%w: no default plan configured for tenant %q", ErrPlanNotFound, tenantID)
	}

	sub, err := a.svc.AttachDefaultSubscription(ctx, tenantID, profileID, planID)
	if err != nil {
		return uuid.Nil, false, err
	}
	return sub.ID, true, nil
}

func classifyProviderErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrWeakCredentials),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrUserNotFound):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %v", bootstrap.ErrNetwork, err)
	}
}

func toBootstrapIdentity(identity *models.Identity) bootstrap.Identity {
	return bootstrap.Identity{
		ID:          identity.ID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Role:        identity.Role,
	}
}

func toBootstrapTokens(tokens *SessionTokens) bootstrap.Tokens {
	return bootstrap.Tokens{
		SessionToken: tokens.SessionToken,
		AuthToken:    tokens.AuthToken,
	}
}
