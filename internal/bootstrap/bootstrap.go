// Package bootstrap turns a raw credential into a ready-to-use session:
// authenticated identity, pinned tenant, provisioned profile + membership,
// and a default subscription on first run. Stages execute strictly in that
// order and every stage is idempotent on retry.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitclubhq/fitclub-backend/internal/credstore"
	"github.com/google/uuid"
)

var (
	// ErrTimeout marks a bootstrap stage that ran past the configured
	// deadline, distinct from other transport failures.
	ErrTimeout = errors.New("bootstrap stage timed out")

	// ErrNetwork marks a transport or provider failure that is neither a
	// rejection nor a timeout.
	ErrNetwork = errors.New("network error")
)

// Classify folds context deadline errors into the bootstrap taxonomy.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

// Identity is the client-side cached view of the auth-provider account.
type Identity struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	Role        string
}

// Tokens carry the opaque session token and the short-lived auth token.
type Tokens struct {
	SessionToken string
	AuthToken    string
}

// IdentityProvider is the identity side of the hosted backend.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password, name string) (Identity, Tokens, error)
	CreateSession(ctx context.Context, email, password string) (Identity, Tokens, error)
	DeleteSession(ctx context.Context, sessionToken string) error
	CurrentUser(ctx context.Context, sessionToken string) (Identity, error)
}

// TenantResolver pins the active tenant for the session.
type TenantResolver interface {
	Resolve(ctx context.Context, store credstore.Store) (string, error)
}

type ProvisionRequest struct {
	TenantID string
	UserID   uuid.UUID
	Name     string
	Email    string
	Role     string
}

type ProvisionOutcome struct {
	ProfileID uuid.UUID
	Created   bool
	// Repaired is set when an earlier incomplete provisioning run was
	// completed (e.g. a missing membership was granted).
	Repaired bool
}

// Provisioner is the privileged profile + membership entry point.
type Provisioner interface {
	EnsureProfile(ctx context.Context, req ProvisionRequest) (ProvisionOutcome, error)
}

// SubscriptionInitializer attaches the tenant's default plan. It must be
// idempotent: an existing subscription is returned, not duplicated.
type SubscriptionInitializer interface {
	AttachDefault(ctx context.Context, tenantID string, profileID uuid.UUID) (subscriptionID uuid.UUID, created bool, err error)
}
