package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fitclubhq/fitclub-backend/internal/credstore"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// StoreProvider hands out the credential store for a device. At most one
// active session exists per device.
type StoreProvider interface {
	ForDevice(deviceID string) credstore.Store
}

// Result is the outcome of one bootstrap run. A signed-up user is never
// blocked by provisioning failures: those surface as PendingRepair instead
// of an error, and the next run re-attempts only the missing steps.
type Result struct {
	Identity       Identity
	Tokens         Tokens
	TenantID       string
	ProfileID      uuid.UUID
	ProfileCreated bool
	SubscriptionID uuid.UUID
	PendingRepair  bool
	RepairReason   string
}

// Coordinator drives the bootstrap pipeline: Identity -> Tenant -> Profile ->
// Subscription, strictly in order, serialized per user.
type Coordinator struct {
	provider    IdentityProvider
	resolver    TenantResolver
	provisioner Provisioner
	subs        SubscriptionInitializer
	stores      StoreProvider
	timeout     time.Duration

	group singleflight.Group

	mu       sync.Mutex
	sessions map[string]*SessionManager
}

func NewCoordinator(
	provider IdentityProvider,
	resolver TenantResolver,
	provisioner Provisioner,
	subs SubscriptionInitializer,
	stores StoreProvider,
	timeout time.Duration,
) *Coordinator {
	return &Coordinator{
		provider:    provider,
		resolver:    resolver,
		provisioner: provisioner,
		subs:        subs,
		stores:      stores,
		timeout:     timeout,
		sessions:    make(map[string]*SessionManager),
	}
}

// SessionFor returns the device's session manager, creating it on first use.
func (c *Coordinator) SessionFor(deviceID string) *SessionManager {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.sessions[deviceID]; ok {
		return m
	}
	m := NewSessionManager(c.provider, c.stores.ForDevice(deviceID))
	c.sessions[deviceID] = m
	return m
}

// Register runs the full pipeline for a new account.
func (c *Coordinator) Register(ctx context.Context, deviceID, email, password, name string) (*Result, error) {
	sessions := c.SessionFor(deviceID)
	return c.serialized(ctx, email, func(ctx context.Context) (*Result, error) {
		identity, tokens, err := sessions.Register(ctx, email, password, name)
		if err != nil {
			return nil, Classify(err)
		}
		return c.finish(ctx, sessions, identity, tokens)
	})
}

// Login establishes a session and runs the pipeline in repair mode: profile
// and membership are re-checked idempotently and only missing provisioning
// steps are re-attempted.
func (c *Coordinator) Login(ctx context.Context, deviceID, email, password string) (*Result, error) {
	sessions := c.SessionFor(deviceID)
	return c.serialized(ctx, email, func(ctx context.Context) (*Result, error) {
		identity, tokens, err := sessions.Login(ctx, email, password)
		if err != nil {
			return nil, Classify(err)
		}
		return c.finish(ctx, sessions, identity, tokens)
	})
}

// Logout clears the device's session through its session manager.
func (c *Coordinator) Logout(ctx context.Context, deviceID string) error {
	return c.SessionFor(deviceID).Logout(ctx)
}

// serialized collapses concurrent bootstrap attempts for the same user into
// a single run; the credential store is a shared mutable resource and must
// not see interleaved pipelines.
func (c *Coordinator) serialized(ctx context.Context, email string, fn func(ctx context.Context) (*Result, error)) (*Result, error) {
	key := strings.ToLower(email)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return fn(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (c *Coordinator) finish(ctx context.Context, sessions *SessionManager, identity Identity, tokens Tokens) (*Result, error) {
	res := &Result{Identity: identity, Tokens: tokens}

	tenantID, err := c.resolver.Resolve(ctx, sessions.store)
	if err != nil {
		return nil, Classify(err)
	}
	res.TenantID = tenantID

	// The privileged profile write must not be aborted mid-flight by caller
	// cancellation; it runs detached under its own deadline so partial
	// server-side state is not orphaned.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	name := identity.DisplayName
	if name == "" {
		name = identity.Email
	}
	role := identity.Role
	if role == "" {
		role = "MEMBER"
	}

	outcome, err := c.provisioner.EnsureProfile(pctx, ProvisionRequest{
		TenantID: tenantID,
		UserID:   identity.ID,
		Name:     name,
		Email:    identity.Email,
		Role:     role,
	})
	res.ProfileID = outcome.ProfileID
	res.ProfileCreated = outcome.Created
	if err != nil {
		slog.Error("profile provisioning incomplete, flagged for repair",
			"tenant_id", tenantID, "user_id", identity.ID.String(), "stage", "profile", "error", err.Error())
		res.PendingRepair = true
		res.RepairReason = err.Error()
		return res, nil
	}

	// The default subscription is attached only when this run created or
	// repaired the profile, never on an ordinary login.
	if outcome.Created || outcome.Repaired {
		subID, _, err := c.subs.AttachDefault(pctx, tenantID, outcome.ProfileID)
		if err != nil {
			slog.Error("default subscription attach failed, flagged for repair",
				"tenant_id", tenantID, "user_id", identity.ID.String(), "stage", "subscription", "error", err.Error())
			res.PendingRepair = true
			res.RepairReason = err.Error()
			return res, nil
		}
		res.SubscriptionID = subID
	}

	return res, nil
}
