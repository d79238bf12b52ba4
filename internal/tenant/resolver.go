package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitclubhq/fitclub-backend/internal/credstore"
)

// ErrTenantUnavailable means the pinned tenant id could not be persisted.
var ErrTenantUnavailable = errors.New("tenant unavailable")

// Resolver pins the active tenant for a session. Current policy: a single
// statically configured gym is returned unconditionally; multi-tenant
// discovery would slot in here.
type Resolver struct {
	registry *Registry
	pinned   string
}

func NewResolver(registry *Registry, defaultTenantID string) *Resolver {
	return &Resolver{registry: registry, pinned: defaultTenantID}
}

// Resolve returns the active tenant id and records it in the credential
// store so every subsequent data call carries it.
func (r *Resolver) Resolve(ctx context.Context, store credstore.Store) (string, error) {
	if r.pinned == "" || !r.registry.Exists(r.pinned) {
		return "", fmt.Errorf("%w: no gym configured for id %q", ErrTenantUnavailable, r.pinned)
	}
	if err := store.Put(ctx, credstore.KeyActiveTenant, r.pinned); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTenantUnavailable, err)
	}
	return r.pinned, nil
}

// PinnedID returns the configured tenant without persisting anything.
func (r *Resolver) PinnedID() string {
	return r.pinned
}
