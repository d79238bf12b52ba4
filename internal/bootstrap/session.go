package bootstrap

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fitclubhq/fitclub-backend/internal/credstore"
)

// SessionManager owns login/logout/register against the identity provider
// and the cached identity for the device. Credentials are persisted through
// the credential store before any call returns.
type SessionManager struct {
	provider IdentityProvider
	store    credstore.Store

	mu      sync.RWMutex
	current *Identity
}

func NewSessionManager(provider IdentityProvider, store credstore.Store) *SessionManager {
	return &SessionManager{provider: provider, store: store}
}

// Login establishes a session. On provider rejection the credential store is
// left untouched; on success both tokens are persisted before returning.
func (m *SessionManager) Login(ctx context.Context, email, password string) (Identity, Tokens, error) {
	identity, tokens, err := m.provider.CreateSession(ctx, email, password)
	if err != nil {
		return Identity{}, Tokens{}, err
	}
	if err := m.persist(ctx, tokens); err != nil {
		return Identity{}, Tokens{}, err
	}
	m.setCurrent(&identity)
	return identity, tokens, nil
}

// Register creates the account and persists the fresh session. Profile
// provisioning is the coordinator's job, triggered exactly once after this.
func (m *SessionManager) Register(ctx context.Context, email, password, name string) (Identity, Tokens, error) {
	identity, tokens, err := m.provider.CreateAccount(ctx, email, password, name)
	if err != nil {
		return Identity{}, Tokens{}, err
	}
	if err := m.persist(ctx, tokens); err != nil {
		return Identity{}, Tokens{}, err
	}
	m.setCurrent(&identity)
	return identity, tokens, nil
}

// Logout clears local state unconditionally. The remote sign-out is best
// effort; the device must never stay authenticated after a user-initiated
// logout.
func (m *SessionManager) Logout(ctx context.Context) error {
	if token, err := m.store.Get(ctx, credstore.KeySessionToken); err == nil {
		if err := m.provider.DeleteSession(ctx, token); err != nil {
			slog.Warn("remote sign-out failed, clearing local session anyway", "error", err.Error())
		}
	}

	m.setCurrent(nil)
	return m.store.Clear(ctx)
}

// CurrentIdentity is a synchronous cache read.
func (m *SessionManager) CurrentIdentity() *Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	id := *m.current
	return &id
}

// RefreshIdentity re-reads the identity behind the stored session token,
// used on app foreground. An invalid session clears the cache.
func (m *SessionManager) RefreshIdentity(ctx context.Context) (*Identity, error) {
	token, err := m.store.Get(ctx, credstore.KeySessionToken)
	if err != nil {
		m.setCurrent(nil)
		return nil, err
	}
	identity, err := m.provider.CurrentUser(ctx, token)
	if err != nil {
		m.setCurrent(nil)
		return nil, err
	}
	m.setCurrent(&identity)
	return &identity, nil
}

func (m *SessionManager) persist(ctx context.Context, tokens Tokens) error {
	if err := m.store.Put(ctx, credstore.KeySessionToken, tokens.SessionToken); err != nil {
		return err
	}
	return m.store.Put(ctx, credstore.KeyAuthToken, tokens.AuthToken)
}

func (m *SessionManager) setCurrent(id *Identity) {
	m.mu.Lock()
	m.current = id
	m.mu.Unlock()
}
