package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"civicsync/models"
	authUtils "civicsync/utils"
)

// DefaultTTL matches the lifetime of the signed token.
const DefaultTTL = 72 * time.Hour

// Manager issues, resolves and ends sessions. Each session holds at most one
// identity; logging out clears it unconditionally.
type Manager struct {
	auth   Authenticator
	store  Store
	secret string
	ttl    time.Duration
}

func NewManager(auth Authenticator, store Store, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{auth: auth, store: store, secret: secret, ttl: ttl}
}

// TTL is the lifetime of sessions and their tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Login authenticates the credentials and opens a session for the identity.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (string, models.Identity, error) {
	identity, err := m.auth.Authenticate(ctx, creds)
	if err != nil {
		return "", models.Identity{}, err
	}

	sessionID := uuid.NewString()
	token, err := authUtils.GenerateToken(m.secret, identity.ID, sessionID, m.ttl)
	if err != nil {
		return "", models.Identity{}, fmt.Errorf("sign session token: %w", err)
	}
	if err := m.store.Save(ctx, sessionID, identity, m.ttl); err != nil {
		return "", models.Identity{}, err
	}
	return token, identity, nil
}

// Current returns the identity held by the token's session.
func (m *Manager) Current(ctx context.Context, token string) (models.Identity, error) {
	if token == "" {
		return models.Identity{}, ErrNoSession
	}
	claims, err := authUtils.ParseToken(m.secret, token, false)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	return m.store.Load(ctx, claims.SessionID)
}

func (m *Manager) IsAuthenticated(ctx context.Context, token string) bool {
	_, err := m.Current(ctx, token)
	return err == nil
}

// Logout drops the session behind the token. Tokens that do not parse have
// nothing to clear; only a store failure is reported.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := authUtils.ParseToken(m.secret, token, true)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.SessionID)
}
