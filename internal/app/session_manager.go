package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"rockbuster/internal/domain"
)

// DefaultSessionTTL bounds a session's lifetime from mint time.
const DefaultSessionTTL = 15 * time.Minute

// SessionManager mints, resolves and invalidates sessions. The stored
// payload is only the user id; the live user record is re-fetched on
// every resolve so deletions and edits are visible immediately.
type SessionManager struct {
	users domain.UserRepository
	store domain.SessionStore
	ttl   time.Duration
	log   *slog.Logger
}

// NewSessionManager creates a SessionManager with the given TTL. A
// non-positive TTL falls back to DefaultSessionTTL.
func NewSessionManager(users domain.UserRepository, store domain.SessionStore, ttl time.Duration, log *slog.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{users: users, store: store, ttl: ttl, log: log}
}

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Mint creates a session for an authenticated user and returns the
// opaque token the transport should carry.
func (m *SessionManager) Mint(ctx context.Context, user *domain.User) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("mint session: %w", err)
	}

	now := time.Now()
	sess := domain.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("mint session: %w", err)
	}
	return token, nil
}

// Resolve maps a request's token to its live user. Anonymous outcomes
// (unknown token, expired session, vanished user) return (nil, nil);
// an error means a store fault, never a failed resolution.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}

	if time.Now().After(sess.ExpiresAt) {
		_ = m.store.Delete(ctx, token)
		return nil, nil
	}

	user, err := m.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: fetch user: %w", err)
	}
	if user == nil {
		// Session points at a deleted account; drop it quietly.
		_ = m.store.Delete(ctx, token)
		m.log.Info("dropped session for vanished user", "user_id", sess.UserID)
		return nil, nil
	}
	return user, nil
}

// Invalidate destroys the session behind token. It is idempotent;
// invalidating an unknown or already-dead token is not an error.
func (m *SessionManager) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
