package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rockbuster/internal/domain"
)

var (
	// ErrNoSuchIdentity indicates that no user exists for the submitted
	// email. Handlers collapse it with ErrBadSecret into one generic
	// user-facing message; the two stay distinct in logs.
	ErrNoSuchIdentity = errors.New("no user with that email")
	// ErrBadSecret indicates that the submitted password did not match.
	ErrBadSecret = errors.New("password incorrect")
	// ErrDuplicateIdentity indicates a registration attempt for an email
	// that already has an account.
	ErrDuplicateIdentity = errors.New("account already exists")
)

// AuthService verifies credentials and manages the account lifecycle.
type AuthService struct {
	users    domain.UserRepository
	hasher   *Hasher
	sessions *SessionManager
	log      *slog.Logger
}

// NewAuthService creates an AuthService over the given credential
// store, hasher and session manager.
func NewAuthService(users domain.UserRepository, hasher *Hasher, sessions *SessionManager, log *slog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, sessions: sessions, log: log}
}

// Authenticate verifies an (email, secret) pair against the credential
// store. It reads but never mutates, and never logs the secret.
// Outcomes: the user on success, ErrNoSuchIdentity, ErrBadSecret, or a
// wrapped store fault.
func (s *AuthService) Authenticate(ctx context.Context, email, secret string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("authenticate: lookup %q: %w", email, err)
	}
	if user == nil {
		return nil, ErrNoSuchIdentity
	}
	if !s.hasher.VerifySecret(secret, user.PasswordHash) {
		return nil, ErrBadSecret
	}
	return user, nil
}

// Register creates a new account. The secret is hashed before any
// store interaction and no session is minted on success; the caller
// still has to log in. A duplicate email fails with
// ErrDuplicateIdentity whether caught by the pre-check or by the
// store's unique index.
func (s *AuthService) Register(ctx context.Context, name, email, secret string) (*domain.User, error) {
	hash, err := s.hasher.HashSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: lookup %q: %w", email, err)
	}
	if existing != nil {
		return nil, ErrDuplicateIdentity
	}

	user, err := s.users.Create(ctx, name, email, hash)
	if errors.Is(err, domain.ErrDuplicateEmail) {
		// Lost the race between check and insert; the unique index wins.
		return nil, ErrDuplicateIdentity
	}
	if err != nil {
		return nil, fmt.Errorf("register: insert %q: %w", email, err)
	}

	s.log.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Deregister deletes the user's account and terminates the session
// behind the given token. The session is invalidated even when the
// delete fails, so a stale authenticated session never survives; the
// delete error, if any, is returned after the invalidate has run.
func (s *AuthService) Deregister(ctx context.Context, user *domain.User, token string) error {
	_, delErr := s.users.DeleteByEmail(ctx, user.Email)

	if err := s.sessions.Invalidate(ctx, token); err != nil {
		s.log.Error("deregister: session invalidate failed", "user_id", user.ID, "err", err)
	}

	if delErr != nil {
		return fmt.Errorf("deregister: delete %q: %w", user.Email, delErr)
	}
	s.log.Info("user deregistered", "user_id", user.ID, "email", user.Email)
	return nil
}
