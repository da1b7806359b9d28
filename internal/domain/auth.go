// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateEmail is returned by UserRepository.Create when a live
// user already holds the email. The store enforces this with a unique
// index so a concurrent check-then-insert cannot slip through.
var ErrDuplicateEmail = errors.New("email already registered")

// User represents a registered account. PasswordHash is an opaque
// bcrypt blob; the raw secret is never stored.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session binds an opaque token to a user id until ExpiresAt.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the port for credential persistence.
// Lookups return (nil, nil) when no user matches; an error means the
// store itself failed.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, name, email, passwordHash string) (*User, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}

// SessionStore defines the port for session persistence. Get returns
// (nil, nil) for an unknown token; Delete of an unknown token is not
// an error.
type SessionStore interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
