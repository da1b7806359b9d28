// Package memory implements in-memory repositories for development
// and testing.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rockbuster/internal/domain"
)

// DB implements the credential store on a slice guarded by a mutex,
// so the uniqueness check and the insert happen under one lock.
type DB struct {
	mu      sync.Mutex
	users   []*domain.User
	userSeq int64
}

// New creates an empty in-memory credential store.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionStore = (*SessionStore)(nil)

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by id.
func (db *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create inserts a new user, enforcing email uniqueness under the
// same lock as the lookup.
func (db *DB) Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.Email == email {
			return nil, domain.ErrDuplicateEmail
		}
	}

	db.userSeq++
	u := &domain.User{
		ID:           fmt.Sprintf("%024x", db.userSeq),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	db.users = append(db.users, u)
	cp := *u
	return &cp, nil
}

// DeleteByEmail removes users matching email and returns the count.
func (db *DB) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var kept []*domain.User
	var deleted int64
	for _, u := range db.users {
		if u.Email == email {
			deleted++
			continue
		}
		kept = append(kept, u)
	}
	db.users = kept
	return deleted, nil
}

// Count returns the number of live users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// SessionStore implements the session store on a map guarded by a
// mutex.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

// Create stores a session.
func (st *SessionStore) Create(ctx context.Context, s domain.Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.Token] = s
	return nil
}

// Get retrieves a session by token; (nil, nil) when absent.
func (st *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := s
	return &cp, nil
}

// Delete removes a session; deleting an unknown token is a no-op.
func (st *SessionStore) Delete(ctx context.Context, token string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, token)
	return nil
}
