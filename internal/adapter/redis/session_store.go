// Package redis implements the session store on Redis. Expiry is
// enforced twice: lazily at resolve time and by the key TTL, which
// keeps the keyspace from accumulating dead sessions.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rockbuster/internal/domain"
)

// Open connects a Redis client and pings it.
func Open(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// SessionStore is a Redis-backed domain.SessionStore.
type SessionStore struct {
	client *redis.Client
	prefix string
}

// NewSessionStore creates a SessionStore over an open client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, prefix: "session:"}
}

func (r *SessionStore) key(token string) string {
	return r.prefix + token
}

// Create stores a session with a TTL matching its expiry.
func (r *SessionStore) Create(ctx context.Context, s domain.Session) error {
	if s.Token == "" || s.UserID == "" {
		return errors.New("session: missing token or user id")
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session: expires_at must be in the future")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	return r.client.Set(ctx, r.key(s.Token), data, ttl).Err()
}

// Get retrieves a session by token; (nil, nil) when absent.
func (r *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	val, err := r.client.Get(ctx, r.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s domain.Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}
	return &s, nil
}

// Delete removes a session. Deleting an unknown token is a no-op.
func (r *SessionStore) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}

var _ domain.SessionStore = (*SessionStore)(nil)
