// Package app holds the application services and business logic.
package app

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used when none is
// configured.
const DefaultHashCost = 10

// Hasher wraps bcrypt hashing and verification of password secrets.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given work factor. Costs outside
// bcrypt's supported range fall back to DefaultHashCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return &Hasher{cost: cost}
}

// HashSecret derives a salted one-way hash of secret.
func (h *Hasher) HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(b), nil
}

// VerifySecret reports whether secret matches the stored hash. The
// comparison is constant time inside bcrypt; a malformed hash simply
// does not match.
func (h *Hasher) VerifySecret(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
