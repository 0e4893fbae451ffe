// Package hasher turns plaintext passwords into stored hashes and checks them.
package hasher

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/useraccounts-server/internal/model"
)

// MinCost is the lowest work factor the hasher will use.
const MinCost = 10

// MaxPasswordLength is the longest password bcrypt accepts, in bytes.
const MaxPasswordLength = model.MaxPasswordBytes

var _ model.PasswordHasher = (*Bcrypt)(nil)

// Bcrypt implements PasswordHasher with salted bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a hasher with the given cost, raised to MinCost and
// clamped to bcrypt.MaxCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < MinCost {
		cost = MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Bcrypt{cost: cost}
}

// Cost returns the effective work factor.
func (b *Bcrypt) Cost() int {
	return b.cost
}

// Hash returns a bcrypt hash of password with a fresh random salt.
func (b *Bcrypt) Hash(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", fmt.Errorf("%w: exceeds %d bytes", model.ErrPasswordTooLong, MaxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether password matches hash. Any error, including a
// malformed hash, is a mismatch.
func (b *Bcrypt) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
