// Package password hashes user passwords with bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/authgate/internal/model"
)

// DefaultCost is the bcrypt cost used for stored passwords.
const DefaultCost = 10

var _ model.PasswordHasher = (*Bcrypt)(nil)

// Bcrypt implements PasswordHasher using bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a hasher with the given cost. Costs outside bcrypt's
// accepted range fall back to DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns a salted bcrypt hash of plaintext. Passwords longer than
// model.MaxPasswordLength bytes fail with model.ErrPasswordTooLong.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if len(plaintext) > model.MaxPasswordLength {
		return "", fmt.Errorf("failed to hash password: %w", model.ErrPasswordTooLong)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash.
func (b *Bcrypt) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
