package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenTTL is the lifetime of an issued access token.
const TokenTTL = 5 * time.Hour

// Claims is the identity data carried by an access token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager issues and validates access tokens.
type TokenManager interface {
	Issue(userID uuid.UUID, email string) (string, error)
	// Parse returns ErrInvalidToken for every kind of failure.
	Parse(token string) (Claims, error)
}

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
