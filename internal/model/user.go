package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxPasswordLength is the longest password, in bytes, that bcrypt accepts.
const MaxPasswordLength = 72

// UserStore defines persistence operations for users.
type UserStore interface {
	// GetByEmail returns ErrNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (User, error)
	// Create returns ErrDuplicateKey when the email is already taken.
	Create(ctx context.Context, user NewUser) (User, error)
	Ping(ctx context.Context) error
}

// User represents a registered account.
type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser contains the fields persisted on registration.
// The store assigns ID and CreatedAt.
type NewUser struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
}
