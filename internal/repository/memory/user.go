// Package memory provides an in-process user store used when no database is
// configured and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/authgate/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository keeps users in a map keyed by email.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]model.User),
		now:   time.Now,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

// Create checks and inserts under a single lock, so concurrent creates for
// the same email admit exactly one.
func (r *UserRepository) Create(ctx context.Context, user model.NewUser) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return model.User{}, model.ErrDuplicateKey
	}

	saved := model.User{
		ID:           uuid.New(),
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    r.now().UTC(),
	}
	r.users[user.Email] = saved

	return saved, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Count returns the number of stored users.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
