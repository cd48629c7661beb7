package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/authgate/internal/model"
)

// DefaultQueryTimeout bounds a single store call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

const uniqueViolation = "23505"

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db      *Connection
	timeout time.Duration
}

func NewUserRepository(db *Connection, timeout time.Duration) *UserRepository {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &UserRepository{
		db:      db,
		timeout: timeout,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user model.User
	query := `SELECT id, first_name, last_name, email, password_hash, created_at
			  FROM users WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.NewUser) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO users (first_name, last_name, email, password_hash)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, first_name, last_name, email, password_hash, created_at`

	var savedUser model.User
	err := r.db.QueryRow(ctx, query,
		user.FirstName, user.LastName, user.Email, user.PasswordHash,
	).Scan(
		&savedUser.ID, &savedUser.FirstName, &savedUser.LastName, &savedUser.Email,
		&savedUser.PasswordHash, &savedUser.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrDuplicateKey
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return savedUser, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.db.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
