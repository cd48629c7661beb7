//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/authgate/internal/model"
	repo "github.com/dtroode/authgate/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "authgate_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/authgate_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newRepo(t *testing.T) *repo.UserRepository {
	t.Helper()
	var (
		conn *repo.Connection
		err  error
	)
	// the port opens before postgres accepts connections
	require.Eventually(t, func() bool {
		conn, err = repo.NewConnection(context.Background(), dsn)
		return err == nil
	}, 30*time.Second, 500*time.Millisecond)
	t.Cleanup(func() { _ = conn.Close() })
	return repo.NewUserRepository(conn, 5*time.Second)
}

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	ur := newRepo(t)

	require.NoError(t, ur.Ping(ctx))

	_, err := ur.GetByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, model.ErrNotFound)

	saved, err := ur.Create(ctx, model.NewUser{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$hash",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	byEmail, err := ur.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byEmail.ID)
	assert.Equal(t, "Ada", byEmail.FirstName)
	assert.Equal(t, "$2a$10$hash", byEmail.PasswordHash)

	_, err = ur.Create(ctx, model.NewUser{FirstName: "A", LastName: "B", Email: "ada@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, model.ErrDuplicateKey)
}

func TestUserRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	ur := newRepo(t)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ur.Create(ctx, model.NewUser{FirstName: "R", LastName: "C", Email: "race@example.com", PasswordHash: "x"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, model.ErrDuplicateKey)
	}
	assert.Equal(t, 1, succeeded)
}
