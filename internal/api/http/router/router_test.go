package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpctx "github.com/dtroode/authgate/internal/api/http/context"
	"github.com/dtroode/authgate/internal/password"
	"github.com/dtroode/authgate/internal/repository/memory"
	"github.com/dtroode/authgate/internal/service"
	"github.com/dtroode/authgate/internal/testutil"
	"github.com/dtroode/authgate/internal/token"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	app   *fiber.App
	store *memory.UserRepository
	clock *testClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := testutil.MakeNoopLogger()
	clock := &testClock{now: time.Now()}
	store := memory.NewUserRepository()

	tm, err := token.NewJWT("test-secret", token.WithClock(clock.Now))
	require.NoError(t, err)

	authService := service.NewAuth(store, password.NewBcrypt(bcrypt.MinCost), tm, log)
	tokenService := service.NewTokenService(tm, log)

	r := New(authService, tokenService, httpctx.NewManager(), log, Config{BodyLimit: 1024})
	return &testEnv{app: r.Register(), store: store, clock: clock}
}

type response struct {
	status int
	body   string
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: string(raw)}
}

const adaRegistration = `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"engine"}`

func tokenFrom(t *testing.T, body string) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestRouter_RegisterLoginWelcome(t *testing.T) {
	env := newTestEnv(t)

	reg := env.do(t, http.MethodPost, "/register", adaRegistration, nil)
	require.Equal(t, http.StatusOK, reg.status, reg.body)
	assert.NotContains(t, reg.body, "engine")
	assert.NotContains(t, strings.ToLower(reg.body), "password")

	login := env.do(t, http.MethodPost, "/login", `{"email":"ada@example.com","password":"engine"}`, nil)
	require.Equal(t, http.StatusOK, login.status, login.body)

	welcome := env.do(t, http.MethodGet, "/welcome", "", map[string]string{
		"Authorization": "Bearer " + tokenFrom(t, login.body),
	})
	assert.Equal(t, http.StatusOK, welcome.status)
	assert.Equal(t, "Welcome 🙌", welcome.body)
}

func TestRouter_RegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)

	first := env.do(t, http.MethodPost, "/register", adaRegistration, nil)
	require.Equal(t, http.StatusOK, first.status)
	tokenFrom(t, first.body)

	second := env.do(t, http.MethodPost, "/register", adaRegistration, nil)
	assert.Equal(t, http.StatusConflict, second.status)
	assert.Equal(t, 1, env.store.Count())
}

func TestRouter_RegisterConcurrentDuplicate(t *testing.T) {
	env := newTestEnv(t)

	const workers = 10
	statuses := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			statuses[i] = env.do(t, http.MethodPost, "/register", adaRegistration, nil).status
		}(i)
	}
	wg.Wait()

	ok, conflict := 0, 0
	for _, s := range statuses {
		switch s {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflict)
	assert.Equal(t, 1, env.store.Count())
}

func TestRouter_RegisterMissingField(t *testing.T) {
	for _, field := range []string{"firstName", "lastName", "email", "password"} {
		t.Run(field, func(t *testing.T) {
			env := newTestEnv(t)

			payload := map[string]string{
				"firstName": "Ada",
				"lastName":  "Lovelace",
				"email":     "ada@example.com",
				"password":  "engine",
			}
			delete(payload, field)
			body, err := json.Marshal(payload)
			require.NoError(t, err)

			resp := env.do(t, http.MethodPost, "/register", string(body), nil)
			assert.Equal(t, http.StatusBadRequest, resp.status)
			assert.Equal(t, 0, env.store.Count())
		})
	}
}

func TestRouter_RegisterBlankField(t *testing.T) {
	for _, field := range []string{"firstName", "lastName", "email"} {
		t.Run(field, func(t *testing.T) {
			env := newTestEnv(t)

			payload := map[string]string{
				"firstName": "Ada",
				"lastName":  "Lovelace",
				"email":     "ada@example.com",
				"password":  "engine",
			}
			payload[field] = "   "
			body, err := json.Marshal(payload)
			require.NoError(t, err)

			resp := env.do(t, http.MethodPost, "/register", string(body), nil)
			assert.Equal(t, http.StatusBadRequest, resp.status, resp.body)
			assert.Equal(t, 0, env.store.Count())
		})
	}
}

func TestRouter_RegisterPasswordTooLong(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"73 ascii bytes", strings.Repeat("p", 73)},
		{"37 two-byte runes", strings.Repeat("é", 37)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			body, err := json.Marshal(map[string]string{
				"firstName": "Ada",
				"lastName":  "Lovelace",
				"email":     "ada@example.com",
				"password":  tt.password,
			})
			require.NoError(t, err)

			resp := env.do(t, http.MethodPost, "/register", string(body), nil)
			assert.Equal(t, http.StatusBadRequest, resp.status, resp.body)
			assert.Equal(t, 0, env.store.Count())
		})
	}
}

func TestRouter_LoginFailuresLookAlike(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/register", adaRegistration, nil).status)

	wrongPassword := env.do(t, http.MethodPost, "/login", `{"email":"ada@example.com","password":"nope"}`, nil)
	unknownEmail := env.do(t, http.MethodPost, "/login", `{"email":"ghost@example.com","password":"engine"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.status)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestRouter_WelcomeRejects(t *testing.T) {
	env := newTestEnv(t)
	reg := env.do(t, http.MethodPost, "/register", adaRegistration, nil)
	require.Equal(t, http.StatusOK, reg.status)
	tok := tokenFrom(t, reg.body)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	t.Run("no token", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/welcome", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})

	t.Run("tampered token", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/welcome", "", map[string]string{"Authorization": "Bearer " + tampered})
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})

	t.Run("fresh token", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/welcome", "", map[string]string{"Authorization": "Bearer " + tok})
		assert.Equal(t, http.StatusOK, resp.status)
	})

	t.Run("expired token", func(t *testing.T) {
		env.clock.Advance(5*time.Hour + time.Second)
		resp := env.do(t, http.MethodGet, "/welcome", "", map[string]string{"Authorization": "Bearer " + tok})
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})
}

func TestRouter_BodyLimit(t *testing.T) {
	env := newTestEnv(t)

	big := `{"firstName":"` + strings.Repeat("a", 2048) + `","lastName":"L","email":"e@x.y","password":"p"}`
	resp := env.do(t, http.MethodPost, "/register", big, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.status)
	assert.Equal(t, 0, env.store.Count())
}

func TestRouter_UnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.JSONEq(t, `{"message":"Cannot GET /nope"}`, resp.body)
}
