package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dtroode/authgate/internal/apierrors"
	"github.com/dtroode/authgate/internal/logger"
	"github.com/dtroode/authgate/internal/model"
)

// RegisterParams holds registration input.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginParams holds login input.
type LoginParams struct {
	Email    string
	Password string
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	User  model.User
	Token string
}

type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	logger       *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func errPasswordTooLong() error {
	return apierrors.NewErrBadRequest(fmt.Sprintf("password must be at most %d bytes", model.MaxPasswordLength))
}

// Register creates a new user and issues an access token for it.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (AuthResult, error) {
	email := normalizeEmail(params.Email)
	firstName := strings.TrimSpace(params.FirstName)
	lastName := strings.TrimSpace(params.LastName)
	if firstName == "" || lastName == "" || email == "" || params.Password == "" {
		return AuthResult{}, apierrors.NewErrBadRequest("all fields are required")
	}
	if len(params.Password) > model.MaxPasswordLength {
		return AuthResult{}, errPasswordTooLong()
	}

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	_, err := a.userStore.GetByEmail(ctx, email)
	switch {
	case err == nil:
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return AuthResult{}, apierrors.NewErrEmailIsTaken(email)
	case !errors.Is(err, model.ErrNotFound):
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return AuthResult{}, apierrors.NewErrStoreUnavailable(err)
	}

	passwordHash, err := a.hasher.Hash(params.Password)
	if errors.Is(err, model.ErrPasswordTooLong) {
		return AuthResult{}, errPasswordTooLong()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", email,
			"error", err.Error())
		return AuthResult{}, apierrors.NewErrInternalServerError(err)
	}

	user, err := a.userStore.Create(ctx, model.NewUser{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
	})
	if errors.Is(err, model.ErrDuplicateKey) {
		// Lost the race against a concurrent registration for the same email.
		a.logger.Info("Auth service: user created concurrently",
			"email", email)
		return AuthResult{}, apierrors.NewErrEmailIsTaken(email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return AuthResult{}, apierrors.NewErrStoreUnavailable(err)
	}

	token, err := a.issueToken(user)
	if err != nil {
		return AuthResult{}, err
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"email", email,
		"user_id", user.ID.String())

	return AuthResult{User: user, Token: token}, nil
}

// Login authenticates the user by email and password and issues an access token.
// Unknown email and wrong password produce the same error.
func (a *Auth) Login(ctx context.Context, params LoginParams) (AuthResult, error) {
	email := normalizeEmail(params.Email)
	if email == "" || params.Password == "" {
		return AuthResult{}, apierrors.NewErrBadRequest("email and password are required")
	}

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.burnHash(params.Password)
		a.logger.Debug("Auth service: login failed",
			"email", email)
		return AuthResult{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return AuthResult{}, apierrors.NewErrStoreUnavailable(err)
	}

	if !a.hasher.Verify(params.Password, user.PasswordHash) {
		a.logger.Debug("Auth service: login failed",
			"email", email)
		return AuthResult{}, apierrors.NewErrInvalidCredentials()
	}

	token, err := a.issueToken(user)
	if err != nil {
		return AuthResult{}, err
	}

	a.logger.Info("Auth service: login completed successfully",
		"email", email,
		"user_id", user.ID.String())

	return AuthResult{User: user, Token: token}, nil
}

func (a *Auth) issueToken(user model.User) (string, error) {
	token, err := a.tokenManager.Issue(user.ID, user.Email)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID.String(),
			"error", err.Error())
		return "", apierrors.NewErrInternalServerError(err)
	}
	return token, nil
}

// burnHash runs a verification against a throwaway hash so that a login for an
// unknown email costs about as much as one with a wrong password.
func (a *Auth) burnHash(password string) {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash("authgate-dummy-password")
		if err == nil {
			a.dummyHash = hash
		}
	})
	if a.dummyHash != "" {
		a.hasher.Verify(password, a.dummyHash)
	}
}
