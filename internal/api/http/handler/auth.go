package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/authgate/internal/api/http/presenter"
	"github.com/dtroode/authgate/internal/apierrors"
	"github.com/dtroode/authgate/internal/logger"
	"github.com/dtroode/authgate/internal/service"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) (service.AuthResult, error)
	Login(ctx context.Context, params service.LoginParams) (service.AuthResult, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
	Email     string `json:"email" validate:"required,notblank"`
	Password  string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is returned by register and login. It never carries the password hash.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Token     string `json:"token"`
}

func newUserResponse(res service.AuthResult) UserResponse {
	return UserResponse{
		ID:        res.User.ID.String(),
		FirstName: res.User.FirstName,
		LastName:  res.User.LastName,
		Email:     res.User.Email,
		Token:     res.Token,
	}
}

// Register creates an account and returns it with an access token.
func (h *Auth) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.APIError(c, apierrors.NewErrBadRequest("invalid JSON payload"))
	}
	if err := validateRequest(req); err != nil {
		return presenter.APIError(c, err)
	}

	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	result, err := h.authService.Register(c.UserContext(), service.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.logFailure("Auth handler: registration failed", err)
		return presenter.APIError(c, err)
	}

	h.logger.Info("Auth handler: registration completed",
		"user_id", result.User.ID.String())

	return presenter.JSON(c, http.StatusOK, newUserResponse(result))
}

// Login authenticates credentials and returns the user with an access token.
func (h *Auth) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.APIError(c, apierrors.NewErrBadRequest("invalid JSON payload"))
	}
	if err := validateRequest(req); err != nil {
		return presenter.APIError(c, err)
	}

	h.logger.Debug("Auth handler: processing login request",
		"email", req.Email)

	result, err := h.authService.Login(c.UserContext(), service.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logFailure("Auth handler: login failed", err)
		return presenter.APIError(c, err)
	}

	h.logger.Info("Auth handler: login completed",
		"user_id", result.User.ID.String())

	return presenter.JSON(c, http.StatusOK, newUserResponse(result))
}

// logFailure reports client errors at info level and server errors at error
// level. Request emails are left out of both.
func (h *Auth) logFailure(msg string, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		h.logger.Info(msg,
			"status", apiErr.Status,
			"reason", apiErr.Message)
		return
	}
	h.logger.Error(msg,
		"error", err.Error())
}
