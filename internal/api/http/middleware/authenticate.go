package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/authgate/internal/api/http/presenter"
	"github.com/dtroode/authgate/internal/apierrors"
	"github.com/dtroode/authgate/internal/logger"
	"github.com/dtroode/authgate/internal/model"
)

const (
	headerAccessToken = "x-access-token"
	queryToken        = "token"
)

// TokenService resolves identity claims from bearer tokens.
type TokenService interface {
	GetClaims(ctx context.Context, token string) (model.Claims, error)
}

// Authenticate validates bearer tokens and injects claims into the request context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handle rejects the request with 401 unless it carries a valid token.
func (m *Authenticate) Handle(c *fiber.Ctx) error {
	ctx := c.UserContext()

	claims, authErr := m.authenticateUser(ctx, extractToken(c))
	if authErr != nil {
		m.logger.Debug("Authenticate middleware: request rejected",
			"path", c.Path(),
			"reason", authErr.Message)
		return presenter.APIError(c, authErr)
	}

	c.SetUserContext(m.contextManager.SetClaimsToContext(ctx, claims))
	return c.Next()
}

func (m *Authenticate) authenticateUser(ctx context.Context, tokenString string) (model.Claims, *apierrors.APIError) {
	if tokenString == "" {
		return model.Claims{}, apierrors.NewErrMissingAuthorizationToken()
	}

	claims, err := m.tokenService.GetClaims(ctx, tokenString)
	if err != nil {
		return model.Claims{}, apierrors.NewErrInvalidAuthorizationToken()
	}

	return claims, nil
}

// extractToken reads the token from the Authorization header ("Bearer <t>" or
// a bare token), then the x-access-token header, then the token query parameter.
func extractToken(c *fiber.Ctx) string {
	if header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); header != "" {
		if strings.EqualFold(header, "Bearer") {
			return ""
		}
		scheme, rest, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(rest)
		}
		return header
	}
	if token := strings.TrimSpace(c.Get(headerAccessToken)); token != "" {
		return token
	}
	return strings.TrimSpace(c.Query(queryToken))
}
