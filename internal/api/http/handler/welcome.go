package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/authgate/internal/api/http/presenter"
	"github.com/dtroode/authgate/internal/apierrors"
	"github.com/dtroode/authgate/internal/logger"
	"github.com/dtroode/authgate/internal/model"
)

const welcomeMessage = "Welcome 🙌"

// Welcome serves the protected greeting.
type Welcome struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewWelcome(contextManager model.ContextManager, logger *logger.Logger) *Welcome {
	return &Welcome{contextManager: contextManager, logger: logger}
}

func (h *Welcome) Get(c *fiber.Ctx) error {
	claims, ok := h.contextManager.GetClaimsFromContext(c.UserContext())
	if !ok {
		// only reachable if the route is mounted without Authenticate
		return presenter.APIError(c, apierrors.NewErrMissingAuthorizationToken())
	}

	h.logger.Debug("Welcome handler: greeting user",
		"user_id", claims.UserID.String())

	return c.Status(http.StatusOK).SendString(welcomeMessage)
}
