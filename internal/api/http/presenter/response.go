package presenter

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/authgate/internal/apierrors"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string `json:"message"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

// APIError renders err. Errors that are not *apierrors.APIError become a
// generic 500 so internal details never reach the client.
func APIError(c *fiber.Ctx, err error) error {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierrors.NewErrInternalServerError(err)
	}
	return Error(c, apiErr.Status, apiErr.Message)
}

// ErrorHandler is the fiber error handler: it answers every error returned
// from the handler chain, so a failed request is never left without a response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return Error(c, fiberErr.Code, fiberErr.Message)
	}
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return Error(c, apiErr.Status, apiErr.Message)
	}
	return Error(c, http.StatusInternalServerError, "internal server error")
}
