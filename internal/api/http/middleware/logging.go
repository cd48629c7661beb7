package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/authgate/internal/logger"
)

// Logging logs every HTTP request with its outcome and tags it with a request ID.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, status and duration for each request.
func (l *Logging) Handle(c *fiber.Ctx) error {
	start := time.Now()

	requestID := c.Get(fiber.HeaderXRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, requestID)

	err := c.Next()

	statusCode := c.Response().StatusCode()
	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			statusCode = fiberErr.Code
		} else {
			statusCode = http.StatusInternalServerError
		}
	}

	attrs := []any{
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"status", statusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	}

	switch {
	case err != nil:
		l.logger.Error("HTTP request failed", append(attrs, "error", err.Error())...)
	case statusCode >= http.StatusInternalServerError:
		l.logger.Error("HTTP request completed", attrs...)
	default:
		l.logger.Info("HTTP request completed", attrs...)
	}

	return err
}
