package testutil

import (
	"io"

	"github.com/dtroode/authgate/internal/logger"
)

// MakeNoopLogger returns a logger that discards all output.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithFormat(io.Discard, 0, "text")
}
