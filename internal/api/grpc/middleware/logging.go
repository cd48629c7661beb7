package middleware

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/authgate/internal/logger"
)

// InterceptorLogger adapts the application logger to go-grpc-middleware logging.
func InterceptorLogger(l *logger.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}

// RecoveryHandler turns a panic in a gRPC handler into an Internal status and logs it.
func RecoveryHandler(l *logger.Logger) func(p any) error {
	return func(p any) error {
		l.Error("gRPC handler panicked",
			"panic", fmt.Sprint(p))
		return status.Error(codes.Internal, "internal server error")
	}
}
