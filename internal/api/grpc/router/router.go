package router

import (
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/authgate/internal/api/grpc/middleware"
	"github.com/dtroode/authgate/internal/logger"
)

// Router builds the gRPC server that exposes the health service.
type Router struct {
	healthServer *health.Server
	logger       *logger.Logger
}

// New creates new gRPC Router instance.
func New(healthServer *health.Server, logger *logger.Logger) *Router {
	return &Router{
		healthServer: healthServer,
		logger:       logger,
	}
}

// Register returns a gRPC server with logging and panic recovery interceptors
// and the health service registered.
func (r *Router) Register() *grpc.Server {
	interceptorLogger := middleware.InterceptorLogger(r.logger)
	recoveryOpt := recovery.WithRecoveryHandler(middleware.RecoveryHandler(r.logger))

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(interceptorLogger, logging.WithLogOnEvents(logging.FinishCall)),
			recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			logging.StreamServerInterceptor(interceptorLogger, logging.WithLogOnEvents(logging.FinishCall)),
			recovery.StreamServerInterceptor(recoveryOpt),
		),
	)
	healthpb.RegisterHealthServer(s, r.healthServer)

	return s
}
