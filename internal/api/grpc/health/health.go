// Package health reports user store readiness over the standard gRPC health protocol.
package health

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/authgate/internal/logger"
)

// ServiceName is the health service name reported alongside the overall ("") status.
const ServiceName = "authgate"

// Pinger checks connectivity of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker periodically pings the store and publishes the result to a gRPC health server.
type Checker struct {
	store    Pinger
	server   *health.Server
	interval time.Duration
	logger   *logger.Logger
}

// NewChecker creates a Checker. The health server starts in NOT_SERVING
// until the first successful ping.
func NewChecker(store Pinger, interval time.Duration, logger *logger.Logger) *Checker {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	c := &Checker{
		store:    store,
		server:   health.NewServer(),
		interval: interval,
		logger:   logger,
	}
	c.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return c
}

// Server returns the health server to register on a gRPC server.
func (c *Checker) Server() *health.Server {
	return c.server
}

// Run checks the store immediately and then every interval until ctx is done.
// On return the status is switched to NOT_SERVING.
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Check pings the store once and updates the published status.
func (c *Checker) Check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.interval)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		c.logger.Warn("Health checker: store is unavailable",
			"error", err.Error())
		c.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	c.setStatus(healthpb.HealthCheckResponse_SERVING)
}

func (c *Checker) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)
}
