package model

import (
	"context"
	"net"
)

// SecurityLayer opens listeners, plain or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a long-running listener started by main and stopped on shutdown.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
