package context

import (
	"context"

	"github.com/dtroode/authgate/internal/model"
)

type claimsKey struct{}

// Manager stores verified token claims on request contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetClaimsToContext returns a copy of ctx carrying claims.
func (m *Manager) SetClaimsToContext(ctx context.Context, claims model.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaimsFromContext returns the claims stored by SetClaimsToContext.
func (m *Manager) GetClaimsFromContext(ctx context.Context) (model.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(model.Claims)
	return claims, ok
}
