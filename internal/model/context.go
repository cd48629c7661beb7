package model

import "context"

// ContextManager stores verified token claims on a request context.
type ContextManager interface {
	SetClaimsToContext(ctx context.Context, claims Claims) context.Context
	GetClaimsFromContext(ctx context.Context) (Claims, bool)
}
