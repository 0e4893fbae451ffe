package model

import (
	"context"
)

// ContextManager stores and loads the authenticated identity of a request.
type ContextManager interface {
	SetClaimsToContext(ctx context.Context, claims Claims) context.Context
	GetClaimsFromContext(ctx context.Context) (Claims, bool)
}
