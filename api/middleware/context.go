package middleware

import (
	"context"

	"github.com/mussa52/madalali-tz/internal/access"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// PrincipalFromContext returns the authenticated principal, or nil when the
// request carried no valid credentials.
func PrincipalFromContext(ctx context.Context) *access.Principal {
	if ctx == nil {
		return nil
	}
	if p, ok := ctx.Value(ctxPrincipal).(*access.Principal); ok {
		return p
	}
	return nil
}

// WithPrincipal injects the authenticated principal into the context.
func WithPrincipal(ctx context.Context, p *access.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}
