package httpctx

import (
	"context"

	"villagevoice/internal/domain"
)

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Principal returns the authenticated caller, or (nil, false) for anonymous
// requests.
func Principal(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(*domain.Principal)
	return p, ok && p != nil
}
