// Package identity resolves the caller's authenticated identity from the
// request context. Absence of a session is a valid anonymous state.
package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/pollwise/api/internal/core/domain"
	"github.com/pollwise/api/internal/core/ports"
)

type ctxKey struct{}

// WithIdentity attaches an authenticated identity to the context; the
// session middleware calls this after validating the access token.
func WithIdentity(ctx context.Context, ident *domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, ident)
}

// FromContext returns the identity attached to ctx, or nil.
func FromContext(ctx context.Context) *domain.Identity {
	ident, _ := ctx.Value(ctxKey{}).(*domain.Identity)
	return ident
}

// DevIdentity is returned for anonymous callers when dev mode is on. It is
// a local-development convenience, not a security boundary.
var DevIdentity = domain.Identity{
	ID:    uuid.MustParse("00000000-0000-0000-0000-000000000001"),
	Email: "admin@example.com",
}

type Provider struct {
	devMode bool
}

// NewProvider builds the identity provider. devMode must never be set
// outside local development; it is threaded in explicitly so the bypass is
// visible at the wiring site rather than hidden in business logic.
func NewProvider(devMode bool) *Provider {
	return &Provider{devMode: devMode}
}

func (p *Provider) Current(ctx context.Context) *domain.Identity {
	if ident := FromContext(ctx); ident != nil {
		return ident
	}
	if p.devMode {
		ident := DevIdentity
		return &ident
	}
	return nil
}

var _ ports.IdentityProvider = (*Provider)(nil)
