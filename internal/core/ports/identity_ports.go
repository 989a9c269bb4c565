package ports

import (
	"context"

	"github.com/pollwise/api/internal/core/domain"
)

// IdentityProvider resolves the caller's identity. A nil return means
// anonymous; a missing session is a valid state, not an error.
type IdentityProvider interface {
	Current(ctx context.Context) *domain.Identity
}
