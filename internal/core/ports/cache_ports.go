package ports

import "context"

// CacheInvalidator signals which externally-cached views must be
// recomputed after a mutation. Best-effort: implementations log failures
// and never gate the mutation result.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}
