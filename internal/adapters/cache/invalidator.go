// Package cache signals page-cache invalidation after successful
// mutations. The signal is best-effort: failures are logged and never
// surface to the caller.
package cache

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/pollwise/api/internal/core/ports"
)

const pageKeyPrefix = "page:"

type RedisInvalidator struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisInvalidator(client *redis.Client, logger *slog.Logger) *RedisInvalidator {
	return &RedisInvalidator{client: client, logger: logger}
}

func (c *RedisInvalidator) Invalidate(ctx context.Context, paths ...string) {
	keys := pageKeys(paths)
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}

// pageKeys maps paths to cache keys, dropping duplicates so each view is
// signalled at most once per mutation.
func pageKeys(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		key := pageKeyPrefix + path
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// Noop satisfies the invalidator port when no cache is configured.
type Noop struct{}

func (Noop) Invalidate(context.Context, ...string) {}

var (
	_ ports.CacheInvalidator = (*RedisInvalidator)(nil)
	_ ports.CacheInvalidator = Noop{}
)
