package integration

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/pollwise/api/internal/adapters/cache"
)

func TestRedisInvalidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	defer func() {
		if err := redisContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	connStr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(connStr)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	// Seed rendered pages the way a frontend cache would.
	seed := map[string]string{
		"page:/dashboard":    "<html>dashboard</html>",
		"page:/polls/abc123": "<html>poll</html>",
		"page:/polls/kept":   "<html>untouched</html>",
	}
	for key, value := range seed {
		require.NoError(t, client.Set(ctx, key, value, time.Hour).Err())
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	invalidator := cache.NewRedisInvalidator(client, logger)

	invalidator.Invalidate(ctx, "/dashboard", "/polls/abc123")

	for _, key := range []string{"page:/dashboard", "page:/polls/abc123"} {
		exists, err := client.Exists(ctx, key).Result()
		require.NoError(t, err)
		assert.Zero(t, exists, "%s is evicted", key)
	}

	exists, err := client.Exists(ctx, "page:/polls/kept").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "unrelated pages stay cached")
}
