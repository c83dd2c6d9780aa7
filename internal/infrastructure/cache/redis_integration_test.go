//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/config"
)

func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{Enabled: true, Host: host, Port: port.Int()}
}

func TestRedisStack(t *testing.T) {
	redisCfg := startRedis(t)
	ctx := context.Background()

	a, err := Build(ctx, redisCfg, config.CacheConfig{}, WithInMemoryFallback(false))
	require.NoError(t, err)
	defer a.Close()
	b, err := Build(ctx, redisCfg, config.CacheConfig{}, WithInMemoryFallback(false))
	require.NoError(t, err)
	defer b.Close()

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = b.Snapshots.StartInvalidationSubscription(subCtx) }()

	t.Run("snapshot shared through L2", func(t *testing.T) {
		snap := &catalog.Snapshot{Shop: "s", Products: []catalog.Product{{ID: "gid://shopify/Product/1", Title: "Misty River"}}}
		require.NoError(t, a.Snapshots.Set(ctx, "s", snap, time.Minute))

		got, err := b.Snapshots.Get(ctx, "s")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Misty River", got.Products[0].Title)
	})

	t.Run("invalidation reaches other instance", func(t *testing.T) {
		// give the subscriber time to attach
		time.Sleep(200 * time.Millisecond)
		require.NoError(t, a.Snapshots.Invalidate(ctx, "s", "test"))

		assert.Eventually(t, func() bool {
			got, _ := b.Snapshots.l1.Get(ctx, "s")
			return got == nil
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("idempotency shared", func(t *testing.T) {
		ok, err := a.Idempotency.MarkProcessed(ctx, "webhook:abc", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = b.Idempotency.MarkProcessed(ctx, "webhook:abc", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
