package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

// RedisSnapshotCache keeps snapshots in redis so every instance shares one
// copy and Shopify is paged through once per TTL.
type RedisSnapshotCache struct {
	client *redis.Client
	config catalog.CacheConfig
	logger *zap.Logger
}

// RedisSnapshotCacheOption configures a RedisSnapshotCache
type RedisSnapshotCacheOption func(*RedisSnapshotCache)

// WithRedisCacheConfig sets the cache configuration
func WithRedisCacheConfig(cfg catalog.CacheConfig) RedisSnapshotCacheOption {
	return func(c *RedisSnapshotCache) {
		c.config = cfg
	}
}

// WithRedisCacheLogger sets the logger
func WithRedisCacheLogger(logger *zap.Logger) RedisSnapshotCacheOption {
	return func(c *RedisSnapshotCache) {
		c.logger = logger
	}
}

// NewRedisSnapshotCache wraps an existing client. The caller owns the client.
func NewRedisSnapshotCache(client *redis.Client, opts ...RedisSnapshotCacheOption) *RedisSnapshotCache {
	c := &RedisSnapshotCache{
		client: client,
		config: catalog.DefaultCacheConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisSnapshotCache) key(shop string) string {
	return c.config.KeyPrefix + shop
}

// Get loads the snapshot for a shop. A corrupt entry is deleted and
// reported as an error.
func (c *RedisSnapshotCache) Get(ctx context.Context, shop string) (*catalog.Snapshot, error) {
	data, err := c.client.Get(ctx, c.key(shop)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("L2 snapshot miss", zap.String("shop", shop))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot from cache: %w", err)
	}

	var snapshot catalog.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.Error("Corrupt snapshot in cache", zap.String("shop", shop), zap.Error(err))
		_ = c.client.Del(ctx, c.key(shop))
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// Set stores the snapshot. A zero ttl uses SnapshotTTL.
func (c *RedisSnapshotCache) Set(ctx context.Context, shop string, snapshot *catalog.Snapshot, ttl time.Duration) error {
	if snapshot == nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.config.SnapshotTTL
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key(shop), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	c.logger.Debug("Stored snapshot in L2",
		zap.String("shop", shop),
		zap.Int("products", len(snapshot.Products)),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Delete removes the snapshot for a shop
func (c *RedisSnapshotCache) Delete(ctx context.Context, shop string) error {
	if err := c.client.Del(ctx, c.key(shop)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

var _ catalog.SnapshotCache = (*RedisSnapshotCache)(nil)
