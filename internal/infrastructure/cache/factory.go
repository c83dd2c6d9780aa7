package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/config"
)

// Stack is the cache wiring for the server: the snapshot cache and the
// idempotency store, backed by redis when it is enabled and reachable.
type Stack struct {
	Snapshots   *TieredSnapshotCache
	Idempotency shared.IdempotencyStore
	Redis       *redis.Client
}

// FactoryOption configures Build
type FactoryOption func(*factory)

type factory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable redis falls back to
// process-local stores. Default true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *factory) {
		f.allowInMemoryFallback = allow
	}
}

// ToCatalogConfig maps the config section onto the domain cache config
func ToCatalogConfig(cfg config.CacheConfig) catalog.CacheConfig {
	out := catalog.DefaultCacheConfig()
	if cfg.SnapshotTTL > 0 {
		out.SnapshotTTL = cfg.SnapshotTTL
	}
	if cfg.L1TTL > 0 {
		out.L1TTL = cfg.L1TTL
	}
	if cfg.CleanupInterval > 0 {
		out.CleanupInterval = cfg.CleanupInterval
	}
	return out
}

// Build creates the cache stack
func Build(ctx context.Context, redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...FactoryOption) (*Stack, error) {
	f := &factory{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(f)
	}
	cc := ToCatalogConfig(cacheCfg)
	l1 := NewInMemorySnapshotCache(WithInMemoryConfig(cc), WithInMemoryLogger(f.logger))

	var client *redis.Client
	if redisCfg.Enabled {
		c, err := NewRedisClient(ctx, redisCfg)
		switch {
		case err == nil:
			client = c
		case !f.allowInMemoryFallback:
			_ = l1.Close()
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		default:
			f.logger.Warn("Redis unavailable, using in-memory caches. "+
				"Snapshots and idempotency keys are not shared between instances.",
				zap.Error(err))
		}
	}

	if client == nil {
		return &Stack{
			Snapshots:   NewTieredSnapshotCache(l1, nil, nil, WithTieredConfig(cc), WithTieredLogger(f.logger)),
			Idempotency: NewInMemoryIdempotencyStore(cc.CleanupInterval),
		}, nil
	}

	f.logger.Info("Using Redis caches", zap.String("addr", redisCfg.Addr()))
	l2 := NewRedisSnapshotCache(client, WithRedisCacheConfig(cc), WithRedisCacheLogger(f.logger))
	inv := NewRedisSnapshotInvalidator(client,
		WithInvalidatorChannel(cc.PubSubChannel),
		WithInvalidatorLogger(f.logger))
	return &Stack{
		Snapshots:   NewTieredSnapshotCache(l1, l2, inv, WithTieredConfig(cc), WithTieredLogger(f.logger)),
		Idempotency: NewRedisIdempotencyStore(client, ""),
		Redis:       client,
	}, nil
}

// Close releases every resource of the stack
func (s *Stack) Close() error {
	_ = s.Snapshots.Close()
	_ = s.Idempotency.Close()
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}
