package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

// TieredSnapshotCache reads through L1 (process memory) then L2 (redis).
// Writes go to both tiers. Deletes are broadcast so other instances drop
// their L1 copy. L2 and the invalidator are optional.
type TieredSnapshotCache struct {
	l1          *InMemorySnapshotCache
	l2          catalog.SnapshotCache
	invalidator catalog.SnapshotInvalidator
	config      catalog.CacheConfig
	logger      *zap.Logger
	instanceID  string

	l1Hits   int64
	l2Hits   int64
	l2Misses int64
}

// TieredSnapshotCacheOption configures a TieredSnapshotCache
type TieredSnapshotCacheOption func(*TieredSnapshotCache)

// WithTieredConfig sets the cache configuration
func WithTieredConfig(cfg catalog.CacheConfig) TieredSnapshotCacheOption {
	return func(c *TieredSnapshotCache) {
		c.config = cfg
	}
}

// WithTieredLogger sets the logger
func WithTieredLogger(logger *zap.Logger) TieredSnapshotCacheOption {
	return func(c *TieredSnapshotCache) {
		c.logger = logger
	}
}

// NewTieredSnapshotCache combines the tiers. l2 and invalidator may be nil.
func NewTieredSnapshotCache(
	l1 *InMemorySnapshotCache,
	l2 catalog.SnapshotCache,
	invalidator catalog.SnapshotInvalidator,
	opts ...TieredSnapshotCacheOption,
) *TieredSnapshotCache {
	c := &TieredSnapshotCache{
		l1:          l1,
		l2:          l2,
		invalidator: invalidator,
		config:      catalog.DefaultCacheConfig(),
		logger:      zap.NewNop(),
		instanceID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get tries L1, then L2. An L2 hit is copied into L1.
func (c *TieredSnapshotCache) Get(ctx context.Context, shop string) (*catalog.Snapshot, error) {
	if s, _ := c.l1.Get(ctx, shop); s != nil {
		atomic.AddInt64(&c.l1Hits, 1)
		return s, nil
	}
	if c.l2 == nil {
		return nil, nil
	}

	s, err := c.l2.Get(ctx, shop)
	if err != nil {
		// L2 trouble degrades to a miss
		c.logger.Warn("L2 snapshot cache error", zap.String("shop", shop), zap.Error(err))
		atomic.AddInt64(&c.l2Misses, 1)
		return nil, nil
	}
	if s == nil {
		atomic.AddInt64(&c.l2Misses, 1)
		return nil, nil
	}
	atomic.AddInt64(&c.l2Hits, 1)
	_ = c.l1.Set(ctx, shop, s, c.config.L1TTL)
	return s, nil
}

// Set writes L1 with L1TTL and L2 with ttl (SnapshotTTL when zero)
func (c *TieredSnapshotCache) Set(ctx context.Context, shop string, snapshot *catalog.Snapshot, ttl time.Duration) error {
	if snapshot == nil {
		return nil
	}
	l1TTL := c.config.L1TTL
	if ttl > 0 && ttl < l1TTL {
		l1TTL = ttl
	}
	_ = c.l1.Set(ctx, shop, snapshot, l1TTL)
	if c.l2 == nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.config.SnapshotTTL
	}
	if err := c.l2.Set(ctx, shop, snapshot, ttl); err != nil {
		c.logger.Warn("Failed to write L2 snapshot", zap.String("shop", shop), zap.Error(err))
	}
	return nil
}

// Delete drops the snapshot in both tiers and notifies other instances
func (c *TieredSnapshotCache) Delete(ctx context.Context, shop string) error {
	return c.Invalidate(ctx, shop, "delete")
}

// Invalidate drops the snapshot everywhere. reason is logged by receivers.
func (c *TieredSnapshotCache) Invalidate(ctx context.Context, shop, reason string) error {
	_ = c.l1.Delete(ctx, shop)
	if c.l2 != nil {
		if err := c.l2.Delete(ctx, shop); err != nil {
			return err
		}
	}
	if c.invalidator != nil {
		if err := c.invalidator.Publish(ctx, catalog.InvalidationMessage{
			Shop:   shop,
			Reason: reason,
			Origin: c.instanceID,
		}); err != nil {
			c.logger.Warn("Failed to broadcast invalidation", zap.String("shop", shop), zap.Error(err))
		}
	}
	c.logger.Info("Snapshot invalidated", zap.String("shop", shop), zap.String("reason", reason))
	return nil
}

// StartInvalidationSubscription blocks, applying remote invalidations to L1.
// It returns immediately when no invalidator is configured.
func (c *TieredSnapshotCache) StartInvalidationSubscription(ctx context.Context) error {
	if c.invalidator == nil {
		return nil
	}
	return c.invalidator.Subscribe(ctx, c.handleInvalidation)
}

func (c *TieredSnapshotCache) handleInvalidation(msg catalog.InvalidationMessage) {
	if msg.Origin == c.instanceID {
		return
	}
	if msg.Shop == "" {
		c.l1.InvalidateAll()
	} else {
		_ = c.l1.Delete(context.Background(), msg.Shop)
	}
	c.logger.Debug("Applied remote invalidation",
		zap.String("shop", msg.Shop),
		zap.String("reason", msg.Reason))
}

// TieredStats reports hit counters
type TieredStats struct {
	L1Hits   int64 `json:"l1_hits"`
	L1Misses int64 `json:"l1_misses"`
	L2Hits   int64 `json:"l2_hits"`
	L2Misses int64 `json:"l2_misses"`
}

// Stats returns the hit counters
func (c *TieredSnapshotCache) Stats() TieredStats {
	_, l1Misses := c.l1.Stats()
	return TieredStats{
		L1Hits:   atomic.LoadInt64(&c.l1Hits),
		L1Misses: l1Misses,
		L2Hits:   atomic.LoadInt64(&c.l2Hits),
		L2Misses: atomic.LoadInt64(&c.l2Misses),
	}
}

// Close stops the L1 sweeper and the subscription
func (c *TieredSnapshotCache) Close() error {
	if c.invalidator != nil {
		_ = c.invalidator.Close()
	}
	return c.l1.Close()
}

var _ catalog.SnapshotCache = (*TieredSnapshotCache)(nil)
