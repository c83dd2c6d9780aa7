package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

type snapshotEntry struct {
	snapshot  *catalog.Snapshot
	expiresAt time.Time
}

func (e *snapshotEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemorySnapshotCache is the per-process L1 cache
type InMemorySnapshotCache struct {
	entries sync.Map // shop -> *snapshotEntry
	config  catalog.CacheConfig
	logger  *zap.Logger
	now     func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	hits   int64
	misses int64
}

// InMemorySnapshotCacheOption configures an InMemorySnapshotCache
type InMemorySnapshotCacheOption func(*InMemorySnapshotCache)

// WithInMemoryConfig sets the cache configuration
func WithInMemoryConfig(cfg catalog.CacheConfig) InMemorySnapshotCacheOption {
	return func(c *InMemorySnapshotCache) {
		c.config = cfg
	}
}

// WithInMemoryLogger sets the logger
func WithInMemoryLogger(logger *zap.Logger) InMemorySnapshotCacheOption {
	return func(c *InMemorySnapshotCache) {
		c.logger = logger
	}
}

// withClock overrides time.Now in tests
func withClock(now func() time.Time) InMemorySnapshotCacheOption {
	return func(c *InMemorySnapshotCache) {
		c.now = now
	}
}

// NewInMemorySnapshotCache creates the cache and starts the sweeper
func NewInMemorySnapshotCache(opts ...InMemorySnapshotCacheOption) *InMemorySnapshotCache {
	c := &InMemorySnapshotCache{
		config: catalog.DefaultCacheConfig(),
		logger: zap.NewNop(),
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.config.CleanupInterval <= 0 {
		c.config.CleanupInterval = catalog.DefaultCacheConfig().CleanupInterval
	}

	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

// Get returns the cached snapshot or nil
func (c *InMemorySnapshotCache) Get(_ context.Context, shop string) (*catalog.Snapshot, error) {
	if v, ok := c.entries.Load(shop); ok {
		e := v.(*snapshotEntry)
		if !e.expired(c.now()) {
			atomic.AddInt64(&c.hits, 1)
			return e.snapshot, nil
		}
		c.entries.Delete(shop)
	}
	atomic.AddInt64(&c.misses, 1)
	return nil, nil
}

// Set stores a snapshot. A zero ttl uses L1TTL.
func (c *InMemorySnapshotCache) Set(_ context.Context, shop string, snapshot *catalog.Snapshot, ttl time.Duration) error {
	if snapshot == nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.config.L1TTL
	}
	c.entries.Store(shop, &snapshotEntry{snapshot: snapshot, expiresAt: c.now().Add(ttl)})
	return nil
}

// Delete drops one shop's snapshot
func (c *InMemorySnapshotCache) Delete(_ context.Context, shop string) error {
	c.entries.Delete(shop)
	return nil
}

// InvalidateAll drops every snapshot
func (c *InMemorySnapshotCache) InvalidateAll() {
	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)
		return true
	})
}

// Stats returns hit and miss counts
func (c *InMemorySnapshotCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Size returns the number of stored entries, expired ones included
func (c *InMemorySnapshotCache) Size() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close stops the sweeper. Safe to call more than once.
func (c *InMemorySnapshotCache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemorySnapshotCache) cleanupLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *InMemorySnapshotCache) sweep() {
	now := c.now()
	removed := 0
	c.entries.Range(func(k, v any) bool {
		if v.(*snapshotEntry).expired(now) {
			c.entries.Delete(k)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("Swept expired snapshots", zap.Int("removed", removed))
	}
}

var _ catalog.SnapshotCache = (*InMemorySnapshotCache)(nil)
