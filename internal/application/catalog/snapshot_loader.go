package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/telemetry"
)

// Invalidation reasons
const (
	ReasonProductUpdate = "product_update"
	ReasonInventorySet  = "inventory_set"
	ReasonSampleCreate  = "sample_create"
	ReasonWebhook       = "webhook"
	ReasonManual        = "manual_refresh"
)

// SnapshotStore caches snapshots and can broadcast invalidations
type SnapshotStore interface {
	catalog.SnapshotCache
	Invalidate(ctx context.Context, shop, reason string) error
}

// SnapshotLoaderConfig configures SnapshotLoader
type SnapshotLoaderConfig struct {
	Shop       string
	TTL        time.Duration
	LocationID uint64 // stock is read for this location; 0 skips stock
}

// SnapshotLoader loads the whole catalog once and serves it from cache
// until something invalidates it.
type SnapshotLoader struct {
	platform integration.StorePlatform
	cache    SnapshotStore
	config   SnapshotLoaderConfig
	group    singleflight.Group
	now      func() time.Time

	// generation counts invalidations; a load only caches its result if
	// none happened while it was fetching.
	genMu      sync.Mutex
	generation uint64

	logger   *zap.Logger
}

// NewSnapshotLoader creates a SnapshotLoader
func NewSnapshotLoader(
	platform integration.StorePlatform,
	cache SnapshotStore,
	config SnapshotLoaderConfig,
	logger *zap.Logger,
) *SnapshotLoader {
	if config.TTL <= 0 {
		config.TTL = catalog.DefaultCacheConfig().SnapshotTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotLoader{
		platform: platform,
		cache:    cache,
		config:   config,
		now:      time.Now,
		logger:   logger,
	}
}

// Shop returns the shop domain snapshots are keyed by
func (l *SnapshotLoader) Shop() string {
	return l.config.Shop
}

// Get returns the cached snapshot, loading it on a miss. Concurrent misses
// share one load.
func (l *SnapshotLoader) Get(ctx context.Context) (*catalog.Snapshot, error) {
	snap, err := l.cache.Get(ctx, l.config.Shop)
	if err != nil {
		l.logger.Warn("Snapshot cache read failed, loading from store", zap.Error(err))
	}
	if snap != nil {
		return snap, nil
	}

	v, err, dup := l.group.Do(l.config.Shop, func() (any, error) {
		return l.load(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	if dup {
		l.logger.Debug("Snapshot load shared with concurrent caller")
	}
	return v.(*catalog.Snapshot), nil
}

// Refresh drops the cached snapshot everywhere and loads a fresh one
func (l *SnapshotLoader) Refresh(ctx context.Context) (*catalog.Snapshot, error) {
	l.Invalidate(ctx, ReasonManual)
	return l.Get(ctx)
}

// Invalidate drops the snapshot locally and on every other instance.
// Failures are logged; a stale snapshot expires on its own.
func (l *SnapshotLoader) Invalidate(ctx context.Context, reason string) {
	l.genMu.Lock()
	l.generation++
	l.genMu.Unlock()

	l.group.Forget(l.config.Shop)
	if err := l.cache.Invalidate(ctx, l.config.Shop, reason); err != nil {
		l.logger.Warn("Snapshot invalidation failed",
			zap.String("shop", l.config.Shop),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
}

func (l *SnapshotLoader) load(ctx context.Context) (_ *catalog.Snapshot, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "snapshot", "load", telemetry.AttrShop.String(l.config.Shop))
	defer telemetry.End(span, &err)

	start := l.now()
	gen := l.currentGeneration()
	snap := &catalog.Snapshot{Shop: l.config.Shop}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := l.platform.ListProducts(gctx)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		snap.Products = products
		return nil
	})
	g.Go(func() error {
		collections, err := l.platform.ListCollections(gctx)
		if err != nil {
			return fmt.Errorf("load collections: %w", err)
		}
		snap.Collections = collections
		return nil
	})
	g.Go(func() error {
		locations, err := l.platform.ListLocations(gctx)
		if err != nil {
			return fmt.Errorf("load locations: %w", err)
		}
		snap.Locations = locations
		return nil
	})
	if l.config.LocationID != 0 {
		g.Go(func() error {
			levels, err := l.platform.ListInventoryLevels(gctx, l.config.LocationID)
			if err != nil {
				return fmt.Errorf("load inventory levels: %w", err)
			}
			snap.Levels = levels
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	snap.FetchedAt = l.now()

	if err := l.store(ctx, snap, gen); err != nil {
		l.logger.Warn("Snapshot cache write failed", zap.Error(err))
	}
	l.logger.Info("Catalog snapshot loaded",
		zap.String("shop", l.config.Shop),
		zap.Int("products", len(snap.Products)),
		zap.Int("collections", len(snap.Collections)),
		zap.Int("locations", len(snap.Locations)),
		zap.Int("levels", len(snap.Levels)),
		zap.Duration("took", snap.FetchedAt.Sub(start)),
	)
	return snap, nil
}

func (l *SnapshotLoader) currentGeneration() uint64 {
	l.genMu.Lock()
	defer l.genMu.Unlock()
	return l.generation
}

// store caches snap unless an invalidation arrived after gen was read. The
// lock keeps Invalidate from slipping in between the check and the write.
func (l *SnapshotLoader) store(ctx context.Context, snap *catalog.Snapshot, gen uint64) error {
	l.genMu.Lock()
	defer l.genMu.Unlock()
	if l.generation != gen {
		l.logger.Debug("Snapshot invalidated while loading, not caching",
			zap.String("shop", l.config.Shop),
		)
		return nil
	}
	return l.cache.Set(ctx, l.config.Shop, snap, l.config.TTL)
}
