package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

// SnapshotRefresher reloads the catalog snapshot from the platform
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

// SnapshotWarmerConfig holds configuration for the snapshot warmer
type SnapshotWarmerConfig struct {
	// Interval between refreshes. Zero disables the warmer.
	Interval time.Duration

	// Timeout bounds a single refresh
	Timeout time.Duration

	// WarmOnStart refreshes once right after Start
	WarmOnStart bool
}

// DefaultSnapshotWarmerConfig returns default configuration
func DefaultSnapshotWarmerConfig(interval time.Duration) SnapshotWarmerConfig {
	return SnapshotWarmerConfig{
		Interval:    interval,
		Timeout:     2 * time.Minute,
		WarmOnStart: true,
	}
}

// SnapshotWarmer refreshes the catalog snapshot in the background so the
// first grid request after a cache expiry does not pay for a full crawl.
type SnapshotWarmer struct {
	refresher SnapshotRefresher
	logger    *zap.Logger
	config    SnapshotWarmerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRunAt time.Time
	lastErr   error
}

// NewSnapshotWarmer creates a new snapshot warmer
func NewSnapshotWarmer(refresher SnapshotRefresher, logger *zap.Logger, config SnapshotWarmerConfig) *SnapshotWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}
	return &SnapshotWarmer{
		refresher: refresher,
		logger:    logger,
		config:    config,
	}
}

// Start starts the refresh loop. It is a no-op when already running or disabled.
func (s *SnapshotWarmer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if s.config.Interval <= 0 {
		s.mu.Unlock()
		s.logger.Info("Snapshot warmer is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Snapshot warmer started", zap.Duration("interval", s.config.Interval))
	return nil
}

// Stop stops the loop and waits for an in-flight refresh, bounded by ctx
func (s *SnapshotWarmer) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Snapshot warmer stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Snapshot warmer stop timed out")
		return ctx.Err()
	}
}

func (s *SnapshotWarmer) run(ctx context.Context) {
	defer s.wg.Done()

	if s.config.WarmOnStart {
		s.execute(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Snapshot warmer loop stopping")
			return
		case <-ticker.C:
			s.execute(ctx)
		}
	}
}

func (s *SnapshotWarmer) execute(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	snap, err := s.refresher.Refresh(runCtx)

	s.mu.Lock()
	s.lastRunAt = start
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("Snapshot refresh failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return
	}
	s.logger.Debug("Snapshot refreshed",
		zap.Int("products", len(snap.Products)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// TriggerImmediate runs one refresh synchronously
func (s *SnapshotWarmer) TriggerImmediate(ctx context.Context) error {
	s.execute(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// IsRunning reports whether the loop is active
func (s *SnapshotWarmer) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// LastRun returns when the last refresh started and how it ended
func (s *SnapshotWarmer) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt, s.lastErr
}
