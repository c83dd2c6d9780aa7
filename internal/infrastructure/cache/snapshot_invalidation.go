package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

const defaultCloseTimeout = 5 * time.Second

// ErrSubscriptionRunning is returned by a second Subscribe call
var ErrSubscriptionRunning = errors.New("cache: invalidation subscription already running")

// RedisSnapshotInvalidator broadcasts snapshot invalidations over redis
// pub/sub so every instance drops its L1 copy.
type RedisSnapshotInvalidator struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger

	mu       sync.Mutex
	running  bool
	cancelFn context.CancelFunc
	doneCh   chan struct{}
}

// RedisSnapshotInvalidatorOption configures a RedisSnapshotInvalidator
type RedisSnapshotInvalidatorOption func(*RedisSnapshotInvalidator)

// WithInvalidatorChannel sets the pub/sub channel
func WithInvalidatorChannel(channel string) RedisSnapshotInvalidatorOption {
	return func(i *RedisSnapshotInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger
func WithInvalidatorLogger(logger *zap.Logger) RedisSnapshotInvalidatorOption {
	return func(i *RedisSnapshotInvalidator) {
		i.logger = logger
	}
}

// NewRedisSnapshotInvalidator wraps an existing client. The caller owns it.
func NewRedisSnapshotInvalidator(client *redis.Client, opts ...RedisSnapshotInvalidatorOption) *RedisSnapshotInvalidator {
	i := &RedisSnapshotInvalidator{
		client:  client,
		channel: catalog.DefaultCacheConfig().PubSubChannel,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Publish sends an invalidation to all subscribers
func (i *RedisSnapshotInvalidator) Publish(ctx context.Context, msg catalog.InvalidationMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation: %w", err)
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("Failed to publish invalidation",
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	i.logger.Debug("Published invalidation",
		zap.String("shop", msg.Shop),
		zap.String("reason", msg.Reason))
	return nil
}

// Subscribe blocks, calling fn for each invalidation until ctx is done or
// Close is called.
func (i *RedisSnapshotInvalidator) Subscribe(ctx context.Context, fn func(catalog.InvalidationMessage)) error {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return ErrSubscriptionRunning
	}
	subCtx, cancel := context.WithCancel(ctx)
	i.running = true
	i.cancelFn = cancel
	i.doneCh = make(chan struct{})
	done := i.doneCh
	i.mu.Unlock()

	defer func() {
		cancel()
		i.mu.Lock()
		i.running = false
		i.mu.Unlock()
		close(done)
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", i.channel, err)
	}
	i.logger.Info("Subscribed to snapshot invalidations", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return subCtx.Err()
		case m, ok := <-ch:
			if !ok {
				i.logger.Warn("Invalidation channel closed")
				return nil
			}
			var msg catalog.InvalidationMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				i.logger.Error("Malformed invalidation message",
					zap.String("payload", m.Payload),
					zap.Error(err))
				continue
			}
			i.dispatch(fn, msg)
		}
	}
}

func (i *RedisSnapshotInvalidator) dispatch(fn func(catalog.InvalidationMessage), msg catalog.InvalidationMessage) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Panic in invalidation callback", zap.Any("panic", r))
		}
	}()
	fn(msg)
}

// Close stops a running subscription
func (i *RedisSnapshotInvalidator) Close() error {
	i.mu.Lock()
	cancel, done := i.cancelFn, i.doneCh
	i.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
	case <-time.After(defaultCloseTimeout):
		i.logger.Warn("Timeout waiting for invalidation subscription to stop")
	}
	return nil
}

var _ catalog.SnapshotInvalidator = (*RedisSnapshotInvalidator)(nil)
