package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevoker rejects tokens before they expire.
// Entries live only as long as the token they revoke.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisTokenRevoker shares revocations across instances
type RedisTokenRevoker struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisTokenRevoker wraps an existing Redis client
func NewRedisTokenRevoker(client redis.UniversalClient) *RedisTokenRevoker {
	return &RedisTokenRevoker{
		client:    client,
		keyPrefix: "qbpe:token:revoked:",
	}
}

// Revoke marks a JTI as revoked for ttl
func (r *RedisTokenRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks a JTI
func (r *RedisTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

var _ TokenRevoker = (*RedisTokenRevoker)(nil)

// InMemoryTokenRevoker is used when Redis is disabled.
// Revocations are lost on restart and not shared between instances.
type InMemoryTokenRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewInMemoryTokenRevoker creates an empty revoker
func NewInMemoryTokenRevoker() *InMemoryTokenRevoker {
	return &InMemoryTokenRevoker{revoked: make(map[string]time.Time)}
}

// Revoke marks a JTI as revoked for ttl
func (r *InMemoryTokenRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks a JTI, dropping expired entries
func (r *InMemoryTokenRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(r.revoked, jti)
		return false, nil
	}
	return true, nil
}

var _ TokenRevoker = (*InMemoryTokenRevoker)(nil)
