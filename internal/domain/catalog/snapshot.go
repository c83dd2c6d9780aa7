package catalog

import (
	"context"
	"time"
)

// Snapshot is the store catalog loaded in one pass. Filtering, sorting and
// paging all run against a snapshot.
type Snapshot struct {
	Shop        string       `json:"shop"`
	Products    []Product    `json:"products"`
	Collections []Collection `json:"collections"`
	Locations   []Location   `json:"locations"`
	// Levels holds stock at the default location only
	Levels    []InventoryLevel `json:"levels"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Stock indexes the snapshot's inventory levels
func (s *Snapshot) Stock() StockIndex {
	return NewStockIndex(s.Levels)
}

// FindProduct returns the product with the given global or numeric id
func (s *Snapshot) FindProduct(id string) (*Product, bool) {
	n, err := NumericID(id)
	if err != nil {
		return nil, false
	}
	for i := range s.Products {
		if pn, err := NumericID(s.Products[i].ID); err == nil && pn == n {
			return &s.Products[i], true
		}
	}
	return nil, false
}

// CacheConfig controls snapshot caching
type CacheConfig struct {
	// SnapshotTTL is how long the shared (L2) copy lives
	SnapshotTTL time.Duration
	// L1TTL is how long the per-process copy lives
	L1TTL time.Duration
	// CleanupInterval is how often expired L1 entries are swept
	CleanupInterval time.Duration
	// PubSubChannel carries invalidations between instances
	PubSubChannel string
	// KeyPrefix namespaces redis keys
	KeyPrefix string
}

// DefaultCacheConfig returns the default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		SnapshotTTL:     10 * time.Minute,
		L1TTL:           time.Minute,
		CleanupInterval: 30 * time.Second,
		PubSubChannel:   "qbpe:snapshot:invalidate",
		KeyPrefix:       "qbpe:snapshot:",
	}
}

// SnapshotCache stores one snapshot per shop. Get returns nil, nil on a miss.
type SnapshotCache interface {
	Get(ctx context.Context, shop string) (*Snapshot, error)
	Set(ctx context.Context, shop string, snapshot *Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, shop string) error
}

// InvalidationMessage tells other instances to drop a shop's snapshot
type InvalidationMessage struct {
	Shop      string `json:"shop"`
	Reason    string `json:"reason"`
	Origin    string `json:"origin,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// SnapshotInvalidator broadcasts invalidations
type SnapshotInvalidator interface {
	Publish(ctx context.Context, msg InvalidationMessage) error
	// Subscribe blocks until ctx is done, calling fn for each message
	Subscribe(ctx context.Context, fn func(InvalidationMessage)) error
	Close() error
}
