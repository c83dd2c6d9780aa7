package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

// MemorySavedViewRepository keeps views in process memory. It is used when
// the database is disabled; views are lost on restart.
type MemorySavedViewRepository struct {
	mu    sync.RWMutex
	views map[uuid.UUID]catalog.SavedView
}

// NewMemorySavedViewRepository creates an empty repository
func NewMemorySavedViewRepository() *MemorySavedViewRepository {
	return &MemorySavedViewRepository{views: make(map[uuid.UUID]catalog.SavedView)}
}

// ListByShop returns the shop's views ordered by position
func (r *MemorySavedViewRepository) ListByShop(_ context.Context, shop string) ([]catalog.SavedView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.SavedView, 0)
	for _, v := range r.views {
		if v.Shop == shop {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// FindByID returns catalog.ErrViewNotFound for a missing view
func (r *MemorySavedViewRepository) FindByID(_ context.Context, shop string, id uuid.UUID) (*catalog.SavedView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[id]
	if !ok || v.Shop != shop {
		return nil, catalog.ErrViewNotFound
	}
	return &v, nil
}

// Save upserts a view by id
func (r *MemorySavedViewRepository) Save(_ context.Context, view *catalog.SavedView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[view.ID] = *view
	return nil
}

// SaveAll upserts every view
func (r *MemorySavedViewRepository) SaveAll(_ context.Context, views []*catalog.SavedView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range views {
		r.views[v.ID] = *v
	}
	return nil
}

// Delete removes a view and shifts later views up one position
func (r *MemorySavedViewRepository) Delete(_ context.Context, shop string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[id]
	if !ok || v.Shop != shop {
		return catalog.ErrViewNotFound
	}
	delete(r.views, id)
	for k, other := range r.views {
		if other.Shop == shop && other.Position > v.Position {
			other.Position--
			r.views[k] = other
		}
	}
	return nil
}

// CountByShop counts the shop's views
func (r *MemorySavedViewRepository) CountByShop(_ context.Context, shop string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, v := range r.views {
		if v.Shop == shop {
			n++
		}
	}
	return n, nil
}

var _ catalog.SavedViewRepository = (*MemorySavedViewRepository)(nil)
