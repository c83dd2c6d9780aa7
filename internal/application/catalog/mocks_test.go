package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
)

const testShop = "demo.myshopify.com"

// ============================================================================
// Mock StorePlatform
// ============================================================================

type MockStorePlatform struct {
	mock.Mock
}

func (m *MockStorePlatform) GetShop(ctx context.Context) (*catalog.Shop, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Shop), args.Error(1)
}

func (m *MockStorePlatform) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockStorePlatform) ListCollections(ctx context.Context) ([]catalog.Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Collection), args.Error(1)
}

func (m *MockStorePlatform) ListLocations(ctx context.Context) ([]catalog.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Location), args.Error(1)
}

func (m *MockStorePlatform) ListInventoryItems(ctx context.Context) ([]catalog.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.InventoryItem), args.Error(1)
}

func (m *MockStorePlatform) ListRESTProducts(ctx context.Context) ([]integration.RESTProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.RESTProduct), args.Error(1)
}

func (m *MockStorePlatform) ListInventoryLevels(ctx context.Context, locationID uint64) ([]catalog.InventoryLevel, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.InventoryLevel), args.Error(1)
}

func (m *MockStorePlatform) SetInventoryLevel(ctx context.Context, update catalog.InventoryUpdate) (*catalog.InventoryLevel, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.InventoryLevel), args.Error(1)
}

func (m *MockStorePlatform) UpdateProduct(ctx context.Context, update *catalog.ProductUpdate) (*integration.RESTProduct, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RESTProduct), args.Error(1)
}

func (m *MockStorePlatform) SetProductCollections(ctx context.Context, productID uint64, collectionIDs []string) error {
	args := m.Called(ctx, productID, collectionIDs)
	return args.Error(0)
}

func (m *MockStorePlatform) CreateSampleProducts(ctx context.Context, count int) ([]integration.SampleProduct, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.SampleProduct), args.Error(1)
}

var _ integration.StorePlatform = (*MockStorePlatform)(nil)

// ============================================================================
// Fake snapshot store
// ============================================================================

type fakeSnapshotStore struct {
	mu            sync.Mutex
	snapshots     map[string]*catalog.Snapshot
	invalidations []string
	sets          int
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{snapshots: make(map[string]*catalog.Snapshot)}
}

func (f *fakeSnapshotStore) Get(_ context.Context, shop string) (*catalog.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots[shop], nil
}

func (f *fakeSnapshotStore) Set(_ context.Context, shop string, s *catalog.Snapshot, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[shop] = s
	f.sets++
	return nil
}

func (f *fakeSnapshotStore) Delete(_ context.Context, shop string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.snapshots, shop)
	return nil
}

func (f *fakeSnapshotStore) Invalidate(ctx context.Context, shop, reason string) error {
	f.mu.Lock()
	f.invalidations = append(f.invalidations, reason)
	f.mu.Unlock()
	return f.Delete(ctx, shop)
}

func (f *fakeSnapshotStore) reasons() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.invalidations...)
}

// ============================================================================
// Fake idempotency store
// ============================================================================

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]bool)}
}

func (f *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key], nil
}

func (f *fakeIdempotencyStore) Close() error { return nil }

var _ shared.IdempotencyStore = (*fakeIdempotencyStore)(nil)

// ============================================================================
// Fake saved view repository
// ============================================================================

type fakeViewRepo struct {
	mu    sync.Mutex
	views map[uuid.UUID]catalog.SavedView
}

func newFakeViewRepo() *fakeViewRepo {
	return &fakeViewRepo{views: make(map[uuid.UUID]catalog.SavedView)}
}

func (r *fakeViewRepo) ListByShop(_ context.Context, shop string) ([]catalog.SavedView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.SavedView, 0, len(r.views))
	for _, v := range r.views {
		if v.Shop == shop {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeViewRepo) FindByID(_ context.Context, shop string, id uuid.UUID) (*catalog.SavedView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[id]
	if !ok || v.Shop != shop {
		return nil, catalog.ErrViewNotFound
	}
	return &v, nil
}

func (r *fakeViewRepo) Save(_ context.Context, view *catalog.SavedView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[view.ID] = *view
	return nil
}

func (r *fakeViewRepo) SaveAll(ctx context.Context, views []*catalog.SavedView) error {
	for _, v := range views {
		if err := r.Save(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeViewRepo) Delete(_ context.Context, shop string, id uuid.UUID) error {
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

func (r *fakeViewRepo) CountByShop(_ context.Context, shop string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.views {
		if v.Shop == shop {
			n++
		}
	}
	return n, nil
}

var _ catalog.SavedViewRepository = (*fakeViewRepo)(nil)

// ============================================================================
// Fixtures
// ============================================================================

func testProduct(id uint64, title string, status catalog.ProductStatus, tags ...string) catalog.Product {
	return catalog.Product{
		ID:        catalog.ProductGID(id),
		Title:     title,
		Handle:    title,
		Status:    status,
		Tags:      tags,
		CreatedAt: time.Date(2024, 1, int(id), 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 2, int(id), 0, 0, 0, 0, time.UTC),
		Variants: []catalog.Variant{{
			ID:            catalog.GID(catalog.ResourceVariant, id*10),
			SKU:           "SKU-" + title,
			Price:         decimal.NewFromInt(int64(id)),
			InventoryItem: catalog.InventoryItemRef{ID: catalog.GID(catalog.ResourceInventoryItem, id*100)},
		}},
	}
}

func testCatalog() []catalog.Product {
	return []catalog.Product{
		testProduct(1, "banana", catalog.ProductStatusActive, "fruit"),
		testProduct(2, "Apple", catalog.ProductStatusDraft, "fruit", "red"),
		testProduct(3, "cherry", catalog.ProductStatusArchived, "red"),
	}
}

// newLoaderWithCatalog returns a loader whose platform serves testCatalog
func newLoaderWithCatalog(platform *MockStorePlatform) (*SnapshotLoader, *fakeSnapshotStore) {
	platform.On("ListProducts", mock.Anything).Return(testCatalog(), nil).Maybe()
	platform.On("ListCollections", mock.Anything).Return([]catalog.Collection{
		{ID: catalog.CollectionGID(7), Title: "Summer"},
	}, nil).Maybe()
	platform.On("ListLocations", mock.Anything).Return([]catalog.Location{
		{ID: catalog.GID(catalog.ResourceLocation, 99), Name: "Warehouse"},
	}, nil).Maybe()
	platform.On("ListInventoryLevels", mock.Anything, uint64(99)).Return([]catalog.InventoryLevel{
		{InventoryItemID: 100, LocationID: 99, Available: 4},
	}, nil).Maybe()

	store := newFakeSnapshotStore()
	loader := NewSnapshotLoader(platform, store, SnapshotLoaderConfig{Shop: testShop, LocationID: 99}, nil)
	return loader, store
}
