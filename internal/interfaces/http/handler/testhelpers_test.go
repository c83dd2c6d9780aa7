package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/application/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/cache"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/config"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/persistence"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/dto"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/middleware"
)

const (
	testShop       = "demo.myshopify.com"
	testLocationID = uint64(77)
)

func init() {
	gin.SetMode(gin.TestMode)
}

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
// Test environment: real services over the mock platform and in-memory stores
// ============================================================================

type testEnv struct {
	platform  *MockStorePlatform
	stack     *cache.Stack
	snapshots *catalogapp.SnapshotLoader
	products  *catalogapp.ProductService
	inventory *catalogapp.InventoryService
	views     *catalogapp.ViewService
	export    *catalogapp.ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	stack, err := cache.Build(context.Background(), config.RedisConfig{}, config.CacheConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = stack.Close() })

	platform := new(MockStorePlatform)
	snapshots := catalogapp.NewSnapshotLoader(platform, stack.Snapshots, catalogapp.SnapshotLoaderConfig{
		Shop:       testShop,
		TTL:        time.Minute,
		LocationID: testLocationID,
	}, nil)

	return &testEnv{
		platform:  platform,
		stack:     stack,
		snapshots: snapshots,
		products:  catalogapp.NewProductService(platform, snapshots, stack.Idempotency, nil),
		inventory: catalogapp.NewInventoryService(platform, snapshots, testLocationID, nil),
		views:     catalogapp.NewViewService(persistence.NewMemorySavedViewRepository(), testShop, nil),
		export:    catalogapp.NewExportService(snapshots, nil, time.Hour, nil),
	}
}

// expectCatalog makes every snapshot load return products
func (e *testEnv) expectCatalog(products ...catalog.Product) {
	e.platform.On("ListProducts", mock.Anything).Return(products, nil).Maybe()
	e.platform.On("ListCollections", mock.Anything).Return(testCollections(), nil).Maybe()
	e.platform.On("ListLocations", mock.Anything).Return([]catalog.Location{
		{ID: "gid://shopify/Location/77", Name: "Main warehouse"},
	}, nil).Maybe()
	e.platform.On("ListInventoryLevels", mock.Anything, testLocationID).Return([]catalog.InventoryLevel{
		{InventoryItemID: 501, LocationID: testLocationID, Available: 12},
	}, nil).Maybe()
}

func testCollections() []catalog.Collection {
	return []catalog.Collection{
		{ID: "gid://shopify/Collection/10", Title: "Summer", Handle: "summer"},
		{ID: "gid://shopify/Collection/11", Title: "Winter", Handle: "winter"},
	}
}

func testProduct(id uint64, title string, status catalog.ProductStatus, tags ...string) catalog.Product {
	created := time.Date(2024, 1, int(id%28)+1, 0, 0, 0, 0, time.UTC)
	return catalog.Product{
		ID:        catalog.ProductGID(id),
		Title:     title,
		Handle:    title,
		Status:    status,
		Tags:      tags,
		CreatedAt: created,
		UpdatedAt: created,
		Variants: []catalog.Variant{{
			ID:            catalog.GID("ProductVariant", id*10),
			SKU:           "SKU-" + title,
			Price:         decimal.RequireFromString("19.99"),
			InventoryItem: catalog.InventoryItemRef{ID: catalog.GID("InventoryItem", 500+id)},
		}},
	}
}

func testCatalog() []catalog.Product {
	summer := testProduct(3, "Cedar Lamp", catalog.ProductStatusArchived, "home")
	summer.Collections = []catalog.CollectionRef{{ID: "gid://shopify/Collection/10", Title: "Summer"}}
	gift := testProduct(4, "Gift Card", catalog.ProductStatusActive)
	gift.IsGiftCard = true
	return []catalog.Product{
		testProduct(1, "Amber Mug", catalog.ProductStatusActive, "kitchen", "sale"),
		testProduct(2, "Birch Bowl", catalog.ProductStatusDraft, "kitchen"),
		summer,
		gift,
	}
}

// ============================================================================
// Request helpers
// ============================================================================

func performRequest(r http.Handler, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	return engine
}

// decodeData unmarshals the envelope and then its data field into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var envelope struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	if out != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeData(t, w, nil)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}
