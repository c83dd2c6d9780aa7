package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
)

func newTestProductService() (*ProductService, *MockStorePlatform, *fakeSnapshotStore, *fakeIdempotencyStore) {
	platform := new(MockStorePlatform)
	loader, store := newLoaderWithCatalog(platform)
	idem := newFakeIdempotencyStore()
	return NewProductService(platform, loader, idem, nil), platform, store, idem
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func tagsPtr(tags ...string) *TagList {
	t := TagList(tags)
	return &t
}
func intPtr(n int) *int       { return &n }

// ============================================================================
// List / Get / Tags
// ============================================================================

func TestProductService_List_DefaultSortAndMeta(t *testing.T) {
	svc, _, _, _ := newTestProductService()

	page, err := svc.List(context.Background(), catalog.NewProductQuery())
	require.NoError(t, err)

	require.Len(t, page.Items, 3)
	assert.Equal(t, "Apple", page.Items[0].Title)
	assert.Equal(t, "banana", page.Items[1].Title)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)
	assert.Equal(t, "title asc", page.Sort)
	assert.NotEmpty(t, page.FilterKey)
}

func TestProductService_List_RowDecorations(t *testing.T) {
	svc, _, _, _ := newTestProductService()

	q := catalog.NewProductQuery()
	q.Tab = catalog.TabActive
	page, err := svc.List(context.Background(), q)
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	row := page.Items[0]
	assert.Equal(t, "banana", row.Title)
	assert.Equal(t, "Active", row.StatusLabel)
	assert.Equal(t, "success", row.StatusBadge)
	assert.Equal(t, "-", row.CollectionTitles)
	assert.Equal(t, "4", row.Stock)
}

func TestProductService_List_StockMissingIsOutOfStock(t *testing.T) {
	svc, _, _, _ := newTestProductService()

	q := catalog.NewProductQuery()
	q.Query = "cherry"
	page, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, catalog.OutOfStock, page.Items[0].Stock)
}

func TestProductService_List_RejectsInvalidQuery(t *testing.T) {
	svc, platform, _, _ := newTestProductService()

	q := catalog.NewProductQuery()
	q.Tab = 9
	_, err := svc.List(context.Background(), q)
	require.Error(t, err)
	platform.AssertNotCalled(t, "ListProducts", mock.Anything)
}

func TestProductService_Get(t *testing.T) {
	svc, _, _, _ := newTestProductService()
	ctx := context.Background()

	item, err := svc.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Apple", item.Title)

	item, err = svc.Get(ctx, "gid://shopify/Product/3")
	require.NoError(t, err)
	assert.Equal(t, "cherry", item.Title)

	_, err = svc.Get(ctx, "42")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.Get(ctx, "abc")
	assert.ErrorIs(t, err, catalog.ErrInvalidID)
}

func TestProductService_TagsAndCollections(t *testing.T) {
	svc, _, _, _ := newTestProductService()
	ctx := context.Background()

	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fruit", "red"}, tags)

	cols, err := svc.Collections(ctx)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "Summer", cols[0].Title)
}

// ============================================================================
// Update
// ============================================================================

func TestProductService_Update_ProductOnly(t *testing.T) {
	svc, platform, store, _ := newTestProductService()
	ctx := context.Background()

	platform.On("UpdateProduct", ctx, mock.MatchedBy(func(u *catalog.ProductUpdate) bool {
		return u.ProductID == 1 && u.Title == "Banana" && u.RESTStatus() == "draft" &&
			assert.ObjectsAreEqual([]string{"fruit", "yellow"}, u.Tags)
	})).Return(&integration.RESTProduct{ID: 1, Title: "Banana"}, nil)

	req := &UpdateProductRequest{Product: ProductFields{
		Title:  "Banana",
		Status: "DRAFT",
		Tags:   tagsPtr("fruit", "yellow"),
	}}
	res, err := svc.Update(ctx, "gid://shopify/Product/1", req)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), res.Product.ID)
	assert.Nil(t, res.InventoryLevel)
	assert.False(t, res.CollectionsSynced)
	assert.Equal(t, []string{ReasonProductUpdate}, store.reasons())
	platform.AssertNotCalled(t, "SetInventoryLevel", mock.Anything, mock.Anything)
	platform.AssertNotCalled(t, "SetProductCollections", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_Update_InventoryAndCollections(t *testing.T) {
	svc, platform, store, _ := newTestProductService()
	ctx := context.Background()

	platform.On("UpdateProduct", ctx, mock.Anything).Return(&integration.RESTProduct{ID: 1}, nil)
	platform.On("SetInventoryLevel", ctx, catalog.InventoryUpdate{
		InventoryItemID: 100, LocationID: 0, Available: 12,
	}).Return(&catalog.InventoryLevel{InventoryItemID: 100, LocationID: 99, Available: 12}, nil)
	platform.On("SetProductCollections", ctx, uint64(1), []string{"gid://shopify/Collection/7"}).Return(nil)

	collections := []string{"gid://shopify/Collection/7"}
	req := &UpdateProductRequest{
		Product: ProductFields{
			Title:    "banana",
			Variants: []VariantFields{{ID: "10", Price: decPtr("2.50")}},
		},
		Inventory:   &InventoryFields{InventoryItemID: "gid://shopify/InventoryItem/100", Available: intPtr(12)},
		Collections: &collections,
	}
	res, err := svc.Update(ctx, "1", req)
	require.NoError(t, err)

	require.NotNil(t, res.InventoryLevel)
	assert.Equal(t, 12, res.InventoryLevel.Available)
	assert.True(t, res.CollectionsSynced)
	assert.Equal(t, []string{ReasonProductUpdate}, store.reasons())
	platform.AssertExpectations(t)
}

func TestProductService_Update_EmptyCollectionsClearsMembership(t *testing.T) {
	svc, platform, _, _ := newTestProductService()
	ctx := context.Background()

	platform.On("UpdateProduct", ctx, mock.Anything).Return(&integration.RESTProduct{ID: 1}, nil)
	platform.On("SetProductCollections", ctx, uint64(1), []string{}).Return(nil)

	empty := []string{}
	res, err := svc.Update(ctx, "1", &UpdateProductRequest{
		Product:     ProductFields{Title: "banana"},
		Collections: &empty,
	})
	require.NoError(t, err)
	assert.True(t, res.CollectionsSynced)
}

func TestProductService_Update_ValidationStopsBeforeStore(t *testing.T) {
	svc, platform, store, _ := newTestProductService()

	tests := []struct {
		name string
		id   string
		req  UpdateProductRequest
		code string
	}{
		{"blank title", "1", UpdateProductRequest{Product: ProductFields{Title: "  "}}, "INVALID_TITLE"},
		{"bad id", "x", UpdateProductRequest{Product: ProductFields{Title: "a"}}, "INVALID_ID"},
		{"id mismatch", "1", UpdateProductRequest{Product: ProductFields{ID: "2", Title: "a"}}, "ID_MISMATCH"},
		{"negative price", "1", UpdateProductRequest{Product: ProductFields{
			Title: "a", Variants: []VariantFields{{ID: "10", Price: decPtr("-1")}},
		}}, "INVALID_PRICE"},
		{"bad status", "1", UpdateProductRequest{Product: ProductFields{Title: "a", Status: "sold"}}, "INVALID_STATUS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), tt.id, &tt.req)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
	platform.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
	assert.Empty(t, store.reasons())
}

func TestProductService_Update_PartialVariantLeavesPricesAlone(t *testing.T) {
	svc, platform, _, _ := newTestProductService()
	ctx := context.Background()

	var sent *catalog.ProductUpdate
	platform.On("UpdateProduct", ctx, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*catalog.ProductUpdate) }).
		Return(&integration.RESTProduct{ID: 1}, nil)

	sku := "NEW"
	_, err := svc.Update(ctx, "1", &UpdateProductRequest{Product: ProductFields{
		Title:    "Banana",
		Variants: []VariantFields{{ID: "10", SKU: &sku}},
	}})
	require.NoError(t, err)

	require.NotNil(t, sent)
	require.Len(t, sent.Variants, 1)
	assert.Nil(t, sent.Variants[0].Price)
	assert.False(t, sent.Variants[0].CompareAtPrice.Set)
	assert.Nil(t, sent.Tags, "tags left out of the form are not touched")
}

func TestProductService_Update_InventoryFailureStillInvalidates(t *testing.T) {
	svc, platform, store, _ := newTestProductService()
	ctx := context.Background()

	platform.On("UpdateProduct", ctx, mock.Anything).Return(&integration.RESTProduct{ID: 1}, nil)
	platform.On("SetInventoryLevel", ctx, mock.Anything).
		Return(nil, fmt.Errorf("%w: 422", integration.ErrPlatformRequestFailed))

	_, err := svc.Update(ctx, "1", &UpdateProductRequest{
		Product:   ProductFields{Title: "banana"},
		Inventory: &InventoryFields{InventoryItemID: "100", Available: intPtr(1)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, integration.ErrPlatformRequestFailed))
	assert.Equal(t, []string{ReasonProductUpdate}, store.reasons())
}

func TestProductService_Update_StoreFailureDoesNotInvalidate(t *testing.T) {
	svc, platform, store, _ := newTestProductService()
	ctx := context.Background()

	platform.On("UpdateProduct", ctx, mock.Anything).Return(nil, integration.ErrPlatformAuthFailed)

	_, err := svc.Update(ctx, "1", &UpdateProductRequest{Product: ProductFields{Title: "banana"}})
	assert.ErrorIs(t, err, integration.ErrPlatformAuthFailed)
	assert.Empty(t, store.reasons())
}

// ============================================================================
// CreateSamples
// ============================================================================

func TestProductService_CreateSamples(t *testing.T) {
	svc, platform, store, _ := newTestProductService()
	ctx := context.Background()

	samples := []integration.SampleProduct{{ID: 1, Title: "Quiet Lamp"}, {ID: 2, Title: "Bright Mug"}}
	platform.On("CreateSampleProducts", ctx, 2).Return(samples, nil).Once()

	res, err := svc.CreateSamples(ctx, 2, "key-1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, []string{ReasonSampleCreate}, store.reasons())

	_, err = svc.CreateSamples(ctx, 2, "key-1")
	assert.ErrorIs(t, err, ErrDuplicateRequest)
	platform.AssertNumberOfCalls(t, "CreateSampleProducts", 1)
}

func TestProductService_CreateSamples_WithoutKeyIsNotDeduplicated(t *testing.T) {
	svc, platform, _, idem := newTestProductService()
	ctx := context.Background()

	platform.On("CreateSampleProducts", ctx, 5).Return([]integration.SampleProduct{{ID: 1}}, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.CreateSamples(ctx, 5, "")
		require.NoError(t, err)
	}
	platform.AssertNumberOfCalls(t, "CreateSampleProducts", 2)
	assert.Empty(t, idem.keys)
}

func TestProductService_CreateSamples_CountBounds(t *testing.T) {
	svc, _, _, _ := newTestProductService()
	for _, n := range []int{0, -1, MaxSampleCount + 1} {
		_, err := svc.CreateSamples(context.Background(), n, "")
		assert.ErrorIs(t, err, ErrInvalidCount, "count %d", n)
	}
}

func TestProductService_CreateSamples_PartialFailureInvalidates(t *testing.T) {
	svc, platform, store, _ := newTestProductService()
	ctx := context.Background()

	platform.On("CreateSampleProducts", ctx, 3).
		Return([]integration.SampleProduct{{ID: 1}}, integration.ErrPlatformRateLimited)

	_, err := svc.CreateSamples(ctx, 3, "")
	assert.ErrorIs(t, err, integration.ErrPlatformRateLimited)
	assert.Equal(t, []string{ReasonSampleCreate}, store.reasons())
}
