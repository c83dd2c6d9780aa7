package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
)

func newTestInventoryService() (*InventoryService, *MockStorePlatform, *fakeSnapshotStore) {
	platform := new(MockStorePlatform)
	loader, store := newLoaderWithCatalog(platform)
	return NewInventoryService(platform, loader, 99, nil), platform, store
}

func TestInventoryService_SetLevel_DefaultsLocation(t *testing.T) {
	svc, platform, store := newTestInventoryService()
	ctx := context.Background()

	platform.On("SetInventoryLevel", ctx, catalog.InventoryUpdate{
		InventoryItemID: 555, LocationID: 99, Available: 3,
	}).Return(&catalog.InventoryLevel{InventoryItemID: 555, LocationID: 99, Available: 3}, nil)

	level, err := svc.SetLevel(ctx, "555", &SetLevelRequest{Available: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, level.Available)
	assert.Equal(t, []string{ReasonInventorySet}, store.reasons())
}

func TestInventoryService_SetLevel_ExplicitLocation(t *testing.T) {
	svc, platform, _ := newTestInventoryService()
	ctx := context.Background()

	platform.On("SetInventoryLevel", ctx, catalog.InventoryUpdate{
		InventoryItemID: 555, LocationID: 12, Available: 0,
	}).Return(&catalog.InventoryLevel{InventoryItemID: 555, LocationID: 12}, nil)

	_, err := svc.SetLevel(ctx, "gid://shopify/InventoryItem/555", &SetLevelRequest{
		Available:  intPtr(0),
		LocationID: "gid://shopify/Location/12",
	})
	require.NoError(t, err)
	platform.AssertExpectations(t)
}

func TestInventoryService_SetLevel_Errors(t *testing.T) {
	svc, platform, store := newTestInventoryService()
	ctx := context.Background()

	_, err := svc.SetLevel(ctx, "nope", &SetLevelRequest{Available: intPtr(1)})
	assert.ErrorIs(t, err, catalog.ErrInvalidID)

	platform.On("SetInventoryLevel", ctx, mock.Anything).Return(nil, integration.ErrPlatformNotFound)
	_, err = svc.SetLevel(ctx, "1", &SetLevelRequest{Available: intPtr(1)})
	assert.ErrorIs(t, err, integration.ErrPlatformNotFound)
	assert.Empty(t, store.reasons())
}

func TestInventoryService_ReadsAndStock(t *testing.T) {
	svc, platform, _ := newTestInventoryService()
	ctx := context.Background()

	platform.On("ListInventoryItems", ctx).Return([]catalog.InventoryItem{{ID: "gid://shopify/InventoryItem/1", Tracked: true}}, nil)

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	levels, err := svc.Levels(ctx)
	require.NoError(t, err)
	assert.Len(t, levels, 1)

	locations, err := svc.Locations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Warehouse", locations[0].Name)

	stock, err := svc.StockByItem(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stock[100].Available)
	assert.Equal(t, catalog.OutOfStock, stock.Label(200))
}
