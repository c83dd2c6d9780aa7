package catalog

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/telemetry"
)

// InventoryService reads and writes stock at store locations
type InventoryService struct {
	platform   integration.StorePlatform
	snapshots  *SnapshotLoader
	locationID uint64
	logger     *zap.Logger
}

// NewInventoryService creates an InventoryService. locationID is the
// default location for reads and writes.
func NewInventoryService(
	platform integration.StorePlatform,
	snapshots *SnapshotLoader,
	locationID uint64,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		platform:   platform,
		snapshots:  snapshots,
		locationID: locationID,
		logger:     logger,
	}
}

// Items lists every inventory item
func (s *InventoryService) Items(ctx context.Context) ([]catalog.InventoryItem, error) {
	return s.platform.ListInventoryItems(ctx)
}

// Locations lists the store's locations from the snapshot
func (s *InventoryService) Locations(ctx context.Context) ([]catalog.Location, error) {
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Locations, nil
}

// Levels reads current stock at the default location, bypassing the cache
func (s *InventoryService) Levels(ctx context.Context) ([]catalog.InventoryLevel, error) {
	return s.platform.ListInventoryLevels(ctx, s.locationID)
}

// SetLevel sets the available quantity of an item. A zero location means
// the default location.
func (s *InventoryService) SetLevel(ctx context.Context, itemID string, req *SetLevelRequest) (_ *catalog.InventoryLevel, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory", "set_level", attribute.String("inventory_item.id", itemID))
	defer telemetry.End(span, &err)

	fields := InventoryFields{
		InventoryItemID: ResourceID(itemID),
		Available:       req.Available,
		LocationID:      req.LocationID,
	}
	update, err := fields.toUpdate()
	if err != nil {
		return nil, err
	}
	if update.LocationID == 0 {
		update.LocationID = s.locationID
	}

	level, err := s.platform.SetInventoryLevel(ctx, *update)
	if err != nil {
		return nil, err
	}
	s.snapshots.Invalidate(ctx, ReasonInventorySet)
	s.logger.Info("Inventory level set",
		zap.Uint64("inventory_item_id", update.InventoryItemID),
		zap.Uint64("location_id", update.LocationID),
		zap.Int("available", update.Available),
	)
	return level, nil
}

// StockByItem returns the snapshot's stock keyed by numeric inventory item id
func (s *InventoryService) StockByItem(ctx context.Context) (catalog.StockIndex, error) {
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Stock(), nil
}
