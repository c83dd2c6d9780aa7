package integration

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

// ---------------------------------------------------------------------------
// StorePlatform Errors
// ---------------------------------------------------------------------------

var (
	ErrPlatformNotConfigured    = errors.New("integration: platform not configured")
	ErrPlatformUnavailable      = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed    = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse  = errors.New("integration: invalid platform response")
	ErrPlatformAuthFailed       = errors.New("integration: platform authentication failed")
	ErrPlatformRateLimited      = errors.New("integration: platform rate limited")
	ErrPlatformNotFound         = errors.New("integration: platform resource not found")
	ErrPlatformInvalidSignature = errors.New("integration: invalid platform signature")
)

// RESTVariant is a variant as returned by the REST product listing
type RESTVariant struct {
	ID              uint64           `json:"id"`
	Title           string           `json:"title"`
	SKU             string           `json:"sku"`
	Price           *decimal.Decimal `json:"price"`
	CompareAtPrice  *decimal.Decimal `json:"compare_at_price"`
	InventoryItemID uint64           `json:"inventory_item_id"`
	InventoryQty    int              `json:"inventory_quantity"`
}

// RESTProduct is a product as returned by the REST product listing
type RESTProduct struct {
	ID          uint64        `json:"id"`
	Title       string        `json:"title"`
	Handle      string        `json:"handle"`
	Status      string        `json:"status"`
	Vendor      string        `json:"vendor"`
	ProductType string        `json:"product_type"`
	Tags        string        `json:"tags"`
	CreatedAt   *time.Time    `json:"created_at"`
	UpdatedAt   *time.Time    `json:"updated_at"`
	Variants    []RESTVariant `json:"variants"`
}

// SampleProduct is a product created by the demo data generator
type SampleProduct struct {
	ID    uint64          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// StorePlatform is the store the app edits. Listing methods page through
// the full result set before returning.
type StorePlatform interface {
	// GetShop returns the store the token belongs to
	GetShop(ctx context.Context) (*catalog.Shop, error)

	// ---------------------------------------------------------------------------
	// Catalog reads (GraphQL)
	// ---------------------------------------------------------------------------

	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListCollections(ctx context.Context) ([]catalog.Collection, error)
	ListLocations(ctx context.Context) ([]catalog.Location, error)
	ListInventoryItems(ctx context.Context) ([]catalog.InventoryItem, error)

	// ---------------------------------------------------------------------------
	// REST reads and writes
	// ---------------------------------------------------------------------------

	ListRESTProducts(ctx context.Context) ([]RESTProduct, error)
	ListInventoryLevels(ctx context.Context, locationID uint64) ([]catalog.InventoryLevel, error)
	SetInventoryLevel(ctx context.Context, update catalog.InventoryUpdate) (*catalog.InventoryLevel, error)

	// UpdateProduct applies title, handle, tags, status and variant fields
	UpdateProduct(ctx context.Context, update *catalog.ProductUpdate) (*RESTProduct, error)

	// SetProductCollections makes the product a member of exactly the given
	// collections (global ids)
	SetProductCollections(ctx context.Context, productID uint64, collectionIDs []string) error

	// CreateSampleProducts creates count products with generated titles and prices
	CreateSampleProducts(ctx context.Context, count int) ([]SampleProduct, error)
}

// IsRetryable reports whether the error is transient
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPlatformUnavailable) || errors.Is(err, ErrPlatformRateLimited)
}
