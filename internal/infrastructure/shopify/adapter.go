package shopify

import (
	"context"
	"fmt"
	"net/http"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
)

// Adapter implements integration.StorePlatform against the Shopify Admin
// API. Reads go through GraphQL, writes through REST.
type Adapter struct {
	config *Config
	gql    *Client
	rest   *goshopify.Client
	logger *zap.Logger
}

var _ integration.StorePlatform = (*Adapter)(nil)

// NewAdapter builds both API clients for the configured shop
func NewAdapter(config *Config, opts ...Option) (*Adapter, error) {
	gql, err := NewClient(config, opts...)
	if err != nil {
		return nil, err
	}

	restOpts := []goshopify.Option{
		goshopify.WithVersion(config.APIVersion),
		goshopify.WithRetry(config.MaxRetries),
		goshopify.WithHTTPClient(gql.httpClient),
		goshopify.WithLogger(gql.logger.Sugar()),
	}
	app := goshopify.App{
		ApiKey:    config.APIKey,
		ApiSecret: config.APISecret,
	}
	rest, err := goshopify.NewClient(app, config.ShopDomain, config.AccessToken, restOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformNotConfigured, err)
	}

	return &Adapter{
		config: config,
		gql:    gql,
		rest:   rest,
		logger: gql.logger,
	}, nil
}

// HTTPClient returns the client shared by both APIs
func (a *Adapter) HTTPClient() *http.Client {
	return a.gql.httpClient
}

// ---------------------------------------------------------------------------
// Catalog reads (GraphQL)
// ---------------------------------------------------------------------------

// ListProducts pages through all products, PageSize per request
func (a *Adapter) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	products := make([]catalog.Product, 0, a.config.PageSize)
	err := fetchAll(ctx, a.gql, productsQuery, a.config.PageSize,
		func(d *productsData) *connection[gqlProduct] { return &d.Products },
		func(cursor string, node gqlProduct) {
			products = append(products, node.toDomain(cursor))
		})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Fetched products", zap.Int("count", len(products)))
	return products, nil
}

// ListCollections pages through all collections
func (a *Adapter) ListCollections(ctx context.Context) ([]catalog.Collection, error) {
	collections := make([]catalog.Collection, 0)
	err := fetchAll(ctx, a.gql, collectionsQuery, bulkPageSize,
		func(d *collectionsData) *connection[catalog.Collection] { return &d.Collections },
		func(_ string, node catalog.Collection) {
			collections = append(collections, node)
		})
	if err != nil {
		return nil, err
	}
	return collections, nil
}

// ListLocations pages through all locations
func (a *Adapter) ListLocations(ctx context.Context) ([]catalog.Location, error) {
	locations := make([]catalog.Location, 0)
	err := fetchAll(ctx, a.gql, locationsQuery, locationPageSize,
		func(d *locationsData) *connection[catalog.Location] { return &d.Locations },
		func(_ string, node catalog.Location) {
			locations = append(locations, node)
		})
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// ListInventoryItems pages through all inventory items
func (a *Adapter) ListInventoryItems(ctx context.Context) ([]catalog.InventoryItem, error) {
	items := make([]catalog.InventoryItem, 0)
	err := fetchAll(ctx, a.gql, inventoryItemsQuery, bulkPageSize,
		func(d *inventoryItemsData) *connection[catalog.InventoryItem] { return &d.InventoryItems },
		func(_ string, node catalog.InventoryItem) {
			items = append(items, node)
		})
	if err != nil {
		return nil, err
	}
	return items, nil
}
