package catalog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/telemetry"
)

// MaxSampleCount bounds one sample-generation request
const MaxSampleCount = 25

var (
	ErrProductNotFound  = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrDuplicateRequest = shared.NewDomainError("DUPLICATE_REQUEST", "This request was already processed")
	ErrInvalidCount     = shared.NewDomainError("INVALID_COUNT", "Count must be between 1 and 25")
)

// ProductService serves the product index and the quick-edit form
type ProductService struct {
	platform    integration.StorePlatform
	snapshots   *SnapshotLoader
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	logger      *zap.Logger
}

// NewProductService creates a new ProductService. idempotency may be nil.
func NewProductService(
	platform integration.StorePlatform,
	snapshots *SnapshotLoader,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		platform:    platform,
		snapshots:   snapshots,
		idempotency: idempotency,
		idemConfig:  shared.DefaultIdempotencyConfig(),
		logger:      logger,
	}
}

// SetIdempotencyConfig overrides the default key lifetime
func (s *ProductService) SetIdempotencyConfig(cfg shared.IdempotencyConfig) {
	s.idemConfig = cfg
}

// List filters, sorts and pages the cached catalog
func (s *ProductService) List(ctx context.Context, q catalog.ProductQuery) (*ProductPage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	return newProductPage(q.Apply(snap.Products), q, snap), nil
}

// Get returns one product by numeric or global id
func (s *ProductService) Get(ctx context.Context, id string) (*ProductListItem, error) {
	if _, err := catalog.NumericID(id); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := snap.FindProduct(id)
	if !ok {
		return nil, ErrProductNotFound
	}
	item := toListItem(*p, snap.Stock())
	return &item, nil
}

// Tags returns the distinct tags used across the catalog
func (s *ProductService) Tags(ctx context.Context) ([]string, error) {
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.UniqueTags(snap.Products), nil
}

// Collections returns every collection in the store
func (s *ProductService) Collections(ctx context.Context) ([]catalog.Collection, error) {
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Collections, nil
}

// RESTProducts lists products through the REST API, uncached
func (s *ProductService) RESTProducts(ctx context.Context) ([]integration.RESTProduct, error) {
	return s.platform.ListRESTProducts(ctx)
}

// Shop returns the store the app is connected to
func (s *ProductService) Shop(ctx context.Context) (*catalog.Shop, error) {
	return s.platform.GetShop(ctx)
}

// Update applies the quick-edit form: product fields first, then stock,
// then collection membership. The snapshot is invalidated once the product
// itself was written, even if a later step fails.
func (s *ProductService) Update(ctx context.Context, id string, req *UpdateProductRequest) (_ *UpdateProductResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "update", attribute.String("product.id", id))
	defer telemetry.End(span, &err)

	cmd, err := req.ToCommand(id)
	if err != nil {
		return nil, err
	}

	product, err := s.platform.UpdateProduct(ctx, cmd)
	if err != nil {
		return nil, err
	}
	defer s.snapshots.Invalidate(ctx, ReasonProductUpdate)

	result := &UpdateProductResult{Product: product}
	if cmd.Inventory != nil {
		level, err := s.platform.SetInventoryLevel(ctx, *cmd.Inventory)
		if err != nil {
			s.logger.Warn("Product updated but inventory set failed",
				zap.Uint64("product_id", cmd.ProductID), zap.Error(err))
			return nil, err
		}
		result.InventoryLevel = level
	}
	if cmd.Collections != nil {
		if err = s.platform.SetProductCollections(ctx, cmd.ProductID, cmd.Collections); err != nil {
			s.logger.Warn("Product updated but collection sync failed",
				zap.Uint64("product_id", cmd.ProductID), zap.Error(err))
			return nil, err
		}
		result.CollectionsSynced = true
	}
	return result, nil
}

// CreateSamples creates count demo products. A non-empty idempotency key
// makes a retried request fail with ErrDuplicateRequest instead of creating
// a second batch.
func (s *ProductService) CreateSamples(ctx context.Context, count int, idempotencyKey string) (_ *CreateSamplesResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create_samples", attribute.Int("count", count))
	defer telemetry.End(span, &err)

	if count < 1 || count > MaxSampleCount {
		return nil, ErrInvalidCount
	}
	if idempotencyKey != "" && s.idempotency != nil && s.idemConfig.Enabled {
		fresh, err := s.idempotency.MarkProcessed(ctx, "samples:"+idempotencyKey, s.idemTTL())
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, ErrDuplicateRequest
		}
	}

	products, err := s.platform.CreateSampleProducts(ctx, count)
	if len(products) > 0 {
		s.snapshots.Invalidate(ctx, ReasonSampleCreate)
	}
	if err != nil {
		return nil, err
	}
	return &CreateSamplesResult{Products: products, Count: len(products)}, nil
}

func (s *ProductService) idemTTL() time.Duration {
	if s.idemConfig.TTL <= 0 {
		return shared.DefaultIdempotencyConfig().TTL
	}
	return s.idemConfig.TTL
}
