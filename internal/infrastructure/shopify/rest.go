package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
)

// collectListOptions filters collects by product
type collectListOptions struct {
	ProductID uint64 `url:"product_id,omitempty"`
	Limit     int    `url:"limit,omitempty"`
}

// productUpdatePayload is sent with a raw PUT so an empty tag list clears the
// tags instead of being dropped by omitempty.
type productUpdatePayload struct {
	Product productUpdateBody `json:"product"`
}

type productUpdateBody struct {
	ID       uint64              `json:"id"`
	Title    string              `json:"title"`
	Handle   string              `json:"handle,omitempty"`
	Status   string              `json:"status,omitempty"`
	Tags     *string             `json:"tags,omitempty"`
	Variants []variantUpdateBody `json:"variants,omitempty"`
}

// variantUpdateBody only carries the fields the caller set, so a partial
// edit never resets the others.
type variantUpdateBody struct {
	ID             uint64                `json:"id"`
	SKU            *string               `json:"sku,omitempty"`
	Price          *decimal.Decimal      `json:"price,omitempty"`
	CompareAtPrice catalog.OptionalPrice `json:"compare_at_price,omitzero"`
}

// GetShop returns the store the token belongs to
func (a *Adapter) GetShop(ctx context.Context) (*catalog.Shop, error) {
	shop, err := a.rest.Shop.Get(ctx, nil)
	if err != nil {
		return nil, mapRESTError(err)
	}
	return &catalog.Shop{
		ID:       shop.Id,
		Name:     shop.Name,
		Domain:   shop.Domain,
		MyDomain: shop.MyshopifyDomain,
		Currency: shop.Currency,
		Email:    shop.Email,
	}, nil
}

// ListRESTProducts lists every product through the REST API
func (a *Adapter) ListRESTProducts(ctx context.Context) ([]integration.RESTProduct, error) {
	products, err := a.rest.Product.ListAll(ctx, nil)
	if err != nil {
		return nil, mapRESTError(err)
	}
	out := make([]integration.RESTProduct, 0, len(products))
	for i := range products {
		out = append(out, toRESTProduct(&products[i]))
	}
	return out, nil
}

// ListInventoryLevels lists levels at one location. Zero means the
// configured default location.
func (a *Adapter) ListInventoryLevels(ctx context.Context, locationID uint64) ([]catalog.InventoryLevel, error) {
	if locationID == 0 {
		locationID = a.config.LocationID
	}
	if locationID == 0 {
		return nil, fmt.Errorf("%w: no inventory location configured", integration.ErrPlatformNotConfigured)
	}
	levels, err := a.rest.InventoryLevel.List(ctx, goshopify.InventoryLevelListOptions{
		LocationIds: []uint64{locationID},
	})
	if err != nil {
		return nil, mapRESTError(err)
	}
	out := make([]catalog.InventoryLevel, 0, len(levels))
	for _, l := range levels {
		out = append(out, toInventoryLevel(l))
	}
	return out, nil
}

// SetInventoryLevel sets the available quantity of an item
func (a *Adapter) SetInventoryLevel(ctx context.Context, update catalog.InventoryUpdate) (*catalog.InventoryLevel, error) {
	if update.LocationID == 0 {
		update.LocationID = a.config.LocationID
	}
	if update.LocationID == 0 {
		return nil, fmt.Errorf("%w: no inventory location configured", integration.ErrPlatformNotConfigured)
	}
	level, err := a.rest.InventoryLevel.Set(ctx, goshopify.InventoryLevel{
		InventoryItemId: update.InventoryItemID,
		LocationId:      update.LocationID,
		Available:       update.Available,
	})
	if err != nil {
		return nil, mapRESTError(err)
	}
	a.logger.Info("Inventory level set",
		zap.Uint64("inventory_item_id", update.InventoryItemID),
		zap.Uint64("location_id", update.LocationID),
		zap.Int("available", update.Available),
	)
	out := toInventoryLevel(*level)
	return &out, nil
}

// UpdateProduct writes the quick-edit fields of a product
func (a *Adapter) UpdateProduct(ctx context.Context, update *catalog.ProductUpdate) (*integration.RESTProduct, error) {
	body := productUpdateBody{
		ID:     update.ProductID,
		Title:  update.Title,
		Handle: update.Handle,
		Status: update.RESTStatus(),
	}
	if update.Tags != nil {
		tags := strings.Join(update.Tags, ", ")
		body.Tags = &tags
	}
	for _, v := range update.Variants {
		body.Variants = append(body.Variants, variantUpdateBody{
			ID:             v.ID,
			SKU:            v.SKU,
			Price:          v.Price,
			CompareAtPrice: v.CompareAtPrice,
		})
	}

	var resp struct {
		Product goshopify.Product `json:"product"`
	}
	path := fmt.Sprintf("products/%d.json", update.ProductID)
	if err := a.rest.Put(ctx, path, productUpdatePayload{Product: body}, &resp); err != nil {
		return nil, mapRESTError(err)
	}
	a.logger.Info("Product updated", zap.Uint64("product_id", update.ProductID))
	out := toRESTProduct(&resp.Product)
	return &out, nil
}

// SetProductCollections syncs manual collection membership through collects.
// Smart collections are rule based and reject collects.
func (a *Adapter) SetProductCollections(ctx context.Context, productID uint64, collectionIDs []string) error {
	collects, err := a.rest.Collect.List(ctx, collectListOptions{ProductID: productID, Limit: bulkPageSize})
	if err != nil {
		return mapRESTError(err)
	}

	current := make([]string, 0, len(collects))
	byCollection := make(map[string]uint64, len(collects))
	for _, c := range collects {
		gid := catalog.CollectionGID(c.CollectionId)
		current = append(current, gid)
		byCollection[gid] = c.Id
	}

	wanted := make([]string, 0, len(collectionIDs))
	for _, id := range collectionIDs {
		n, err := catalog.NumericID(id)
		if err != nil {
			return err
		}
		wanted = append(wanted, catalog.CollectionGID(n))
	}

	add, remove := catalog.CollectionDiff(current, wanted)
	for _, gid := range add {
		n, _ := catalog.NumericID(gid)
		if _, err := a.rest.Collect.Create(ctx, goshopify.Collect{CollectionId: n, ProductId: productID}); err != nil {
			return mapRESTError(err)
		}
	}
	for _, gid := range remove {
		if err := a.rest.Collect.Delete(ctx, byCollection[gid]); err != nil {
			return mapRESTError(err)
		}
	}
	if len(add) > 0 || len(remove) > 0 {
		a.logger.Info("Collections synced",
			zap.Uint64("product_id", productID),
			zap.Strings("added", add),
			zap.Strings("removed", remove),
		)
	}
	return nil
}

// mapRESTError converts go-shopify errors into integration errors
func mapRESTError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateErr goshopify.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: retry after %ds", integration.ErrPlatformRateLimited, rateErr.RetryAfter)
	}

	var respErr goshopify.ResponseError
	if errors.As(err, &respErr) {
		var sentinel error
		switch {
		case respErr.Status == http.StatusUnauthorized || respErr.Status == http.StatusForbidden:
			sentinel = integration.ErrPlatformAuthFailed
		case respErr.Status == http.StatusNotFound:
			sentinel = integration.ErrPlatformNotFound
		case respErr.Status == http.StatusTooManyRequests:
			sentinel = integration.ErrPlatformRateLimited
		case respErr.Status >= http.StatusInternalServerError:
			sentinel = integration.ErrPlatformUnavailable
		default:
			sentinel = integration.ErrPlatformRequestFailed
		}
		return fmt.Errorf("%w: %s", sentinel, respErr.Error())
	}

	return fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
}

func toRESTProduct(p *goshopify.Product) integration.RESTProduct {
	out := integration.RESTProduct{
		ID:          p.Id,
		Title:       p.Title,
		Handle:      p.Handle,
		Status:      string(p.Status),
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Tags:        p.Tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Variants:    make([]integration.RESTVariant, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, integration.RESTVariant{
			ID:              v.Id,
			Title:           v.Title,
			SKU:             v.Sku,
			Price:           v.Price,
			CompareAtPrice:  v.CompareAtPrice,
			InventoryItemID: v.InventoryItemId,
			InventoryQty:    v.InventoryQuantity,
		})
	}
	return out
}

func toInventoryLevel(l goshopify.InventoryLevel) catalog.InventoryLevel {
	out := catalog.InventoryLevel{
		InventoryItemID: l.InventoryItemId,
		LocationID:      l.LocationId,
		Available:       l.Available,
	}
	if l.UpdatedAt != nil {
		out.UpdatedAt = *l.UpdatedAt
	}
	return out
}
