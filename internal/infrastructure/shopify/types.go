package shopify

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

// GraphQLRequest is the body of an Admin GraphQL call
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLResponse is the envelope of an Admin GraphQL answer
type GraphQLResponse struct {
	Data       json.RawMessage `json:"data"`
	Errors     []GraphQLError  `json:"errors,omitempty"`
	Extensions *Extensions     `json:"extensions,omitempty"`
}

// GraphQLError is one entry of the errors array
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Extensions carries the query cost report
type Extensions struct {
	Cost struct {
		RequestedQueryCost float64 `json:"requestedQueryCost"`
		ActualQueryCost    float64 `json:"actualQueryCost"`
		ThrottleStatus     struct {
			MaximumAvailable   float64 `json:"maximumAvailable"`
			CurrentlyAvailable float64 `json:"currentlyAvailable"`
			RestoreRate        float64 `json:"restoreRate"`
		} `json:"throttleStatus"`
	} `json:"cost"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type connection[T any] struct {
	Edges []struct {
		Cursor string `json:"cursor"`
		Node   T      `json:"node"`
	} `json:"edges"`
	PageInfo pageInfo `json:"pageInfo"`
}

func (c connection[T]) nodes() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

type gqlImage struct {
	ID          string `json:"id"`
	OriginalSrc string `json:"originalSrc"`
	AltText     string `json:"altText"`
	Height      int    `json:"height"`
}

type gqlMetafield struct {
	ID        string `json:"id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

type gqlVariant struct {
	ID                string                   `json:"id"`
	SKU               string                   `json:"sku"`
	Price             decimal.Decimal          `json:"price"`
	CompareAtPrice    *decimal.Decimal         `json:"compareAtPrice"`
	InventoryQuantity int                      `json:"inventoryQuantity"`
	InventoryItem     catalog.InventoryItemRef `json:"inventoryItem"`
	Metafields        connection[gqlMetafield] `json:"metafields"`
}

type gqlProduct struct {
	ID                      string    `json:"id"`
	Title                   string    `json:"title"`
	Handle                  string    `json:"handle"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
	IsGiftCard              bool      `json:"isGiftCard"`
	ProductType             string    `json:"productType"`
	DescriptionHTML         string    `json:"descriptionHtml"`
	Status                  string    `json:"status"`
	Tags                    []string  `json:"tags"`
	Vendor                  string    `json:"vendor"`
	TotalInventory          int       `json:"totalInventory"`
	StandardizedProductType *struct {
		ProductTaxonomyNode *catalog.TaxonomyCategory `json:"productTaxonomyNode"`
	} `json:"standardizedProductType"`
	FeaturedImage *gqlImage                         `json:"featuredImage"`
	Images        connection[gqlImage]              `json:"images"`
	Variants      connection[gqlVariant]            `json:"variants"`
	Collections   connection[catalog.CollectionRef] `json:"collections"`
	Metafields    connection[gqlMetafield]          `json:"metafields"`
}

func (g *gqlProduct) toDomain(cursor string) catalog.Product {
	p := catalog.Product{
		ID:              g.ID,
		Title:           g.Title,
		Handle:          g.Handle,
		Status:          catalog.ProductStatus(g.Status),
		Tags:            g.Tags,
		Vendor:          g.Vendor,
		ProductType:     g.ProductType,
		DescriptionHTML: g.DescriptionHTML,
		IsGiftCard:      g.IsGiftCard,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
		TotalInventory:  g.TotalInventory,
		Collections:     g.Collections.nodes(),
		Cursor:          cursor,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if g.StandardizedProductType != nil {
		p.Category = g.StandardizedProductType.ProductTaxonomyNode
	}
	if g.FeaturedImage != nil {
		img := toImage(*g.FeaturedImage)
		p.FeaturedImage = &img
	}
	for _, img := range g.Images.nodes() {
		p.Images = append(p.Images, toImage(img))
	}
	for _, v := range g.Variants.nodes() {
		variant := catalog.Variant{
			ID:                v.ID,
			SKU:               v.SKU,
			Price:             v.Price,
			CompareAtPrice:    v.CompareAtPrice,
			InventoryQuantity: v.InventoryQuantity,
			InventoryItem:     v.InventoryItem,
		}
		for _, m := range v.Metafields.nodes() {
			variant.ShippingMetafields = append(variant.ShippingMetafields, toMetafield(m))
		}
		p.Variants = append(p.Variants, variant)
	}
	for _, m := range g.Metafields.nodes() {
		p.Metafields = append(p.Metafields, toMetafield(m))
	}
	return p
}

func toImage(g gqlImage) catalog.Image {
	return catalog.Image{ID: g.ID, OriginalSrc: g.OriginalSrc, AltText: g.AltText, Height: g.Height}
}

func toMetafield(g gqlMetafield) catalog.Metafield {
	return catalog.Metafield{ID: g.ID, Namespace: g.Namespace, Key: g.Key, Value: g.Value}
}

type productsData struct {
	Products connection[gqlProduct] `json:"products"`
}

type collectionsData struct {
	Collections connection[catalog.Collection] `json:"collections"`
}

type locationsData struct {
	Locations connection[catalog.Location] `json:"locations"`
}

type inventoryItemsData struct {
	InventoryItems connection[catalog.InventoryItem] `json:"inventoryItems"`
}
