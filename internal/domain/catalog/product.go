package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the Admin API product status
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusDraft    ProductStatus = "DRAFT"
	ProductStatusArchived ProductStatus = "ARCHIVED"
)

// IsValid returns true if the status is one the store accepts
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusDraft, ProductStatusArchived:
		return true
	}
	return false
}

// ParseProductStatus accepts any casing ("active", "Draft", "ARCHIVED").
func ParseProductStatus(s string) (ProductStatus, bool) {
	status := ProductStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.IsValid()
}

// Badge is the tone the admin list uses for the status pill.
// ACTIVE is success, DRAFT is info, anything else has no tone.
func (s ProductStatus) Badge() string {
	switch s {
	case ProductStatusActive:
		return "success"
	case ProductStatusDraft:
		return "info"
	}
	return ""
}

// Label returns the status in title case, e.g. "Active".
func (s ProductStatus) Label() string {
	if s == "" {
		return "-"
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// Image is a product image
type Image struct {
	ID          string `json:"id"`
	OriginalSrc string `json:"originalSrc"`
	AltText     string `json:"altText,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Metafield is a namespaced key/value attached to a product or variant
type Metafield struct {
	ID        string `json:"id,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// InventoryItemRef links a variant to its inventory item
type InventoryItemRef struct {
	ID  string `json:"id"`
	SKU string `json:"sku"`
}

// Variant is a sellable variant of a product
type Variant struct {
	ID                 string           `json:"id"`
	SKU                string           `json:"sku"`
	Price              decimal.Decimal  `json:"price"`
	CompareAtPrice     *decimal.Decimal `json:"compareAtPrice,omitempty"`
	InventoryQuantity  int              `json:"inventoryQuantity"`
	InventoryItem      InventoryItemRef `json:"inventoryItem"`
	ShippingMetafields []Metafield      `json:"shippingMetafields,omitempty"`
}

// CollectionRef is the short form of a collection embedded in a product
type CollectionRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TaxonomyCategory is the standardized product type
type TaxonomyCategory struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`
}

// Product is a store product as loaded from the Admin API
type Product struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Handle          string            `json:"handle"`
	Status          ProductStatus     `json:"status"`
	Tags            []string          `json:"tags"`
	Vendor          string            `json:"vendor"`
	ProductType     string            `json:"productType"`
	DescriptionHTML string            `json:"descriptionHtml"`
	IsGiftCard      bool              `json:"isGiftCard"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	TotalInventory  int               `json:"totalInventory"`
	Category        *TaxonomyCategory `json:"category,omitempty"`
	FeaturedImage   *Image            `json:"featuredImage,omitempty"`
	Images          []Image           `json:"images"`
	Variants        []Variant         `json:"variants"`
	Collections     []CollectionRef   `json:"collections"`
	Metafields      []Metafield       `json:"metafields"`
	Cursor          string            `json:"cursor,omitempty"`
}

// FirstVariant returns the first variant, or nil when the product has none
func (p *Product) FirstVariant() *Variant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

// HasTag reports whether the product carries the exact tag
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// InCollection reports whether any of the product's collections has the id
func (p *Product) InCollection(collectionID string) bool {
	for _, c := range p.Collections {
		if c.ID == collectionID {
			return true
		}
	}
	return false
}

// CollectionIDs returns the ids of the product's collections
func (p *Product) CollectionIDs() []string {
	ids := make([]string, 0, len(p.Collections))
	for _, c := range p.Collections {
		ids = append(ids, c.ID)
	}
	return ids
}

// FirstCollectionTitle is the sort key for "collection", "" when none
func (p *Product) FirstCollectionTitle() string {
	if len(p.Collections) == 0 {
		return ""
	}
	return p.Collections[0].Title
}

// CollectionTitles joins collection titles for display, "-" when none
func (p *Product) CollectionTitles() string {
	if len(p.Collections) == 0 {
		return "-"
	}
	titles := make([]string, 0, len(p.Collections))
	for _, c := range p.Collections {
		titles = append(titles, c.Title)
	}
	return strings.Join(titles, ", ")
}

// InventoryItemNumericID returns the numeric id of the first variant's
// inventory item, or 0 when it is unknown.
func (p *Product) InventoryItemNumericID() uint64 {
	v := p.FirstVariant()
	if v == nil {
		return 0
	}
	id, err := NumericID(v.InventoryItem.ID)
	if err != nil {
		return 0
	}
	return id
}
