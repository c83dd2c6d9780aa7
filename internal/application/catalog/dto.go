package catalog

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
)

// ResourceID accepts a JSON number, a numeric string or a global id
type ResourceID string

// UnmarshalJSON implements json.Unmarshaler
func (r *ResourceID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = ResourceID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = ResourceID(n.String())
	return nil
}

// Numeric returns the numeric id
func (r ResourceID) Numeric() (uint64, error) {
	return catalog.NumericID(string(r))
}

// TagList accepts tags as one comma-separated string or as an array.
// Either way tags are trimmed and empties dropped.
type TagList []string

// UnmarshalJSON implements json.Unmarshaler
func (t *TagList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []string
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		tags := make([]string, 0, len(items))
		for _, item := range items {
			tags = append(tags, catalog.SplitTags(item)...)
		}
		*t = tags
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = catalog.SplitTags(s)
	return nil
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// ProductListItem is one row of the product index
type ProductListItem struct {
	catalog.Product
	StatusLabel      string `json:"statusLabel"`
	StatusBadge      string `json:"statusBadge"`
	CollectionTitles string `json:"collectionTitles"`
	Stock            string `json:"stock"`
}

// ProductPage is a page of the filtered, sorted product list
type ProductPage struct {
	Items      []ProductListItem `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
	HasNext    bool              `json:"has_next"`
	HasPrev    bool              `json:"has_previous"`
	NextPage   int               `json:"next_page"`
	PrevPage   int               `json:"previous_page"`
	FilterKey  string            `json:"filter_key"`
	Sort       string            `json:"sort"`
	SortChoice []string          `json:"sort_options"`
	FetchedAt  time.Time         `json:"fetched_at"`
}

func toListItem(p catalog.Product, stock catalog.StockIndex) ProductListItem {
	return ProductListItem{
		Product:          p,
		StatusLabel:      p.Status.Label(),
		StatusBadge:      p.Status.Badge(),
		CollectionTitles: p.CollectionTitles(),
		Stock:            stock.Label(p.InventoryItemNumericID()),
	}
}

func newProductPage(page shared.Paginated[catalog.Product], q catalog.ProductQuery, snap *catalog.Snapshot) *ProductPage {
	stock := snap.Stock()
	items := make([]ProductListItem, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, toListItem(p, stock))
	}
	return &ProductPage{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrevious,
		NextPage:   catalog.NextPage(page.Page, page.TotalPages),
		PrevPage:   catalog.PreviousPage(page.Page),
		FilterKey:  q.FilterKey(),
		Sort:       q.Sort.String(),
		SortChoice: sortChoices(),
		FetchedAt:  snap.FetchedAt,
	}
}

func sortChoices() []string {
	out := make([]string, 0, len(catalog.SortOptions))
	for _, s := range catalog.SortOptions {
		out = append(out, s.String())
	}
	return out
}

// VariantFields is the editable part of a variant. Keys missing from the
// body are not sent to the store; compare_at_price null clears it.
type VariantFields struct {
	ID             ResourceID            `json:"id" binding:"required"`
	SKU            *string               `json:"sku" binding:"omitempty,max=255"`
	Price          *decimal.Decimal      `json:"price"`
	CompareAtPrice catalog.OptionalPrice `json:"compare_at_price"`
}

// ProductFields is the product part of the quick-edit form
type ProductFields struct {
	ID       ResourceID      `json:"id"`
	Title    string          `json:"title" binding:"required,max=255"`
	Handle   string          `json:"handle" binding:"max=255"`
	Status   string          `json:"status" binding:"omitempty,oneof=active draft archived ACTIVE DRAFT ARCHIVED"`
	Tags     *TagList        `json:"tags" swaggertype:"array,string"`
	Variants []VariantFields `json:"variants" binding:"dive"`
}

// InventoryFields sets stock for one inventory item
type InventoryFields struct {
	InventoryItemID ResourceID `json:"inventoryItemId" binding:"required"`
	Available       *int       `json:"available" binding:"required"`
	LocationID      ResourceID `json:"locationId"`
}

// UpdateProductRequest is the body of PUT /api/products/:id
type UpdateProductRequest struct {
	Product     ProductFields    `json:"product"`
	Inventory   *InventoryFields `json:"inventory"`
	Collections *[]string        `json:"collections"`
}

// ToCommand builds the domain command. The path id wins; a different id
// in the body is rejected.
func (r *UpdateProductRequest) ToCommand(pathID string) (*catalog.ProductUpdate, error) {
	productID, err := catalog.NumericID(pathID)
	if err != nil {
		return nil, err
	}
	if r.Product.ID != "" {
		bodyID, err := r.Product.ID.Numeric()
		if err != nil {
			return nil, err
		}
		if bodyID != productID {
			return nil, shared.NewDomainError("ID_MISMATCH", "Product id in body does not match the URL")
		}
	}

	cmd := &catalog.ProductUpdate{
		ProductID: productID,
		Title:     r.Product.Title,
		Handle:    r.Product.Handle,
	}
	if r.Product.Status != "" {
		status, ok := catalog.ParseProductStatus(r.Product.Status)
		if !ok {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown product status: "+r.Product.Status)
		}
		cmd.Status = status
	}
	if r.Product.Tags != nil {
		cmd.Tags = append([]string{}, *r.Product.Tags...)
	}
	for _, v := range r.Product.Variants {
		id, err := v.ID.Numeric()
		if err != nil {
			return nil, err
		}
		cmd.Variants = append(cmd.Variants, catalog.VariantUpdate{
			ID:             id,
			SKU:            v.SKU,
			Price:          v.Price,
			CompareAtPrice: v.CompareAtPrice,
		})
	}
	if r.Inventory != nil {
		inv, err := r.Inventory.toUpdate()
		if err != nil {
			return nil, err
		}
		cmd.Inventory = inv
	}
	if r.Collections != nil {
		cmd.Collections = append([]string{}, *r.Collections...)
	}
	return cmd, cmd.Validate()
}

func (f *InventoryFields) toUpdate() (*catalog.InventoryUpdate, error) {
	itemID, err := f.InventoryItemID.Numeric()
	if err != nil {
		return nil, err
	}
	u := &catalog.InventoryUpdate{InventoryItemID: itemID}
	if f.Available != nil {
		u.Available = *f.Available
	}
	if f.LocationID != "" {
		if u.LocationID, err = f.LocationID.Numeric(); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// UpdateProductResult reports what an update touched
type UpdateProductResult struct {
	Product           *integration.RESTProduct `json:"product"`
	InventoryLevel    *catalog.InventoryLevel  `json:"inventory_level,omitempty"`
	CollectionsSynced bool                     `json:"collections_synced"`
}

// CreateSamplesResult lists generated products
type CreateSamplesResult struct {
	Products []integration.SampleProduct `json:"products"`
	Count    int                         `json:"count"`
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

// SetLevelRequest is the body of PUT /api/inventorylevel/:inventoryItemId
type SetLevelRequest struct {
	Available  *int       `json:"available" binding:"required"`
	LocationID ResourceID `json:"locationId"`
}

// ---------------------------------------------------------------------------
// Saved views
// ---------------------------------------------------------------------------

// SavedViewResponse is a saved view as shown in the tab bar
type SavedViewResponse struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Position  int                  `json:"position"`
	Locked    bool                 `json:"locked"`
	Query     catalog.ProductQuery `json:"query"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ToSavedViewResponse converts a domain view
func ToSavedViewResponse(v *catalog.SavedView) SavedViewResponse {
	return SavedViewResponse{
		ID:        v.ID,
		Name:      v.Name,
		Position:  v.Position,
		Locked:    v.Locked(),
		Query:     v.Query,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// CreateViewRequest creates a tab. Without a query the tab starts unfiltered.
type CreateViewRequest struct {
	Name  string                `json:"name" binding:"required,max=40"`
	Query *catalog.ProductQuery `json:"query"`
}

// UpdateViewRequest renames a tab and/or saves its current list state
type UpdateViewRequest struct {
	Name  *string               `json:"name" binding:"omitempty,max=40"`
	Query *catalog.ProductQuery `json:"query"`
}

// DuplicateViewRequest names the copy; empty means "Copy of <name>"
type DuplicateViewRequest struct {
	Name string `json:"name" binding:"max=40"`
}

// ViewSelection tells the client which tab to select after a change
type ViewSelection struct {
	Views    []SavedViewResponse `json:"views"`
	Selected int                 `json:"selected"`
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// ExportFormat is the file type of an export
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat defaults to CSV
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportXLSX:
		return ExportXLSX, nil
	}
	return "", shared.NewDomainError("INVALID_FORMAT", "Export format must be csv or xlsx")
}

// ContentType returns the MIME type
func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ExportResult points at an uploaded export
type ExportResult struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	Filename  string    `json:"filename"`
	Rows      int       `json:"rows"`
	ExpiresAt time.Time `json:"expires_at"`
}
