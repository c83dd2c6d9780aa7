package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
)

// VariantUpdate carries the editable fields of one variant. Nil and unset
// fields are left as they are in the store.
type VariantUpdate struct {
	ID             uint64
	SKU            *string
	Price          *decimal.Decimal
	CompareAtPrice OptionalPrice
}

// OptionalPrice tells "not sent" apart from an explicit null. Set with a
// nil Value clears the price.
type OptionalPrice struct {
	Set   bool
	Value *decimal.Decimal
}

// SetPrice returns a price that overwrites the stored one
func SetPrice(d decimal.Decimal) OptionalPrice {
	return OptionalPrice{Set: true, Value: &d}
}

// ClearPrice returns a price that removes the stored one
func ClearPrice() OptionalPrice {
	return OptionalPrice{Set: true}
}

// IsZero reports an unset price, so omitzero drops it when encoding
func (p OptionalPrice) IsZero() bool {
	return !p.Set
}

// MarshalJSON implements json.Marshaler
func (p OptionalPrice) MarshalJSON() ([]byte, error) {
	if p.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON implements json.Unmarshaler. It only runs for keys present
// in the document, which is what marks the price as set.
func (p *OptionalPrice) UnmarshalJSON(b []byte) error {
	p.Set = true
	p.Value = nil
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	p.Value = &d
	return nil
}

// InventoryUpdate sets the available quantity of an item at a location.
// LocationID 0 means the configured default location.
type InventoryUpdate struct {
	InventoryItemID uint64
	LocationID      uint64
	Available       int
}

// ProductUpdate is the quick-edit form submission for one product
type ProductUpdate struct {
	ProductID uint64
	Title     string
	Handle    string
	Status    ProductStatus
	Tags      []string
	Variants  []VariantUpdate

	// Inventory is nil when the quantity is left untouched
	Inventory *InventoryUpdate

	// Collections is nil when membership is left untouched. An empty,
	// non-nil slice removes the product from every collection.
	Collections []string
}

// Validate checks the command before anything is sent to the store
func (u *ProductUpdate) Validate() error {
	if u.ProductID == 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(u.Title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if len(u.Title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot exceed 255 characters")
	}
	if u.Status != "" && !u.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown product status: "+string(u.Status))
	}
	for _, v := range u.Variants {
		if v.ID == 0 {
			return shared.NewDomainError("INVALID_VARIANT", "Variant id is required")
		}
		if v.Price != nil && v.Price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
		}
		if v.CompareAtPrice.Value != nil && v.CompareAtPrice.Value.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Compare-at price cannot be negative")
		}
	}
	if u.Inventory != nil {
		if u.Inventory.InventoryItemID == 0 {
			return shared.NewDomainError("INVALID_INVENTORY", "Inventory item id is required")
		}
	}
	for _, id := range u.Collections {
		if _, err := NumericID(id); err != nil {
			return shared.NewDomainError("INVALID_COLLECTION", "Invalid collection id: "+id)
		}
	}
	return nil
}

// RESTStatus is the lowercase status the REST API expects
func (u *ProductUpdate) RESTStatus() string {
	return strings.ToLower(string(u.Status))
}

// CollectionDiff compares wanted membership with the current one and returns
// collection ids to add and to remove.
func CollectionDiff(current, wanted []string) (add, remove []string) {
	cur := make(map[string]struct{}, len(current))
	for _, id := range current {
		cur[id] = struct{}{}
	}
	want := make(map[string]struct{}, len(wanted))
	for _, id := range wanted {
		want[id] = struct{}{}
		if _, ok := cur[id]; !ok {
			add = append(add, id)
		}
	}
	for _, id := range current {
		if _, ok := want[id]; !ok {
			remove = append(remove, id)
		}
	}
	return add, remove
}
