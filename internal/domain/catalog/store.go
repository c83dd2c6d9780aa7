package catalog

import (
	"strconv"
	"time"
)

// Collection is a product collection
type Collection struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

// Address is a location's postal address
type Address struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// Location is a place that stocks inventory
type Location struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// InventoryItem is the stock-keeping record behind a variant
type InventoryItem struct {
	ID      string `json:"id"`
	Tracked bool   `json:"tracked"`
	SKU     string `json:"sku"`
}

// InventoryLevel is the available quantity of an item at a location
type InventoryLevel struct {
	InventoryItemID uint64    `json:"inventory_item_id"`
	LocationID      uint64    `json:"location_id"`
	Available       int       `json:"available"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Shop is the store the app is installed on
type Shop struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	MyDomain string `json:"myshopify_domain"`
	Currency string `json:"currency"`
	Email    string `json:"email,omitempty"`
}

// OutOfStock is shown when no inventory level exists for an item
const OutOfStock = "out of stock"

// StockIndex maps inventory item ids to their levels
type StockIndex map[uint64]InventoryLevel

// NewStockIndex indexes levels by inventory item id. When an item appears
// more than once the last level wins.
func NewStockIndex(levels []InventoryLevel) StockIndex {
	idx := make(StockIndex, len(levels))
	for _, l := range levels {
		idx[l.InventoryItemID] = l
	}
	return idx
}

// Label returns the available quantity as text, or OutOfStock
func (s StockIndex) Label(inventoryItemID uint64) string {
	l, ok := s[inventoryItemID]
	if !ok || inventoryItemID == 0 {
		return OutOfStock
	}
	return strconv.Itoa(l.Available)
}
