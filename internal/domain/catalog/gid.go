package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
)

// Resource names used in Admin API global ids
const (
	ResourceProduct       = "Product"
	ResourceVariant       = "ProductVariant"
	ResourceInventoryItem = "InventoryItem"
	ResourceLocation      = "Location"
	ResourceCollection    = "Collection"
)

// ErrInvalidID is returned when an id has no numeric last segment
var ErrInvalidID = shared.NewDomainError("INVALID_ID", "Identifier must be numeric or a gid://shopify URI")

// NumericID extracts the numeric id from either a plain number or a global
// id such as gid://shopify/Product/123. The last path segment is used.
func NumericID(id string) (uint64, error) {
	id = strings.TrimSpace(id)
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	// Some ids carry a query string, e.g. gid://shopify/ProductImage/1?v=2
	if i := strings.IndexByte(id, '?'); i >= 0 {
		id = id[:i]
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, ErrInvalidID
	}
	return n, nil
}

// GID builds a global id for a resource
func GID(resource string, id uint64) string {
	return fmt.Sprintf("gid://shopify/%s/%d", resource, id)
}

// ProductGID builds gid://shopify/Product/{id}
func ProductGID(id uint64) string {
	return GID(ResourceProduct, id)
}

// CollectionGID builds gid://shopify/Collection/{id}
func CollectionGID(id uint64) string {
	return GID(ResourceCollection, id)
}
