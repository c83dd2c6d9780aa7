package router

import (
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/auth"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/handler"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/middleware"
)

// Handlers are the handlers mounted below /api
type Handlers struct {
	Product   *handler.ProductHandler
	Export    *handler.ExportHandler
	Inventory *handler.InventoryHandler
	Store     *handler.StoreHandler
	View      *handler.ViewHandler
	System    *handler.SystemHandler
}

// APIGroups builds the /api route groups. Every group checks token scopes;
// the check is a no-op when JWT auth is off.
func APIGroups(h Handlers, log *zap.Logger) []*DomainGroup {
	catalogScope := middleware.ScopeForMethod(auth.ScopeProductsRead, auth.ScopeProductsWrite, log)

	// export is registered before :id so it is not taken for a product id
	products := NewDomainGroup("products", "/products").Use(catalogScope)
	products.GET("", h.Product.List).
		POST("", h.Product.CreateSamples).
		GET("/tags", h.Product.Tags).
		GET("/export", h.Export.Export).
		GET("/:id", h.Product.Get).
		PUT("/:id", h.Product.Update)

	store := NewDomainGroup("store", "").Use(catalogScope)
	store.GET("/product", h.Product.RESTProducts).
		GET("/collections", h.Store.Collections).
		GET("/domain", h.Store.Domain).
		POST("/cache/refresh", h.Store.RefreshCache)

	inventory := NewDomainGroup("inventory", "").Use(catalogScope)
	inventory.GET("/inventory", h.Inventory.ListItems).
		GET("/locations", h.Inventory.ListLocations).
		GET("/inventorylevel", h.Inventory.ListLevels).
		PUT("/inventorylevel/:inventoryItemId", h.Inventory.SetLevel)

	views := NewDomainGroup("views", "/views").
		Use(middleware.ScopeForMethod(auth.ScopeProductsRead, auth.ScopeViewsWrite, log))
	views.GET("", h.View.List).
		POST("", h.View.Create).
		PATCH("/:id", h.View.Update).
		DELETE("/:id", h.View.Delete).
		POST("/:id/duplicate", h.View.Duplicate)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{products, store, inventory, views, system}
}
