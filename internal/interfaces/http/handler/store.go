package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/application/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

// StoreHandler serves store-level reads and the cache refresh
type StoreHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	snapshots      *catalogapp.SnapshotLoader
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(productService *catalogapp.ProductService, snapshots *catalogapp.SnapshotLoader) *StoreHandler {
	return &StoreHandler{productService: productService, snapshots: snapshots}
}

// DomainResponse identifies the connected store
// @name HandlerDomainResponse
type DomainResponse struct {
	Domain string        `json:"domain" example:"demo.myshopify.com"`
	Shop   *catalog.Shop `json:"shop,omitempty"`
}

// RefreshResponse summarizes a freshly loaded snapshot
// @name HandlerRefreshResponse
type RefreshResponse struct {
	Products    int       `json:"products"`
	Collections int       `json:"collections"`
	Locations   int       `json:"locations"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Collections godoc
// @ID           listCollections
// @Summary      List collections
// @Tags         store
// @Produce      json
// @Success      200 {object} APIResponse[[]catalog.Collection]
// @Security     BearerAuth
// @Router       /collections [get]
func (h *StoreHandler) Collections(c *gin.Context) {
	collections, err := h.productService.Collections(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collections)
}

// Domain godoc
// @ID           getShopDomain
// @Summary      Get the connected shop
// @Tags         store
// @Produce      json
// @Success      200 {object} APIResponse[DomainResponse]
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /domain [get]
func (h *StoreHandler) Domain(c *gin.Context) {
	shop, err := h.productService.Shop(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DomainResponse{Domain: h.snapshots.Shop(), Shop: shop})
}

// RefreshCache godoc
// @ID           refreshCatalogCache
// @Summary      Reload the catalog snapshot
// @Description  Drops the cached snapshot on every instance and loads a fresh one
// @Tags         store
// @Produce      json
// @Success      200 {object} APIResponse[RefreshResponse]
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cache/refresh [post]
func (h *StoreHandler) RefreshCache(c *gin.Context) {
	snap, err := h.snapshots.Refresh(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RefreshResponse{
		Products:    len(snap.Products),
		Collections: len(snap.Collections),
		Locations:   len(snap.Locations),
		FetchedAt:   snap.FetchedAt,
	})
}
