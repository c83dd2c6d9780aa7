package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/application/catalog"
)

// InventoryHandler handles inventory-related API endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *catalogapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *catalogapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// ListItems godoc
// @ID           listInventoryItems
// @Summary      List inventory items
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]catalog.InventoryItem]
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.inventoryService.Items(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListLocations godoc
// @ID           listLocations
// @Summary      List store locations
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]catalog.Location]
// @Security     BearerAuth
// @Router       /locations [get]
func (h *InventoryHandler) ListLocations(c *gin.Context) {
	locations, err := h.inventoryService.Locations(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, locations)
}

// ListLevels godoc
// @ID           listInventoryLevels
// @Summary      List inventory levels
// @Description  Current stock at the configured location, read live from the store.
// @Description  With by=item the cached snapshot stock is returned keyed by inventory item id.
// @Tags         inventory
// @Produce      json
// @Param        by query string false "Set to item for a map keyed by inventory item id" Enums(item)
// @Success      200 {object} APIResponse[[]catalog.InventoryLevel]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventorylevel [get]
func (h *InventoryHandler) ListLevels(c *gin.Context) {
	switch c.Query("by") {
	case "":
		levels, err := h.inventoryService.Levels(c.Request.Context())
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, levels)
	case "item":
		stock, err := h.inventoryService.StockByItem(c.Request.Context())
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, stock)
	default:
		h.BadRequest(c, "by must be item or empty")
	}
}

// SetLevel godoc
// @ID           setInventoryLevel
// @Summary      Set available stock
// @Description  Sets the available quantity of an item. Without locationId the configured location is used.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        inventoryItemId path string                     true "Numeric or global inventory item ID"
// @Param        request         body catalogapp.SetLevelRequest true "New level"
// @Success      200 {object} APIResponse[catalog.InventoryLevel]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventorylevel/{inventoryItemId} [put]
func (h *InventoryHandler) SetLevel(c *gin.Context) {
	var req catalogapp.SetLevelRequest
	if !h.BindJSON(c, &req) {
		return
	}
	level, err := h.inventoryService.SetLevel(c.Request.Context(), c.Param("inventoryItemId"), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}
