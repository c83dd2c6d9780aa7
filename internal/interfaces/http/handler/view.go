package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/application/catalog"
)

// ViewHandler manages the saved view tabs
type ViewHandler struct {
	BaseHandler
	viewService *catalogapp.ViewService
}

// NewViewHandler creates a new ViewHandler
func NewViewHandler(viewService *catalogapp.ViewService) *ViewHandler {
	return &ViewHandler{viewService: viewService}
}

// List godoc
// @ID           listViews
// @Summary      List saved views
// @Description  Tabs in display order. The default tabs are created on first use.
// @Tags         views
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.SavedViewResponse]
// @Security     BearerAuth
// @Router       /views [get]
func (h *ViewHandler) List(c *gin.Context) {
	views, err := h.viewService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// Create godoc
// @ID           createView
// @Summary      Create a saved view
// @Tags         views
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateViewRequest true "New view"
// @Success      201 {object} APIResponse[catalogapp.ViewSelection]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /views [post]
func (h *ViewHandler) Create(c *gin.Context) {
	var req catalogapp.CreateViewRequest
	if !h.BindJSON(c, &req) {
		return
	}
	selection, err := h.viewService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, selection)
}

// Update godoc
// @ID           updateView
// @Summary      Rename a view or save its list state
// @Description  The first tab is locked and answers 422.
// @Tags         views
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "View ID"
// @Param        request body catalogapp.UpdateViewRequest  true "Changes"
// @Success      200 {object} APIResponse[catalogapp.SavedViewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /views/{id} [patch]
func (h *ViewHandler) Update(c *gin.Context) {
	id, ok := h.parseUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateViewRequest
	if !h.BindJSON(c, &req) {
		return
	}
	view, err := h.viewService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Delete godoc
// @ID           deleteView
// @Summary      Delete a saved view
// @Description  Selection moves back to the first tab
// @Tags         views
// @Produce      json
// @Param        id path string true "View ID"
// @Success      200 {object} APIResponse[catalogapp.ViewSelection]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /views/{id} [delete]
func (h *ViewHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUID(c, "id")
	if !ok {
		return
	}
	selection, err := h.viewService.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, selection)
}

// Duplicate godoc
// @ID           duplicateView
// @Summary      Duplicate a saved view
// @Description  The copy is appended and selected. Without a name it is called "Copy of <name>".
// @Tags         views
// @Accept       json
// @Produce      json
// @Param        id      path string                           true  "View ID"
// @Param        request body catalogapp.DuplicateViewRequest  false "Copy name"
// @Success      201 {object} APIResponse[catalogapp.ViewSelection]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /views/{id}/duplicate [post]
func (h *ViewHandler) Duplicate(c *gin.Context) {
	id, ok := h.parseUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.DuplicateViewRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	selection, err := h.viewService.Duplicate(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, selection)
}
