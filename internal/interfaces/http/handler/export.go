package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/application/catalog"
)

// ExportHandler serves spreadsheet exports of the product list
type ExportHandler struct {
	BaseHandler
	products *ProductHandler
	export   *catalogapp.ExportService
}

// NewExportHandler creates a new ExportHandler. The product handler is used
// to read the list parameters so an export matches what the user sees.
func NewExportHandler(products *ProductHandler, export *catalogapp.ExportService) *ExportHandler {
	return &ExportHandler{products: products, export: export}
}

// Export godoc
// @ID           exportProducts
// @Summary      Export the product list
// @Description  Renders every product matching the list filters, ignoring paging.
// @Description  With storage configured the file is uploaded and a presigned link is
// @Description  returned, unless delivery=inline is requested.
// @Tags         products
// @Produce      json
// @Produce      text/csv
// @Param        format    query  string  false  "csv or xlsx" default(csv)
// @Param        delivery  query  string  false  "inline streams the file in the response"
// @Param        view      query  string  false  "Saved view ID"
// @Param        status    query  []string false "Status filter" collectionFormat(multi)
// @Param        q         query  string  false  "Title search"
// @Param        sort      query  string  false  "Sort, e.g. 'title asc'"
// @Success      200 {object} APIResponse[catalogapp.ExportResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	format, err := catalogapp.ParseExportFormat(c.Query("format"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	q, ok := h.products.productQuery(c)
	if !ok {
		return
	}

	if h.export.StorageEnabled() && c.Query("delivery") != "inline" {
		result, err := h.export.Upload(c.Request.Context(), q, format)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, result)
		return
	}

	var buf bytes.Buffer
	rows, err := h.export.Write(c.Request.Context(), q, format, &buf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.export.Filename(format)))
	c.Header("X-Export-Rows", strconv.Itoa(rows))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
