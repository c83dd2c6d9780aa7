package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/application/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader carries the client's retry key on POST requests
const IdempotencyKeyHeader = "Idempotency-Key"

// DefaultSampleCount is used when POST /products has no count
const DefaultSampleCount = 5

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	viewService    *catalogapp.ViewService
}

// NewProductHandler creates a new ProductHandler. viewService resolves the
// ?view= parameter and may be nil.
func NewProductHandler(productService *catalogapp.ProductService, viewService *catalogapp.ViewService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		viewService:    viewService,
	}
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  Filtered, sorted and paginated product index served from the catalog snapshot.
// @Description  A saved view supplies the base query and explicit parameters override it.
// @Tags         products
// @Produce      json
// @Param        view        query  string    false  "Saved view ID"
// @Param        status      query  []string  false  "Status filter (active, draft, archived)" collectionFormat(multi)
// @Param        tagged_with query  []string  false  "Tag filter, all must match" collectionFormat(multi)
// @Param        collection  query  string    false  "Collection ID"
// @Param        gift_card   query  bool      false  "Gift card filter"
// @Param        tab         query  int       false  "Status tab (0 all, 1 active, 2 draft, 3 archived)"
// @Param        q           query  string    false  "Title search"
// @Param        sort        query  string    false  "Sort, e.g. 'title asc'"
// @Param        page        query  int       false  "Page number"
// @Param        page_size   query  int       false  "Page size"
// @Param        filter_key  query  string    false  "Filter key of the page the client is on"
// @Success      200 {object} APIResponse[[]catalogapp.ProductListItem]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	q, ok := h.productQuery(c)
	if !ok {
		return
	}
	page, err := h.productService.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	meta := dto.NewMeta(page.Total, page.Page, page.PageSize)
	meta.NextPage = page.NextPage
	meta.PreviousPage = page.PrevPage
	meta.FilterKey = page.FilterKey
	meta.Sort = page.Sort
	meta.SortOptions = page.SortChoice
	h.SuccessWithMeta(c, page.Items, meta)
}

// Get godoc
// @ID           getProduct
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Numeric or global product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductListItem]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	item, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Tags godoc
// @ID           listProductTags
// @Summary      List product tags
// @Description  Distinct tags used across the catalog, sorted
// @Tags         products
// @Produce      json
// @Success      200 {object} APIResponse[[]string]
// @Security     BearerAuth
// @Router       /products/tags [get]
func (h *ProductHandler) Tags(c *gin.Context) {
	tags, err := h.productService.Tags(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tags)
}

// Update godoc
// @ID           updateProduct
// @Summary      Quick-edit a product
// @Description  Updates product fields, then optionally stock and collection membership
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string                           true "Numeric or global product ID"
// @Param        request body catalogapp.UpdateProductRequest  true "Quick-edit form"
// @Success      200 {object} APIResponse[catalogapp.UpdateProductResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.productService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CreateSamples godoc
// @ID           createSampleProducts
// @Summary      Create sample products
// @Description  Creates demo products with random titles and prices. A repeated
// @Description  Idempotency-Key is rejected with 409.
// @Tags         products
// @Produce      json
// @Param        count           query  int     false  "Number of products (1-25)" default(5)
// @Param        Idempotency-Key header string  false  "Retry key"
// @Success      201 {object} APIResponse[catalogapp.CreateSamplesResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) CreateSamples(c *gin.Context) {
	count := DefaultSampleCount
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationFormat, "count must be an integer")
			return
		}
		count = n
	}
	result, err := h.productService.CreateSamples(c.Request.Context(), count, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// RESTProducts godoc
// @ID           listRESTProducts
// @Summary      List products through the REST API
// @Description  Uncached listing kept for the legacy product page
// @Tags         products
// @Produce      json
// @Success      200 {object} APIResponse[[]integration.RESTProduct]
// @Security     BearerAuth
// @Router       /product [get]
func (h *ProductHandler) RESTProducts(c *gin.Context) {
	products, err := h.productService.RESTProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// productQuery builds the list query from the saved view (if any) and the
// query string. It writes the error response itself.
func (h *ProductHandler) productQuery(c *gin.Context) (catalog.ProductQuery, bool) {
	q := catalog.NewProductQuery()
	if raw := c.Query("view"); raw != "" && h.viewService != nil {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationFormat, "Invalid view format")
			return q, false
		}
		view, err := h.viewService.Find(c.Request.Context(), id)
		if err != nil {
			h.HandleError(c, err)
			return q, false
		}
		q = view.Query
		if q.Page < 1 {
			q.Page = 1
		}
	}
	return parseProductQuery(c, q, func(field string) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationFormat, "Invalid "+field)
	})
}

// parseProductQuery overrides q with every list parameter present in the
// request. A changed filter key moves paging back to page 1.
func parseProductQuery(c *gin.Context, q catalog.ProductQuery, fail func(field string)) (catalog.ProductQuery, bool) {
	if values, ok := c.GetQueryArray("status"); ok {
		q.Statuses = nil
		for _, v := range splitMulti(values) {
			status, valid := catalog.ParseProductStatus(v)
			if !valid {
				fail("status")
				return q, false
			}
			q.Statuses = append(q.Statuses, status)
		}
	}
	if values, ok := c.GetQueryArray("tagged_with"); ok {
		q.TaggedWith = splitMulti(values)
	}
	if v, ok := c.GetQuery("collection"); ok {
		q.CollectionID = v
	}
	if v, ok := c.GetQuery("gift_card"); ok {
		if v == "" {
			q.GiftCard = nil
		} else {
			b, err := strconv.ParseBool(v)
			if err != nil {
				fail("gift_card")
				return q, false
			}
			q.GiftCard = &b
		}
	}
	if v, ok := c.GetQuery("tab"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail("tab")
			return q, false
		}
		q.Tab = catalog.Tab(n)
	}
	if v, ok := c.GetQuery("q"); ok {
		q.Query = v
	}
	if v, ok := c.GetQuery("sort"); ok {
		q.Sort = catalog.ParseSort(v)
	}
	if v, ok := c.GetQuery("page"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail("page")
			return q, false
		}
		q.Page = n
	}
	if v, ok := c.GetQuery("page_size"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail("page_size")
			return q, false
		}
		q.PageSize = n
	}
	return q.ResetPageIfChanged(c.Query("filter_key")), true
}

// splitMulti accepts both repeated parameters and comma lists
func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
