package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/application/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/dto"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/middleware"
)

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from context",
			setup:      func(c *gin.Context) { c.Set(middleware.RequestIDKey, "ctx-request-id") },
			expectedID: "ctx-request-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id") },
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
			},
			expectedID: "ctx-id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"domain not found", catalogapp.ErrProductNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped domain error", fmt.Errorf("load: %w", catalog.ErrViewLocked), http.StatusUnprocessableEntity, dto.ErrCodeViewLocked},
		{"duplicate request", catalogapp.ErrDuplicateRequest, http.StatusConflict, dto.ErrCodeDuplicateRequest},
		{"invalid count", catalogapp.ErrInvalidCount, http.StatusBadRequest, dto.ErrCodeValidationRange},
		{"unlisted invalid code", shared.NewDomainError("INVALID_TAB", "bad tab"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"store rate limited", fmt.Errorf("list: %w", integration.ErrPlatformRateLimited), http.StatusTooManyRequests, dto.ErrCodeRateLimited},
		{"store not configured", integration.ErrPlatformNotConfigured, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable},
		{"store unavailable", integration.ErrPlatformUnavailable, http.StatusBadGateway, dto.ErrCodeExternalService},
		{"store auth failed", integration.ErrPlatformAuthFailed, http.StatusBadGateway, dto.ErrCodeExternalService},
		{"store not found", integration.ErrPlatformNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"bad signature", integration.ErrPlatformInvalidSignature, http.StatusUnauthorized, dto.ErrCodeInvalidSignature},
		{"export storage off", catalogapp.ErrExportStorageDisabled, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDKey, "req-1")

			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeData(t, w, nil)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			assert.Len(t, c.Errors, 1)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		(&BaseHandler{}).HandleError(c, nil)
		assert.Equal(t, 0, w.Body.Len())
	})

	t.Run("store failure hides cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		(&BaseHandler{}).HandleError(c, fmt.Errorf("token shpat_secret rejected: %w", integration.ErrPlatformAuthFailed))
		assert.NotContains(t, w.Body.String(), "shpat_secret")
	})
}

type bindTarget struct {
	Name  string `json:"name" binding:"required,max=5"`
	Count int    `json:"count" binding:"min=1"`
}

func TestBaseHandler_BindJSON(t *testing.T) {
	middleware.SetupValidator()

	run := func(body string, limit int64) (*httptest.ResponseRecorder, bool) {
		engine := newEngine()
		if limit > 0 {
			engine.Use(middleware.BodyLimit(limit))
		}
		var ok bool
		engine.POST("/bind", func(c *gin.Context) {
			var target bindTarget
			ok = (&BaseHandler{}).BindJSON(c, &target)
			if ok {
				c.Status(http.StatusNoContent)
			}
		})
		return performRequest(engine, http.MethodPost, "/bind", body), ok
	}

	t.Run("valid body", func(t *testing.T) {
		w, ok := run(`{"name":"abc","count":2}`, 0)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("validation details", func(t *testing.T) {
		w, ok := run(`{"name":"toolong","count":0}`, 0)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeData(t, w, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"name", "count"}, fields)
	})

	t.Run("malformed json", func(t *testing.T) {
		w, ok := run(`{"name":`, 0)
		assert.False(t, ok)
		assert.Equal(t, dto.ErrCodeInvalidJSON, errorCode(t, w))
	})

	t.Run("body over limit", func(t *testing.T) {
		body := `{"name":"` + strings.Repeat("x", 64) + `"}`
		w, ok := run(body, 32)
		assert.False(t, ok)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
