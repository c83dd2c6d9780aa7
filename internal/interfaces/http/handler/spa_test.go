package handler

import (
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/dto"
)

func setupSPA(files fstest.MapFS) *gin.Engine {
	h := NewSPAHandlerFS(http.FS(files), "api-key-123")
	engine := newEngine()
	engine.GET("/api/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	engine.NoRoute(h.Serve)
	return engine
}

func TestSPAHandler_Serve(t *testing.T) {
	engine := setupSPA(fstest.MapFS{
		"index.html":     {Data: []byte(`<meta name="shopify-api-key" content="%VITE_SHOPIFY_API_KEY%">`)},
		"assets/app.js":  {Data: []byte("console.log('app')")},
		"assets/app.css": {Data: []byte("body{}")},
	})

	t.Run("index has the api key", func(t *testing.T) {
		w := performRequest(engine, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `content="api-key-123"`)
		assert.NotContains(t, w.Body.String(), APIKeyPlaceholder)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("client route falls back to index", func(t *testing.T) {
		w := performRequest(engine, http.MethodGet, "/products/12?tab=2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "api-key-123")
	})

	t.Run("asset served as file", func(t *testing.T) {
		w := performRequest(engine, http.MethodGet, "/assets/app.js", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "console.log('app')", w.Body.String())
	})

	t.Run("unknown api path keeps json envelope", func(t *testing.T) {
		w := performRequest(engine, http.MethodGet, "/api/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
	})

	t.Run("webhooks path is not the frontend", func(t *testing.T) {
		w := performRequest(engine, http.MethodGet, "/webhooks/extra", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-GET falls through to 404", func(t *testing.T) {
		w := performRequest(engine, http.MethodPost, "/products", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("known api route still routed", func(t *testing.T) {
		w := performRequest(engine, http.MethodGet, "/api/ping", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestSPAHandler_NotBuilt(t *testing.T) {
	engine := setupSPA(fstest.MapFS{})

	w := performRequest(engine, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeData(t, w, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Frontend is not built", resp.Error.Message)
}
