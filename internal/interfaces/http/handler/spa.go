package handler

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIKeyPlaceholder is replaced with the app's API key in index.html so the
// embedded frontend can initialise App Bridge.
const APIKeyPlaceholder = "%VITE_SHOPIFY_API_KEY%"

// SPAHandler serves the built admin frontend
type SPAHandler struct {
	BaseHandler
	fs     http.FileSystem
	apiKey string

	once     sync.Once
	index    []byte
	indexErr error
}

// NewSPAHandler serves files below staticPath
func NewSPAHandler(staticPath, apiKey string) *SPAHandler {
	return NewSPAHandlerFS(http.Dir(staticPath), apiKey)
}

// NewSPAHandlerFS serves files from fsys
func NewSPAHandlerFS(fsys http.FileSystem, apiKey string) *SPAHandler {
	return &SPAHandler{fs: fsys, apiKey: apiKey}
}

// Serve answers every route the router does not know. Existing files are
// served as-is, everything else gets index.html so client-side routing works.
// Unknown API paths keep answering with the JSON envelope.
func (h *SPAHandler) Serve(c *gin.Context) {
	path := c.Request.URL.Path
	if isBackendPath(path) || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
		h.NotFound(c, "Route not found")
		return
	}

	if path != "/" && !strings.HasSuffix(path, "/index.html") && h.isFile(path) {
		c.FileFromFS(path, h.fs)
		return
	}

	index, err := h.loadIndex()
	if err != nil {
		h.NotFound(c, "Frontend is not built")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", index)
}

func (h *SPAHandler) isFile(path string) bool {
	f, err := h.fs.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	st, err := f.Stat()
	return err == nil && !st.IsDir()
}

func (h *SPAHandler) loadIndex() ([]byte, error) {
	h.once.Do(func() {
		f, err := h.fs.Open("/index.html")
		if err != nil {
			h.indexErr = err
			return
		}
		defer f.Close()
		raw, err := io.ReadAll(f)
		if err != nil {
			h.indexErr = err
			return
		}
		h.index = bytes.ReplaceAll(raw, []byte(APIKeyPlaceholder), []byte(h.apiKey))
	})
	return h.index, h.indexErr
}

func isBackendPath(path string) bool {
	for _, prefix := range []string{"/api", "/webhooks", "/swagger"} {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
