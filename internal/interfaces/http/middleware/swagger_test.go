package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/dto"
)

func newSwaggerRouter(cfg SwaggerConfig, jwt gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, "swagger")
	})
	return router
}

func serveFrom(router *gin.Engine, remoteAddr string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	t.Run("disabled answers 404", func(t *testing.T) {
		w := serveFrom(newSwaggerRouter(SwaggerConfig{}, nil), "10.0.0.1:1234", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
	})

	t.Run("enabled without restrictions", func(t *testing.T) {
		w := serveFrom(newSwaggerRouter(SwaggerConfig{Enabled: true}, nil), "10.0.0.1:1234", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ip allow list with cidr", func(t *testing.T) {
		router := newSwaggerRouter(SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1", "10.0.0.0/8"}}, nil)

		assert.Equal(t, http.StatusOK, serveFrom(router, "127.0.0.1:1", nil).Code)
		assert.Equal(t, http.StatusOK, serveFrom(router, "10.20.30.40:1", nil).Code)
		w := serveFrom(router, "192.168.1.5:1", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
	})

	t.Run("require auth delegates to jwt", func(t *testing.T) {
		svc := newTestJWTService(testShop)
		router := newSwaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, JWTAuthMiddleware(svc))

		assert.Equal(t, http.StatusUnauthorized, serveFrom(router, "10.0.0.1:1", nil).Code)

		header := http.Header{}
		header.Set(AuthHeaderKey, BearerPrefix+mintToken(t, svc).AccessToken)
		assert.Equal(t, http.StatusOK, serveFrom(router, "10.0.0.1:1", header).Code)
	})
}

func TestParseAllowList(t *testing.T) {
	ips, nets := parseAllowList([]string{"192.168.1.1", "10.0.0.0/8", "not-an-ip", "300.0.0.0/33"})

	assert.Len(t, ips, 1)
	assert.Len(t, nets, 1)
	assert.True(t, isIPAllowed(net.ParseIP("10.1.1.1"), ips, nets))
	assert.False(t, isIPAllowed(nil, ips, nets))
}
