package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/auth"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/config"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/middleware"
)

func TestAPIGroups_Routes(t *testing.T) {
	var routes []string
	for _, g := range APIGroups(Handlers{}, nil) {
		routes = append(routes, g.Routes()...)
	}

	assert.ElementsMatch(t, []string{
		"GET /products",
		"POST /products",
		"GET /products/tags",
		"GET /products/export",
		"GET /products/:id",
		"PUT /products/:id",
		"GET /product",
		"GET /collections",
		"GET /domain",
		"POST /cache/refresh",
		"GET /inventory",
		"GET /locations",
		"GET /inventorylevel",
		"PUT /inventorylevel/:inventoryItemId",
		"GET /views",
		"POST /views",
		"PATCH /views/:id",
		"DELETE /views/:id",
		"POST /views/:id/duplicate",
		"GET /system/info",
	}, routes)
}

func TestAPIGroups_Scopes(t *testing.T) {
	jwtService := auth.NewJWTService(config.AuthConfig{
		JWTSecret:             "test-secret-with-enough-length-0123456789",
		Issuer:                "quick-bulk-product-editor",
		AccessTokenExpiration: time.Hour,
	}, "demo.myshopify.com")

	engine := gin.New()
	r := NewRouter(engine).Use(middleware.JWTAuthMiddleware(jwtService))
	for _, g := range APIGroups(Handlers{}, nil) {
		r.Register(g)
	}
	r.Setup()

	readOnly, err := jwtService.GenerateToken(auth.TokenInput{
		Staff:  "viewer@example.com",
		Scopes: []auth.Scope{auth.ScopeProductsRead},
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"no token", http.MethodGet, "/api/products", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/views", "not-a-jwt", http.StatusUnauthorized},
		{"product write without scope", http.MethodPut, "/api/products/1", readOnly.AccessToken, http.StatusForbidden},
		{"sample create without scope", http.MethodPost, "/api/products", readOnly.AccessToken, http.StatusForbidden},
		{"inventory write without scope", http.MethodPut, "/api/inventorylevel/5", readOnly.AccessToken, http.StatusForbidden},
		{"view write without scope", http.MethodPost, "/api/views", readOnly.AccessToken, http.StatusForbidden},
		{"cache refresh without scope", http.MethodPost, "/api/cache/refresh", readOnly.AccessToken, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}
