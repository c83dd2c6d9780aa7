package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSystemRoutes(h *SystemHandler) *gin.Engine {
	engine := newEngine()
	engine.GET("/health", h.Health)
	engine.GET("/api/system/info", h.GetSystemInfo)
	return engine
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("editor", "1.0.0", nil)
	assert.NotNil(t, h.checks)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	engine := setupSystemRoutes(NewSystemHandler("quick-bulk-product-editor", "1.2.3", nil))

	w := performRequest(engine, http.MethodGet, "/api/system/info", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var info SystemInfoResponse
	resp := decodeData(t, w, &info)
	assert.True(t, resp.Success)
	assert.Equal(t, "quick-bulk-product-editor", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Uptime)
}

func TestSystemHandler_Health(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name           string
		checks         map[string]HealthCheck
		expectedStatus int
		expected       HealthResponse
	}{
		{
			name:           "no dependencies",
			expectedStatus: http.StatusOK,
			expected:       HealthResponse{Status: "healthy", Checks: map[string]string{}},
		},
		{
			name:           "all up",
			checks:         map[string]HealthCheck{"database": up, "redis": up},
			expectedStatus: http.StatusOK,
			expected:       HealthResponse{Status: "healthy", Checks: map[string]string{"database": "up", "redis": "up"}},
		},
		{
			name:           "one down",
			checks:         map[string]HealthCheck{"database": up, "redis": down},
			expectedStatus: http.StatusServiceUnavailable,
			expected:       HealthResponse{Status: "unhealthy", Checks: map[string]string{"database": "up", "redis": "down"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := setupSystemRoutes(NewSystemHandler("editor", "1.0.0", tt.checks))
			w := performRequest(engine, http.MethodGet, "/health", nil)
			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expected, resp)
		})
	}

	t.Run("checks see a deadline", func(t *testing.T) {
		var hasDeadline bool
		h := NewSystemHandler("editor", "1.0.0", map[string]HealthCheck{
			"database": func(ctx context.Context) error {
				_, hasDeadline = ctx.Deadline()
				return nil
			},
		})
		w := performRequest(setupSystemRoutes(h), http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hasDeadline)
	})
}
