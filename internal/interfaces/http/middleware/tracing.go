// Package middleware provides the gin middleware chain of the editor API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/telemetry"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// Filter drops requests from tracing when it returns false
	Filter func(*http.Request) bool
}

// TracingWithConfig wraps otelgin. Spans are named after the route pattern
// and carry the request id and shop.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	var opts []otelgin.Option
	if cfg.Filter != nil {
		opts = append(opts, otelgin.WithFilter(cfg.Filter))
	}
	return otelgin.Middleware(cfg.ServiceName, opts...)
}

// SpanEnricher tags the active span with the request id, shop and staff,
// and marks 5xx responses as errors. It runs inside the traced chain.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		if id := c.GetString(RequestIDKey); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if shop := c.GetString(ShopKey); shop != "" {
			span.SetAttributes(telemetry.AttrShop.String(shop))
		}

		c.Next()

		if staff := GetJWTStaff(c); staff != "" {
			span.SetAttributes(attribute.String("staff", staff))
		}
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// SkipHealthChecks is a tracing filter that drops /health
func SkipHealthChecks(r *http.Request) bool {
	return r.URL.Path != "/health"
}
