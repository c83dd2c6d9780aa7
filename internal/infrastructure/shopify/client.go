package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/telemetry"
)

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 10 << 20

const instrumentationName = "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/shopify"

// Client talks to the Admin GraphQL endpoint of one shop
type Client struct {
	cfg        *Config
	httpClient *http.Client
	endpoint   string
	logger     *zap.Logger
	tracer     trace.Tracer
	calls      *telemetry.Counter
	duration   *telemetry.Histogram
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMeter records call counts and latencies on the given meter
func WithMeter(m metric.Meter) Option {
	return func(c *Client) {
		c.calls, _ = telemetry.NewCounter(m, "shopify_api_calls_total", "Admin API calls by kind and outcome", "{call}")
		c.duration, _ = telemetry.NewHistogram(m, telemetry.HistogramOpts{
			Name:        "shopify_api_call_duration_seconds",
			Description: "Admin API call latency",
			Unit:        "s",
			Boundaries:  telemetry.HTTPDurationBuckets,
		})
	}
}

// NewClient creates a GraphQL client. The config is validated first.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, integration.ErrPlatformNotConfigured
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformNotConfigured, err)
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   fmt.Sprintf("https://%s/admin/api/%s/graphql.json", cfg.ShopDomain, cfg.APIVersion),
		logger:     zap.NewNop(),
		tracer:     otel.Tracer(instrumentationName),
	}
	WithMeter(otel.Meter(instrumentationName))(c)
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("shopify")
	return c, nil
}

// Endpoint returns the GraphQL URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Query runs a GraphQL document and decodes data into out
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	resp, err := c.Execute(ctx, query, variables)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return fmt.Errorf("%w: empty data", integration.ErrPlatformInvalidResponse)
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	return nil
}

// Execute runs a GraphQL document, retrying on throttling, 429 and 5xx
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (*GraphQLResponse, error) {
	payload, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to marshal request: %w", err)
	}

	op := operationName(query)
	ctx, span := c.tracer.Start(ctx, "shopify.graphql "+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("shopify.shop", c.cfg.ShopDomain),
			attribute.String("graphql.operation.name", op),
		))
	defer span.End()

	for attempt := 0; ; attempt++ {
		start := time.Now()
		resp, err := c.do(ctx, payload)
		outcome := "ok"

		var delay time.Duration
		switch {
		case err == nil && len(resp.Errors) == 0:
			c.record(ctx, op, outcome, start)
			span.SetAttributes(attribute.Int("shopify.attempts", attempt+1))
			return resp, nil
		case err == nil && isThrottleGraphQLError(resp.Errors):
			outcome = "throttled"
			err = fmt.Errorf("%w: %s", integration.ErrPlatformRateLimited, joinMessages(resp.Errors))
			delay = throttleDelay(resp.Extensions, attempt)
		case err == nil:
			c.record(ctx, op, "graphql_error", start)
			err = fmt.Errorf("%w: %s", integration.ErrPlatformRequestFailed, joinMessages(resp.Errors))
			span.RecordError(err)
			span.SetStatus(codes.Error, "graphql errors")
			return nil, err
		case isRetryableHTTPError(err) || errors.Is(err, integration.ErrPlatformUnavailable):
			outcome = "retryable_error"
			delay = retryDelay(attempt)
			var httpErr *httpStatusError
			if errors.As(err, &httpErr) && httpErr.retryAfter > delay {
				delay = httpErr.retryAfter
			}
		default:
			c.record(ctx, op, "error", start)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		c.record(ctx, op, outcome, start)

		if attempt+1 >= c.cfg.MaxRetries || ctx.Err() != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "retries exhausted")
			return nil, err
		}
		c.logger.Warn("Retrying Admin API call",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if serr := sleepWithContext(ctx, delay); serr != nil {
			return nil, serr
		}
	}
}

// do performs one HTTP round trip
func (c *Client) do(ctx context.Context, payload []byte) (*GraphQLResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, classifyStatus(newHTTPStatusError(resp, body))
	}

	var out GraphQLResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	return &out, nil
}

// classifyStatus wraps an HTTP failure with the matching integration error
func classifyStatus(httpErr *httpStatusError) error {
	var sentinel error
	switch {
	case httpErr.statusCode == http.StatusUnauthorized || httpErr.statusCode == http.StatusForbidden:
		sentinel = integration.ErrPlatformAuthFailed
	case httpErr.statusCode == http.StatusNotFound:
		sentinel = integration.ErrPlatformNotFound
	case httpErr.statusCode == http.StatusTooManyRequests:
		sentinel = integration.ErrPlatformRateLimited
	case httpErr.statusCode >= http.StatusInternalServerError:
		sentinel = integration.ErrPlatformUnavailable
	default:
		sentinel = integration.ErrPlatformRequestFailed
	}
	return fmt.Errorf("%w: %w", sentinel, httpErr)
}

func (c *Client) record(ctx context.Context, op, outcome string, start time.Time) {
	attrs := []attribute.KeyValue{
		attribute.String("api", "graphql"),
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	}
	if c.calls != nil {
		c.calls.Inc(ctx, attrs...)
	}
	if c.duration != nil {
		c.duration.RecordDuration(ctx, time.Since(start), attrs...)
	}
}

// throttleDelay waits long enough for the bucket to refill the requested
// cost, falling back to exponential backoff when no cost report is present.
func throttleDelay(ext *Extensions, attempt int) time.Duration {
	backoff := retryDelay(attempt)
	if ext == nil || ext.Cost.ThrottleStatus.RestoreRate <= 0 {
		return backoff
	}
	missing := ext.Cost.RequestedQueryCost - ext.Cost.ThrottleStatus.CurrentlyAvailable
	if missing <= 0 {
		return backoff
	}
	d := time.Duration(missing / ext.Cost.ThrottleStatus.RestoreRate * float64(time.Second))
	if d > retryMaxDelay {
		return retryMaxDelay
	}
	if d < backoff {
		return backoff
	}
	return d
}

func joinMessages(errs []GraphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// operationName extracts "Products" from "query Products(...)"
func operationName(query string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		if (f == "query" || f == "mutation") && i+1 < len(fields) {
			name := fields[i+1]
			if j := strings.IndexAny(name, "({"); j >= 0 {
				name = name[:j]
			}
			if name != "" {
				return name
			}
		}
	}
	return "anonymous"
}

// fetchAll follows cursors until the connection reports no next page
func fetchAll[D any, T any](ctx context.Context, c *Client, query string, first int,
	conn func(*D) *connection[T], visit func(cursor string, node T)) error {
	vars := map[string]any{"first": first}
	seen := make(map[string]struct{})
	for {
		var data D
		if err := c.Query(ctx, query, vars, &data); err != nil {
			return err
		}
		cn := conn(&data)
		for _, e := range cn.Edges {
			visit(e.Cursor, e.Node)
		}
		if !cn.PageInfo.HasNextPage || cn.PageInfo.EndCursor == "" {
			return nil
		}
		if _, dup := seen[cn.PageInfo.EndCursor]; dup {
			return fmt.Errorf("%w: cursor %q repeated", integration.ErrPlatformInvalidResponse, cn.PageInfo.EndCursor)
		}
		seen[cn.PageInfo.EndCursor] = struct{}{}
		vars = map[string]any{"first": first, "after": cn.PageInfo.EndCursor}
	}
}
