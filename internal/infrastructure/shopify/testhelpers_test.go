package shopify

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testShop = "test-store.myshopify.com"

// rewriteTransport sends every request to the test server, keeping path and
// query. Both API clients build https://{shop} URLs.
type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = t.target.Scheme
	r.URL.Host = t.target.Host
	r.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

func newTestAdapter(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	cfg := &Config{
		ShopDomain:  testShop,
		AccessToken: "shpat_test",
		APISecret:   "secret",
		APIVersion:  "2024-10",
		LocationID:  99,
		MaxRetries:  2,
		Timeout:     5 * time.Second,
	}
	for _, m := range mutate {
		m(cfg)
	}

	hc := &http.Client{Transport: &rewriteTransport{target: target}, Timeout: 5 * time.Second}
	a, err := NewAdapter(cfg, WithHTTPClient(hc))
	require.NoError(t, err)
	return a
}
