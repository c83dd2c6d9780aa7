package shopify

import (
	"errors"
	"strings"
	"time"
)

// Config holds the store connection for the Admin API adapter
type Config struct {
	// ShopDomain is the myshopify domain, e.g. my-store.myshopify.com
	ShopDomain string
	// AccessToken is the offline Admin API token
	AccessToken string
	// APIKey and APISecret identify the app
	APIKey    string
	APISecret string
	// APIVersion is the Admin API version, e.g. 2024-10
	APIVersion string
	// LocationID is the default inventory location
	LocationID uint64
	// Timeout is the HTTP request timeout
	Timeout time.Duration
	// MaxRetries bounds attempts on throttling and 5xx responses
	MaxRetries int
	// PageSize is the GraphQL page size for product listing
	PageSize int
}

const (
	DefaultAPIVersion = "2024-10"
	DefaultPageSize   = 50
	DefaultMaxRetries = 5
	DefaultTimeout    = 30 * time.Second

	// locationPageSize mirrors the admin's location picker paging
	locationPageSize = 10
	// bulkPageSize is the API maximum, used for collections and inventory items
	bulkPageSize = 250
)

// Errors for Shopify configuration
var (
	ErrConfigMissingShopDomain  = errors.New("shopify: shop domain is required")
	ErrConfigMissingAccessToken = errors.New("shopify: access token is required")
)

// Validate checks required fields and fills defaults
func (c *Config) Validate() error {
	c.ShopDomain = NormalizeShopDomain(c.ShopDomain)
	if c.ShopDomain == "" {
		return ErrConfigMissingShopDomain
	}
	if c.AccessToken == "" {
		return ErrConfigMissingAccessToken
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.PageSize <= 0 || c.PageSize > bulkPageSize {
		c.PageSize = DefaultPageSize
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

// NormalizeShopDomain strips scheme, path and trailing slashes
func NormalizeShopDomain(domain string) string {
	domain = strings.TrimSpace(strings.ToLower(domain))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}
	return domain
}
