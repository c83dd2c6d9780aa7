package shopify

import (
	"net/http"
	"strings"

	goshopify "github.com/bold-commerce/go-shopify/v4"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
)

// Webhook headers sent by Shopify
const (
	HeaderHmac    = "X-Shopify-Hmac-Sha256"
	HeaderTopic   = "X-Shopify-Topic"
	HeaderShop    = "X-Shopify-Shop-Domain"
	HeaderWebhook = "X-Shopify-Webhook-Id"
)

// Webhook topics. The first three are the mandatory privacy topics.
const (
	TopicCustomersDataRequest  = "customers/data_request"
	TopicCustomersRedact       = "customers/redact"
	TopicShopRedact            = "shop/redact"
	TopicProductsCreate        = "products/create"
	TopicProductsUpdate        = "products/update"
	TopicProductsDelete        = "products/delete"
	TopicInventoryLevelsUpdate = "inventory_levels/update"
	TopicCollectionsUpdate     = "collections/update"
)

// IsPrivacyTopic reports whether the topic is one of the mandatory privacy
// topics. The app stores no customer data so these only need acknowledging.
func IsPrivacyTopic(topic string) bool {
	switch topic {
	case TopicCustomersDataRequest, TopicCustomersRedact, TopicShopRedact:
		return true
	}
	return false
}

// IsCatalogTopic reports whether the topic changes data held in the catalog
// snapshot.
func IsCatalogTopic(topic string) bool {
	resource, _, ok := strings.Cut(topic, "/")
	if !ok {
		return false
	}
	switch resource {
	case "products", "inventory_levels", "inventory_items", "collections":
		return true
	}
	return false
}

// WebhookVerifier checks the HMAC signature of webhook deliveries
type WebhookVerifier struct {
	app goshopify.App
}

// NewWebhookVerifier creates a verifier for the app secret
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{app: goshopify.App{ApiSecret: secret}}
}

// Verify checks the request signature. The body is restored afterwards so
// handlers can still read it.
func (v *WebhookVerifier) Verify(r *http.Request) error {
	if v.app.ApiSecret == "" {
		return integration.ErrPlatformNotConfigured
	}
	if r.Header.Get(HeaderHmac) == "" {
		return integration.ErrPlatformInvalidSignature
	}
	if !v.app.VerifyWebhookRequest(r) {
		return integration.ErrPlatformInvalidSignature
	}
	return nil
}
