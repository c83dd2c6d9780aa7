package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/application/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/logger"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/shopify"
)

// WebhookVerifier authenticates a webhook delivery
type WebhookVerifier interface {
	Verify(r *http.Request) error
}

// WebhookHandler receives store webhooks
type WebhookHandler struct {
	BaseHandler
	verifier    WebhookVerifier
	snapshots   *catalogapp.SnapshotLoader
	idempotency shared.IdempotencyStore
	ttl         time.Duration
	logger      *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler. idempotency may be nil, in
// which case redelivered webhooks are processed again.
func NewWebhookHandler(
	verifier WebhookVerifier,
	snapshots *catalogapp.SnapshotLoader,
	idempotency shared.IdempotencyStore,
	ttl time.Duration,
	log *zap.Logger,
) *WebhookHandler {
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookHandler{
		verifier:    verifier,
		snapshots:   snapshots,
		idempotency: idempotency,
		ttl:         ttl,
		logger:      log,
	}
}

// WebhookAck reports what a delivery caused
// @name HandlerWebhookAck
type WebhookAck struct {
	Topic       string `json:"topic" example:"products/update"`
	Duplicate   bool   `json:"duplicate"`
	Invalidated bool   `json:"invalidated"`
}

// Receive godoc
// @ID           receiveWebhook
// @Summary      Receive a store webhook
// @Description  Verifies the HMAC signature. Catalog topics invalidate the snapshot cache,
// @Description  privacy topics are acknowledged. Redelivered webhook IDs are ignored.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Shopify-Hmac-Sha256 header string true  "Base64 HMAC-SHA256 of the body"
// @Param        X-Shopify-Topic       header string true  "Webhook topic"
// @Param        X-Shopify-Shop-Domain header string false "Shop domain"
// @Param        X-Shopify-Webhook-Id  header string false "Delivery ID"
// @Success      200 {object} APIResponse[WebhookAck]
// @Failure      401 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /webhooks [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	if err := h.verifier.Verify(c.Request); err != nil {
		h.logger.Warn("Webhook rejected", zap.Error(err), zap.String("client_ip", c.ClientIP()))
		h.HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	topic := c.GetHeader(shopify.HeaderTopic)
	shop := c.GetHeader(shopify.HeaderShop)
	deliveryID := c.GetHeader(shopify.HeaderWebhook)
	log := h.logger.With(
		zap.String("request_id", logger.GetRequestID(ctx)),
		zap.String("topic", topic),
		zap.String("webhook_shop", shop),
		zap.String("webhook_id", deliveryID),
	)
	ack := WebhookAck{Topic: topic}

	if deliveryID != "" && h.idempotency != nil {
		fresh, err := h.idempotency.MarkProcessed(ctx, "webhook:"+deliveryID, h.ttl)
		if err != nil {
			log.Warn("Webhook idempotency check failed, processing anyway", zap.Error(err))
		} else if !fresh {
			log.Debug("Duplicate webhook delivery ignored")
			ack.Duplicate = true
			h.Success(c, ack)
			return
		}
	}

	if shop != "" && shop != h.snapshots.Shop() {
		log.Warn("Webhook for another shop ignored")
		h.Success(c, ack)
		return
	}

	switch {
	case shopify.IsPrivacyTopic(topic):
		log.Info("Privacy webhook acknowledged")
	case shopify.IsCatalogTopic(topic):
		h.snapshots.Invalidate(ctx, catalogapp.ReasonWebhook)
		ack.Invalidated = true
		log.Info("Catalog webhook invalidated snapshot")
	default:
		log.Info("Unhandled webhook topic")
	}
	h.Success(c, ack)
}
