package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/shopify"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/dto"
)

const webhookSecret = "whsec_test"

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func webhookHeaders(body, topic, shop, id string) []string {
	return []string{
		shopify.HeaderHmac, sign(body),
		shopify.HeaderTopic, topic,
		shopify.HeaderShop, shop,
		shopify.HeaderWebhook, id,
	}
}

func setupWebhookRoutes(env *testEnv, secret string, idempotency shared.IdempotencyStore, log *zap.Logger) *gin.Engine {
	h := NewWebhookHandler(shopify.NewWebhookVerifier(secret), env.snapshots, idempotency, time.Hour, log)
	engine := newEngine()
	engine.POST("/webhooks", h.Receive)
	return engine
}

type failingIdempotency struct{}

func (failingIdempotency) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
func (failingIdempotency) IsProcessed(context.Context, string) (bool, error) { return false, nil }
func (failingIdempotency) Close() error                                     { return nil }

func TestWebhookHandler_Receive(t *testing.T) {
	const body = `{"id":1,"title":"Amber Mug"}`

	t.Run("catalog topic invalidates the snapshot", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectCatalog(testCatalog()...)
		engine := setupWebhookRoutes(env, webhookSecret, env.stack.Idempotency, nil)
		_, err := env.snapshots.Get(context.Background())
		require.NoError(t, err)

		w := performRequest(engine, http.MethodPost, "/webhooks", body,
			webhookHeaders(body, shopify.TopicProductsUpdate, testShop, "wh-1")...)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var ack WebhookAck
		decodeData(t, w, &ack)
		assert.Equal(t, WebhookAck{Topic: shopify.TopicProductsUpdate, Invalidated: true}, ack)

		_, err = env.snapshots.Get(context.Background())
		require.NoError(t, err)
		env.platform.AssertNumberOfCalls(t, "ListProducts", 2)
	})

	t.Run("redelivery is acknowledged once", func(t *testing.T) {
		env := newTestEnv(t)
		engine := setupWebhookRoutes(env, webhookSecret, env.stack.Idempotency, nil)
		headers := webhookHeaders(body, shopify.TopicInventoryLevelsUpdate, testShop, "wh-dup")

		first := performRequest(engine, http.MethodPost, "/webhooks", body, headers...)
		require.Equal(t, http.StatusOK, first.Code)
		second := performRequest(engine, http.MethodPost, "/webhooks", body, headers...)
		require.Equal(t, http.StatusOK, second.Code)

		var ack WebhookAck
		decodeData(t, second, &ack)
		assert.True(t, ack.Duplicate)
		assert.False(t, ack.Invalidated)
	})

	t.Run("idempotency failure still processes", func(t *testing.T) {
		env := newTestEnv(t)
		core, logs := observer.New(zapcore.WarnLevel)
		engine := setupWebhookRoutes(env, webhookSecret, failingIdempotency{}, zap.New(core))

		w := performRequest(engine, http.MethodPost, "/webhooks", body,
			webhookHeaders(body, shopify.TopicCollectionsUpdate, testShop, "wh-2")...)
		require.Equal(t, http.StatusOK, w.Code)
		var ack WebhookAck
		decodeData(t, w, &ack)
		assert.True(t, ack.Invalidated)
		assert.Equal(t, 1, logs.FilterMessage("Webhook idempotency check failed, processing anyway").Len())
	})

	t.Run("privacy topic acknowledged", func(t *testing.T) {
		env := newTestEnv(t)
		core, logs := observer.New(zapcore.InfoLevel)
		engine := setupWebhookRoutes(env, webhookSecret, nil, zap.New(core))

		w := performRequest(engine, http.MethodPost, "/webhooks", body,
			webhookHeaders(body, shopify.TopicCustomersRedact, testShop, "wh-3")...)
		require.Equal(t, http.StatusOK, w.Code)
		var ack WebhookAck
		decodeData(t, w, &ack)
		assert.False(t, ack.Invalidated)
		entries := logs.FilterMessage("Privacy webhook acknowledged").All()
		require.Len(t, entries, 1)
		assert.Equal(t, shopify.TopicCustomersRedact, entries[0].ContextMap()["topic"])
	})

	t.Run("other shop ignored", func(t *testing.T) {
		env := newTestEnv(t)
		engine := setupWebhookRoutes(env, webhookSecret, nil, nil)

		w := performRequest(engine, http.MethodPost, "/webhooks", body,
			webhookHeaders(body, shopify.TopicProductsCreate, "other.myshopify.com", "wh-4")...)
		require.Equal(t, http.StatusOK, w.Code)
		var ack WebhookAck
		decodeData(t, w, &ack)
		assert.False(t, ack.Invalidated)
	})

	t.Run("bad signature", func(t *testing.T) {
		env := newTestEnv(t)
		engine := setupWebhookRoutes(env, webhookSecret, nil, nil)
		headers := webhookHeaders(body, shopify.TopicProductsUpdate, testShop, "wh-5")
		headers[1] = sign(body + "tampered")

		w := performRequest(engine, http.MethodPost, "/webhooks", body, headers...)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidSignature, errorCode(t, w))
	})

	t.Run("missing signature", func(t *testing.T) {
		env := newTestEnv(t)
		engine := setupWebhookRoutes(env, webhookSecret, nil, nil)

		w := performRequest(engine, http.MethodPost, "/webhooks", body, shopify.HeaderTopic, shopify.TopicProductsUpdate)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("secret not configured", func(t *testing.T) {
		env := newTestEnv(t)
		engine := setupWebhookRoutes(env, "", nil, nil)

		w := performRequest(engine, http.MethodPost, "/webhooks", body,
			webhookHeaders(body, shopify.TopicProductsUpdate, testShop, "wh-6")...)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeServiceUnavailable, errorCode(t, w))
	})
}
