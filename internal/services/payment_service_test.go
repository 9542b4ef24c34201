// internal/services/payment_service_test.go
package services

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/models"
)

func signWebhookPayload(payload []byte, secret string) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	cfg := &config.Config{}
	cfg.Payment.StripeWebhookSecret = "whsec_test"

	svc := NewPaymentService(nil, cfg, nil)

	err := svc.HandleWebhook([]byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`), "t=1,v1=deadbeef")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestHandleWebhookRejectsMissingSignature(t *testing.T) {
	cfg := &config.Config{}
	cfg.Payment.StripeWebhookSecret = "whsec_test"

	svc := NewPaymentService(nil, cfg, nil)

	err := svc.HandleWebhook([]byte(`{}`), "")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestHandleWebhookRedeliveryIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{}
	cfg.Payment.StripeWebhookSecret = "whsec_test"

	svc := NewPaymentService(db, cfg, nil)

	payload := []byte(`{"id":"evt_dup_1","type":"customer.created"}`)
	signature := signWebhookPayload(payload, cfg.Payment.StripeWebhookSecret)

	require.NoError(t, svc.HandleWebhook(payload, signature))
	require.NoError(t, svc.HandleWebhook(payload, signature))

	var events []models.WebhookEvent
	require.NoError(t, db.Where("gateway = ? AND event_id = ?", "stripe", "evt_dup_1").Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "customer.created", events[0].EventType)
	assert.NotNil(t, events[0].ProcessedAt)
}
