// internal/handlers/payment_test.go
package handlers

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/models"
	"github.com/decorahub/ecommerce-backend/internal/services"
)

func TestWebhookAcceptsLargeEventBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.WebhookEvent{}))

	cfg := &config.Config{}
	cfg.Payment.StripeWebhookSecret = "whsec_test"
	handler := NewPaymentHandler(services.NewPaymentService(db, cfg, nil))

	r := gin.New()
	r.POST("/payments/webhook", handler.Webhook)

	// Well past 64KB. A truncated read would break the signature check and
	// the gateway would retry the event forever.
	padding := strings.Repeat("x", 200*1024)
	payload := []byte(fmt.Sprintf(
		`{"id":"evt_big_1","type":"customer.created","data":{"object":{"note":"%s"}}}`, padding))

	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, cfg.Payment.StripeWebhookSecret)

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
