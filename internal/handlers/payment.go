// internal/handlers/payment.go
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/decorahub/ecommerce-backend/internal/i18n"
	"github.com/decorahub/ecommerce-backend/internal/services"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

// webhookMaxBodyBytes bounds webhook reads. Stripe documents events up to
// roughly 1MB.
const webhookMaxBodyBytes = 1 << 20

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// POST /payments/intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	var req services.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	intent, err := h.paymentService.CreatePaymentIntent(userID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, intent)
}

// POST /payments/confirm
func (h *PaymentHandler) Confirm(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	var req services.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	payment, err := h.paymentService.ConfirmPayment(userID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPaymentSuccess),
		"payment": payment,
	})
}

// GET /payments
func (h *PaymentHandler) History(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	params := utils.GetPaginationParams(c)
	payments, total, err := h.paymentService.GetPaymentHistory(userID, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(payments, total, params))
}

// GET /admin/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, payment)
}

// GET /admin/payments
func (h *PaymentHandler) ListAll(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	payments, total, err := h.paymentService.ListPayments(c.Query("status"), params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(payments, total, params))
}

// POST /admin/payments/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	payment, err := h.paymentService.Refund(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPaymentRefunded),
		"payment": payment,
	})
}

// POST /payments/webhook
//
// Unauthenticated; authenticity rides on the gateway signature. The body is
// read raw because the signature covers the exact bytes. The cap only guards
// against unbounded bodies; Stripe events can run well past 64KB, and a
// truncated payload would fail signature verification and be retried forever.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookMaxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.paymentService.HandleWebhook(payload, signature); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
