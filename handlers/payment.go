package handlers

import (
	"io"
	"net/http"

	"interviewhub/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBytes = 65536

// PaymentHandler receives Stripe webhooks.
type PaymentHandler struct {
	Bookings      BookingService
	WebhookSecret string
	Logger        *zap.Logger
}

func NewPaymentHandler(bookings BookingService, webhookSecret string, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Bookings: bookings, WebhookSecret: webhookSecret, Logger: logger}
}

// Webhook handles POST /api/payments/webhook.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not read body"})
		return
	}

	ev, err := booking.ParseWebhook(payload, c.GetHeader("Stripe-Signature"), h.WebhookSecret)
	if err != nil {
		h.Logger.Warn("Rejected payment webhook", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if err := h.Bookings.HandlePaymentEvent(c.Request.Context(), *ev); err != nil {
		h.Logger.Error("Failed to apply payment event",
			zap.String("type", ev.Type), zap.String("paymentIntentID", ev.PaymentIntentID), zap.Error(err))
		// Non-2xx makes Stripe retry the delivery.
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
