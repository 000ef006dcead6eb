package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	bookingRepo "interviewhub/database/repository/booking"
	"interviewhub/models"
	"interviewhub/services/pricing"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// Refunder is implemented by processors that can refund captured payments.
type Refunder interface {
	Refund(ctx context.Context, paymentIntentID string) error
}

// StripePaymentProcessor charges the candidate through a PaymentIntent and,
// when the interviewer has a connected account, routes the subtotal to it
// while keeping the platform fee as application fee.
type StripePaymentProcessor struct {
	logger *zap.Logger
}

func NewStripePaymentProcessor(logger *zap.Logger) *StripePaymentProcessor {
	return &StripePaymentProcessor{logger: logger}
}

func (p *StripePaymentProcessor) CreateIntent(ctx context.Context, req models.PaymentRequest) (*models.PaymentIntent, error) {
	if err := validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	params := intentParams(req)
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Payment intent created",
		zap.String("bookingID", req.BookingID), zap.String("paymentIntentID", pi.ID))
	return &models.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

func (p *StripePaymentProcessor) CancelIntent(ctx context.Context, paymentIntentID string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonRequestedByCustomer)),
	}
	params.Context = ctx
	_, err := paymentintent.Cancel(paymentIntentID, params)
	return err
}

// Refund returns the full amount, pulls back the transfer and the fee.
func (p *StripePaymentProcessor) Refund(ctx context.Context, paymentIntentID string) error {
	params := &stripe.RefundParams{
		PaymentIntent:        stripe.String(paymentIntentID),
		ReverseTransfer:      stripe.Bool(true),
		RefundApplicationFee: stripe.Bool(true),
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund_" + paymentIntentID)
	_, err := refund.New(params)
	return err
}

func intentParams(req models.PaymentRequest) *stripe.PaymentIntentParams {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(pricing.ToMinorUnits(req.Amount)),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.DestinationAccount != "" {
		params.ApplicationFeeAmount = stripe.Int64(pricing.ToMinorUnits(req.ApplicationFee))
		params.TransferData = &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(req.DestinationAccount),
		}
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.Idempotency != "" {
		params.SetIdempotencyKey("booking_" + req.Idempotency)
	}
	return params
}

func validateRequest(req models.PaymentRequest) error {
	if req.Amount <= 0 {
		return errors.New("invalid payment amount")
	}
	if req.BookingID == "" {
		return errors.New("missing booking ID")
	}
	if req.Currency == "" {
		return errors.New("missing currency")
	}
	if req.ApplicationFee < 0 || req.ApplicationFee > req.Amount {
		return errors.New("application fee out of range")
	}
	return nil
}

// PaymentEvent is the part of a verified webhook event the service acts on.
type PaymentEvent struct {
	Type            string
	PaymentIntentID string
}

// Webhook event types handled by HandlePaymentEvent.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventPaymentCanceled  = "payment_intent.canceled"
)

// ParseWebhook verifies the Stripe-Signature header and extracts the payment intent.
func ParseWebhook(payload []byte, signature, secret string) (*PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid webhook signature: %w", err)
	}

	out := &PaymentEvent{Type: string(event.Type)}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return out, nil
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent: %w", err)
	}
	out.PaymentIntentID = pi.ID
	return out, nil
}

// HandlePaymentEvent applies a verified event to its booking. Unknown event
// types and intents that belong to no booking are ignored.
func (s *DefaultBookingService) HandlePaymentEvent(ctx context.Context, ev PaymentEvent) error {
	if ev.PaymentIntentID == "" {
		return nil
	}
	var err error
	switch ev.Type {
	case EventPaymentSucceeded:
		_, err = s.ConfirmPayment(ctx, ev.PaymentIntentID)
	case EventPaymentFailed:
		// The candidate may retry with another card; the slot stays held.
		s.Logger.Info("Payment attempt failed", zap.String("paymentIntentID", ev.PaymentIntentID))
	case EventPaymentCanceled:
		err = s.ReleaseUnpaid(ctx, ev.PaymentIntentID)
	default:
		s.Logger.Debug("Ignoring payment event", zap.String("type", ev.Type))
	}
	if errors.Is(err, bookingRepo.ErrNotFound) {
		s.Logger.Warn("Payment event for unknown booking", zap.String("paymentIntentID", ev.PaymentIntentID))
		return nil
	}
	return err
}
