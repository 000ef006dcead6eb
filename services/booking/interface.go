package booking

import (
	"context"
	"time"

	"interviewhub/models"
)

// BookingService creates bookings and moves them through their lifecycle.
type BookingService interface {
	Quote(ctx context.Context, req models.QuoteRequest) (*models.PricingBreakdown, error)
	CreateBooking(ctx context.Context, candidateID string, in models.BookingInput) (*models.Booking, error)
	ConfirmPayment(ctx context.Context, paymentIntentID string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]models.Booking, error)
}

type InterviewerReader interface {
	GetByID(ctx context.Context, id string) (*models.Interviewer, error)
}

type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Booking, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]models.Booking, error)
	ListByInterviewer(ctx context.Context, interviewerID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id string, from []string, to string) (*models.Booking, error)
	SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error
}

// SlotChecker is satisfied by *availability.Service.
type SlotChecker interface {
	IsBookable(ctx context.Context, iv models.Interviewer, date, start string, durationMinutes int) (bool, error)
}

// PaymentProcessor collects booking payments.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, req models.PaymentRequest) (*models.PaymentIntent, error)
	CancelIntent(ctx context.Context, paymentIntentID string) error
}

// ReminderScheduler is satisfied by *tasks.Enqueuer.
type ReminderScheduler interface {
	EnqueueReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// ExpiryScheduler is satisfied by *tasks.Enqueuer.
type ExpiryScheduler interface {
	EnqueueBookingExpiry(ctx context.Context, bookingID string, at time.Time) error
}
