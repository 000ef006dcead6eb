package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	bookingRepo "interviewhub/database/repository/booking"
	"interviewhub/models"
	"interviewhub/services/availability"
	"interviewhub/services/notification"
	"interviewhub/services/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Interviewers InterviewerReader
	Bookings     BookingStore
	Slots        SlotChecker
	Payments     PaymentProcessor
	Reminders    ReminderScheduler // optional
	Expiry       ExpiryScheduler   // optional
	Logger       *zap.Logger

	Currency      string
	ReminderLead  time.Duration
	PaymentWindow time.Duration
	Now           func() time.Time
}

// DefaultPaymentWindow is how long a pending booking holds its slot.
const DefaultPaymentWindow = 30 * time.Minute

func NewBookingService(
	interviewers InterviewerReader,
	bookings BookingStore,
	slots SlotChecker,
	payments PaymentProcessor,
	reminders ReminderScheduler,
	logger *zap.Logger,
	currency string,
	reminderLead time.Duration,
) *DefaultBookingService {
	return &DefaultBookingService{
		Interviewers: interviewers,
		Bookings:     bookings,
		Slots:        slots,
		Payments:     payments,
		Reminders:    reminders,
		Logger:       logger,
		Currency:      currency,
		ReminderLead:  reminderLead,
		PaymentWindow: DefaultPaymentWindow,
		Now:           time.Now,
	}
}

// Quote prices a session without booking it.
func (s *DefaultBookingService) Quote(ctx context.Context, req models.QuoteRequest) (*models.PricingBreakdown, error) {
	iv, err := s.Interviewers.GetByID(ctx, req.InterviewerID)
	if err != nil {
		return nil, err
	}
	if err := pricing.ValidateQuoteInput(iv.HourlyRate, req.DurationMinutes); err != nil {
		return nil, err
	}
	p := pricing.Calculate(iv.HourlyRate, req.DurationMinutes, s.currencyFor(*iv))
	return &p, nil
}

// CreateBooking reserves a derived slot, prices it and opens a payment intent
// for the total. The booking stays pending_payment until the processor confirms.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, candidateID string, in models.BookingInput) (*models.Booking, error) {
	iv, err := s.Interviewers.GetByID(ctx, in.InterviewerID)
	if err != nil {
		return nil, err
	}
	if iv.ID == candidateID {
		return nil, ErrSelfBooking
	}
	if iv.HourlyRate <= 0 {
		return nil, ErrInterviewerNotBookable
	}
	if err := pricing.ValidateQuoteInput(iv.HourlyRate, in.DurationMinutes); err != nil {
		return nil, err
	}
	if !offers(*iv, in.DurationMinutes) {
		return nil, ErrDurationNotOffered
	}

	day, err := availability.ParseDate(in.Date)
	if err != nil {
		return nil, availability.ErrInvalidDate
	}
	ok, err := s.Slots.IsBookable(ctx, *iv, in.Date, in.StartTime, in.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSlotUnavailable
	}
	rule, _ := availability.MatchRule(iv.Availability, day.Weekday())

	now := s.Now().UTC()
	b := &models.Booking{
		ID:              uuid.New().String(),
		InterviewerID:   iv.ID,
		CandidateID:     candidateID,
		Date:            in.Date,
		StartTime:       in.StartTime,
		DurationMinutes: in.DurationMinutes,
		Timezone:        rule.Timezone,
		InterviewType:   in.InterviewType,
		Notes:           in.Notes,
		Status:          models.BookingPendingPayment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.ApplyPricing(pricing.Calculate(iv.HourlyRate, in.DurationMinutes, s.currencyFor(*iv)))

	if err := s.Bookings.Create(ctx, b); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	intent, err := s.Payments.CreateIntent(ctx, models.PaymentRequest{
		BookingID:          b.ID,
		CandidateID:        candidateID,
		Amount:             b.Total,
		ApplicationFee:     b.PlatformFee,
		Currency:           b.Currency,
		DestinationAccount: iv.StripeAccountID,
		Idempotency:        b.ID,
		Description:        fmt.Sprintf("Mock interview with %s on %s at %s", iv.Name, b.Date, b.StartTime),
		Metadata: map[string]string{
			"bookingId":     b.ID,
			"interviewerId": iv.ID,
			"candidateId":   candidateID,
		},
	})
	if err != nil {
		s.release(ctx, b.ID)
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	if err := s.Bookings.SetPaymentIntent(ctx, b.ID, intent.ID); err != nil {
		if cerr := s.Payments.CancelIntent(ctx, intent.ID); cerr != nil {
			s.Logger.Error("Failed to cancel orphaned payment intent",
				zap.String("bookingID", b.ID), zap.String("paymentIntentID", intent.ID), zap.Error(cerr))
		}
		s.release(ctx, b.ID)
		return nil, fmt.Errorf("failed to attach payment: %w", err)
	}
	b.PaymentIntentID = intent.ID
	b.ClientSecret = intent.ClientSecret
	s.scheduleExpiry(ctx, *b)

	s.Logger.Info("Booking created",
		zap.String("bookingID", b.ID),
		zap.String("interviewerID", b.InterviewerID),
		zap.String("date", b.Date),
		zap.String("start", b.StartTime),
		zap.Float64("total", b.Total))
	return b, nil
}

// ConfirmPayment marks the booking of a succeeded payment intent confirmed and
// schedules reminders. Repeated confirmations return the booking unchanged.
// A payment that lands on a booking cancelled in the meantime is refunded.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, paymentIntentID string) (*models.Booking, error) {
	current, err := s.Bookings.GetByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	if b, done, err := s.settled(ctx, current); done {
		return b, err
	}

	b, err := s.Bookings.UpdateStatus(ctx, current.ID, []string{models.BookingPendingPayment}, models.BookingConfirmed)
	if err != nil {
		if !errors.Is(err, bookingRepo.ErrStatusConflict) {
			return nil, err
		}
		// Lost a race with a cancel or another confirmation.
		latest, gerr := s.Bookings.GetByID(ctx, current.ID)
		if gerr != nil {
			return nil, gerr
		}
		if b, done, err := s.settled(ctx, latest); done {
			return b, err
		}
		return nil, ErrInvalidTransition
	}

	s.scheduleReminders(ctx, *b)
	s.Logger.Info("Booking confirmed", zap.String("bookingID", b.ID))
	return b, nil
}

// settled handles a succeeded payment for a booking that is no longer pending.
func (s *DefaultBookingService) settled(ctx context.Context, b *models.Booking) (*models.Booking, bool, error) {
	switch b.Status {
	case models.BookingConfirmed, models.BookingCompleted:
		return b, true, nil
	case models.BookingCancelled:
		if err := s.refund(ctx, *b); err != nil {
			return nil, true, err
		}
		return b, true, nil
	}
	return nil, false, nil
}

func (s *DefaultBookingService) refund(ctx context.Context, b models.Booking) error {
	refunder, ok := s.Payments.(Refunder)
	if !ok {
		s.Logger.Warn("Payment captured for cancelled booking but processor cannot refund",
			zap.String("bookingID", b.ID), zap.String("paymentIntentID", b.PaymentIntentID))
		return nil
	}
	if err := refunder.Refund(ctx, b.PaymentIntentID); err != nil {
		return fmt.Errorf("failed to refund payment: %w", err)
	}
	s.Logger.Warn("Refunded payment for cancelled booking",
		zap.String("bookingID", b.ID), zap.String("paymentIntentID", b.PaymentIntentID))
	return nil
}

// ReleaseUnpaid cancels a pending booking whose payment intent was cancelled.
func (s *DefaultBookingService) ReleaseUnpaid(ctx context.Context, paymentIntentID string) error {
	b, err := s.Bookings.GetByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	_, err = s.Bookings.UpdateStatus(ctx, b.ID, []string{models.BookingPendingPayment}, models.BookingCancelled)
	if err != nil && !errors.Is(err, bookingRepo.ErrStatusConflict) {
		return err
	}
	return nil
}

// ExpireUnpaid cancels the payment intent of a booking still pending after its
// payment window and frees the slot. Bookings that moved on are left alone.
// A failed intent cancel is returned so the task retries; an intent that
// succeeded meanwhile keeps failing to cancel until its webhook confirms.
func (s *DefaultBookingService) ExpireUnpaid(ctx context.Context, bookingID string) error {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.Status != models.BookingPendingPayment {
		return nil
	}
	if b.PaymentIntentID != "" {
		if err := s.Payments.CancelIntent(ctx, b.PaymentIntentID); err != nil {
			return fmt.Errorf("failed to cancel payment intent: %w", err)
		}
	}
	_, err = s.Bookings.UpdateStatus(ctx, b.ID, []string{models.BookingPendingPayment}, models.BookingCancelled)
	if err != nil && !errors.Is(err, bookingRepo.ErrStatusConflict) {
		return err
	}
	s.Logger.Info("Unpaid booking expired", zap.String("bookingID", b.ID))
	return nil
}

// CompleteBooking lets the interviewer close a confirmed session once it has started.
func (s *DefaultBookingService) CompleteBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.InterviewerID != userID {
		return nil, ErrNotInterviewer
	}
	if start, err := StartTime(*b); err == nil && s.Now().Before(start) {
		return nil, ErrTooEarlyToComplete
	}

	updated, err := s.Bookings.UpdateStatus(ctx, b.ID, []string{models.BookingConfirmed}, models.BookingCompleted)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	s.Logger.Info("Booking completed", zap.String("bookingID", b.ID))
	return updated, nil
}

// CancelBooking cancels a pending or confirmed booking and frees its slot.
// Pending intents are cancelled, captured payments refunded.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !participant(*b, userID) {
		return nil, ErrNotParticipant
	}

	from := []string{models.BookingPendingPayment, models.BookingConfirmed}
	updated, err := s.Bookings.UpdateStatus(ctx, b.ID, from, models.BookingCancelled)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	if b.PaymentIntentID != "" {
		if b.Status == models.BookingPendingPayment {
			err = s.Payments.CancelIntent(ctx, b.PaymentIntentID)
		} else if refunder, ok := s.Payments.(Refunder); ok {
			err = refunder.Refund(ctx, b.PaymentIntentID)
		}
		if err != nil {
			s.Logger.Error("Failed to reverse payment for cancelled booking",
				zap.String("bookingID", b.ID), zap.String("paymentIntentID", b.PaymentIntentID), zap.Error(err))
		}
	}

	s.Logger.Info("Booking cancelled", zap.String("bookingID", b.ID), zap.String("by", userID))
	return updated, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !participant(*b, userID) {
		return nil, ErrNotParticipant
	}
	return b, nil
}

// ListBookings returns the bookings the user takes part in, newest session first.
func (s *DefaultBookingService) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	asCandidate, err := s.Bookings.ListByCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}
	asInterviewer, err := s.Bookings.ListByInterviewer(ctx, userID)
	if err != nil {
		return nil, err
	}

	all := append(asCandidate, asInterviewer...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date > all[j].Date
		}
		return all[i].StartTime > all[j].StartTime
	})
	return all, nil
}

func (s *DefaultBookingService) scheduleReminders(ctx context.Context, b models.Booking) {
	if s.Reminders == nil {
		return
	}
	start, err := StartTime(b)
	if err != nil {
		s.Logger.Warn("Cannot schedule reminder", zap.String("bookingID", b.ID), zap.Error(err))
		return
	}
	fireAt := start.Add(-s.ReminderLead)
	if !fireAt.After(s.Now()) {
		return
	}

	body := fmt.Sprintf("Your mock interview starts at %s (%s).", b.StartTime, zoneName(b.Timezone))
	for _, target := range []struct{ id, role string }{
		{b.CandidateID, notification.TargetCandidate},
		{b.InterviewerID, notification.TargetInterviewer},
	} {
		payload := models.ReminderPayload{
			ID:         target.id,
			ReminderID: b.ID,
			Title:      "Upcoming interview",
			Body:       body,
			FireDate:   fireAt.UTC().Format(time.RFC3339),
			Target:     target.role,
		}
		if err := s.Reminders.EnqueueReminder(ctx, payload, fireAt); err != nil {
			s.Logger.Warn("Failed to schedule reminder",
				zap.String("bookingID", b.ID), zap.String("target", target.role), zap.Error(err))
		}
	}
}

func (s *DefaultBookingService) scheduleExpiry(ctx context.Context, b models.Booking) {
	if s.Expiry == nil || s.PaymentWindow <= 0 {
		return
	}
	if err := s.Expiry.EnqueueBookingExpiry(ctx, b.ID, s.Now().Add(s.PaymentWindow)); err != nil {
		s.Logger.Warn("Failed to schedule booking expiry", zap.String("bookingID", b.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) release(ctx context.Context, bookingID string) {
	_, err := s.Bookings.UpdateStatus(ctx, bookingID, []string{models.BookingPendingPayment}, models.BookingCancelled)
	if err != nil {
		s.Logger.Error("Failed to release booking after payment error",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
}

func (s *DefaultBookingService) currencyFor(iv models.Interviewer) string {
	if iv.Currency != "" {
		return iv.Currency
	}
	return s.Currency
}

// StartTime resolves a booking's date and start in its timezone.
func StartTime(b models.Booking) (time.Time, error) {
	loc := time.UTC
	if b.Timezone != "" {
		l, err := time.LoadLocation(b.Timezone)
		if err != nil {
			return time.Time{}, err
		}
		loc = l
	}
	return time.ParseInLocation(availability.DateLayout+" 15:04", b.Date+" "+b.StartTime, loc)
}

func offers(iv models.Interviewer, durationMinutes int) bool {
	if len(iv.SessionDurations) == 0 {
		return true
	}
	for _, d := range iv.SessionDurations {
		if d == durationMinutes {
			return true
		}
	}
	return false
}

func participant(b models.Booking, userID string) bool {
	return userID != "" && (b.CandidateID == userID || b.InterviewerID == userID)
}

func zoneName(tz string) string {
	if tz == "" {
		return "UTC"
	}
	return strings.ReplaceAll(tz, "_", " ")
}
