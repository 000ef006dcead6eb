package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	bookingRepo "interviewhub/database/repository/booking"
	"interviewhub/models"
	"interviewhub/services/availability"
	"interviewhub/services/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// 2030-01-07 is a Monday.
var fixedNow = time.Date(2030, 1, 6, 12, 0, 0, 0, time.UTC)

type fakeInterviewers map[string]models.Interviewer

func (f fakeInterviewers) GetByID(_ context.Context, id string) (*models.Interviewer, error) {
	iv, ok := f[id]
	if !ok {
		return nil, errors.New("interviewer not found")
	}
	return &iv, nil
}

type fakeBookings struct {
	mu        sync.Mutex
	byID      map[string]models.Booking
	attachErr error
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{byID: map[string]models.Booking{}}
}

func (f *fakeBookings) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cells := models.BookingSlotCells(b.InterviewerID, b.Date, b.StartTime, b.DurationMinutes)
	taken := map[string]bool{}
	for _, existing := range f.byID {
		for _, c := range existing.SlotCells {
			taken[c] = true
		}
	}
	for _, c := range cells {
		if taken[c] {
			return bookingRepo.ErrSlotTaken
		}
	}
	b.SlotCells = cells
	f.byID[b.ID] = *b
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBookings) GetByPaymentIntent(_ context.Context, pi string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.byID {
		if b.PaymentIntentID == pi {
			return &b, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (f *fakeBookings) ListByInterviewerAndDate(_ context.Context, interviewerID, date string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.byID {
		if b.InterviewerID == interviewerID && b.Date == date && b.Active() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) list(match func(models.Booking) bool) []models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Booking{}
	for _, b := range f.byID {
		if match(b) {
			out = append(out, b)
		}
	}
	return out
}

func (f *fakeBookings) ListByCandidate(_ context.Context, id string) ([]models.Booking, error) {
	return f.list(func(b models.Booking) bool { return b.CandidateID == id }), nil
}

func (f *fakeBookings) ListByInterviewer(_ context.Context, id string) ([]models.Booking, error) {
	return f.list(func(b models.Booking) bool { return b.InterviewerID == id }), nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id string, from []string, to string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	allowed := false
	for _, s := range from {
		if b.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.Status = to
	if to == models.BookingCancelled {
		b.SlotCells = nil
	}
	f.byID[id] = b
	return &b, nil
}

func (f *fakeBookings) SetPaymentIntent(_ context.Context, id, pi string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attachErr != nil {
		return f.attachErr
	}
	b, ok := f.byID[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.PaymentIntentID = pi
	f.byID[id] = b
	return nil
}

type fakePayments struct {
	created   []models.PaymentRequest
	cancelled []string
	refunded  []string
	err       error
	cancelErr error
}

func (f *fakePayments) CreateIntent(_ context.Context, req models.PaymentRequest) (*models.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	id := "pi_" + req.BookingID
	return &models.PaymentIntent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method"}, nil
}

func (f *fakePayments) CancelIntent(_ context.Context, id string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakePayments) Refund(_ context.Context, id string) error {
	f.refunded = append(f.refunded, id)
	return nil
}

type fakeReminders struct {
	payloads []models.ReminderPayload
	fireAt   []time.Time
}

func (f *fakeReminders) EnqueueReminder(_ context.Context, p models.ReminderPayload, at time.Time) error {
	f.payloads = append(f.payloads, p)
	f.fireAt = append(f.fireAt, at)
	return nil
}

type fakeExpiry struct {
	ids []string
	at  []time.Time
}

func (f *fakeExpiry) EnqueueBookingExpiry(_ context.Context, id string, at time.Time) error {
	f.ids = append(f.ids, id)
	f.at = append(f.at, at)
	return nil
}

type openSlots struct{}

func (openSlots) IsBookable(context.Context, models.Interviewer, string, string, int) (bool, error) {
	return true, nil
}

type fixture struct {
	svc       *DefaultBookingService
	bookings  *fakeBookings
	payments  *fakePayments
	reminders *fakeReminders
	expiry    *fakeExpiry
}

func newFixture(t *testing.T) *fixture {
	logger := zaptest.NewLogger(t)
	interviewers := fakeInterviewers{
		"iv-1": {
			ID:               "iv-1",
			Name:             "Ada",
			HourlyRate:       50,
			Currency:         "USD",
			SessionDurations: []int{30, 45, 60},
			StripeAccountID:  "acct_123",
			Availability: []models.AvailabilityRule{
				{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00", Timezone: "UTC"},
			},
		},
		"iv-free": {ID: "iv-free", Availability: []models.AvailabilityRule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}}},
	}
	f := &fixture{
		bookings:  newFakeBookings(),
		payments:  &fakePayments{},
		reminders: &fakeReminders{},
		expiry:    &fakeExpiry{},
	}
	slots := availability.NewService(interviewers, f.bookings, logger)
	slots.Now = func() time.Time { return fixedNow }

	f.svc = NewBookingService(interviewers, f.bookings, slots, f.payments, f.reminders, logger, "usd", time.Hour)
	f.svc.Expiry = f.expiry
	f.svc.Now = func() time.Time { return fixedNow }
	return f
}

func bookingInput(start string, duration int) models.BookingInput {
	return models.BookingInput{InterviewerID: "iv-1", Date: "2030-01-07", StartTime: start, DurationMinutes: duration}
}

func TestQuote(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Quote(context.Background(), models.QuoteRequest{InterviewerID: "iv-1", DurationMinutes: 45})
	require.NoError(t, err)
	assert.Equal(t, 37.50, p.Subtotal)
	assert.Equal(t, 5.63, p.PlatformFee)
	assert.Equal(t, 43.13, p.Total)
	assert.Equal(t, 37.50, p.InterviewerEarnings)
	assert.Equal(t, "usd", p.Currency)

	_, err = f.svc.Quote(context.Background(), models.QuoteRequest{InterviewerID: "iv-1", DurationMinutes: 50})
	assert.ErrorIs(t, err, pricing.ErrInvalidDuration)
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.CreateBooking(context.Background(), "cand-1", bookingInput("09:30", 45))
	require.NoError(t, err)

	assert.Equal(t, models.BookingPendingPayment, b.Status)
	assert.Equal(t, 43.13, b.Total)
	assert.Equal(t, 5.63, b.PlatformFee)
	assert.Equal(t, "UTC", b.Timezone)
	assert.Equal(t, "pi_"+b.ID, b.PaymentIntentID)
	assert.Equal(t, "pi_"+b.ID+"_secret", b.ClientSecret)

	require.Len(t, f.payments.created, 1)
	req := f.payments.created[0]
	assert.Equal(t, 43.13, req.Amount)
	assert.Equal(t, 5.63, req.ApplicationFee)
	assert.Equal(t, "acct_123", req.DestinationAccount)
	assert.Equal(t, b.ID, req.Idempotency)

	stored, err := f.bookings.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Pricing(), stored.Pricing())

	assert.Equal(t, []string{b.ID}, f.expiry.ids)
	assert.True(t, fixedNow.Add(30*time.Minute).Equal(f.expiry.at[0]))
}

func TestCreateBookingRejects(t *testing.T) {
	tests := []struct {
		name        string
		candidateID string
		in          models.BookingInput
		wantErr     error
	}{
		{"not a derived slot", "cand-1", bookingInput("09:10", 30), ErrSlotUnavailable},
		{"runs past the window", "cand-1", bookingInput("10:45", 30), nil},
		{"length not offered", "cand-1", bookingInput("09:00", 90), ErrDurationNotOffered},
		{"length off the grid", "cand-1", bookingInput("09:00", 20), pricing.ErrInvalidDuration},
		{"no rule that day", "cand-1", models.BookingInput{InterviewerID: "iv-1", Date: "2030-01-08", StartTime: "09:00", DurationMinutes: 30}, ErrSlotUnavailable},
		{"bad date", "cand-1", models.BookingInput{InterviewerID: "iv-1", Date: "07/01/2030", StartTime: "09:00", DurationMinutes: 30}, availability.ErrInvalidDate},
		{"self booking", "iv-1", bookingInput("09:00", 30), ErrSelfBooking},
		{"no rate", "cand-1", models.BookingInput{InterviewerID: "iv-free", Date: "2030-01-07", StartTime: "09:00", DurationMinutes: 30}, ErrInterviewerNotBookable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.CreateBooking(context.Background(), tt.candidateID, tt.in)
			if tt.wantErr == nil {
				// Slots are start times; a session may end after the window.
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.payments.created)
		})
	}
}

func TestCreateBookingOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("09:30", 60))
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, "cand-2", bookingInput("10:00", 30))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = f.svc.CreateBooking(ctx, "cand-2", bookingInput("09:00", 45))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = f.svc.CreateBooking(ctx, "cand-2", bookingInput("10:30", 30))
	assert.NoError(t, err)
}

func TestCreateBookingPaymentFailureReleasesSlot(t *testing.T) {
	f := newFixture(t)
	f.payments.err = errors.New("card network down")
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("09:00", 30))
	assert.Error(t, err)

	f.payments.err = nil
	_, err = f.svc.CreateBooking(ctx, "cand-2", bookingInput("09:00", 30))
	assert.NoError(t, err)
}

func TestConfirmPaymentSchedulesReminders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("10:00", 30))
	require.NoError(t, err)

	confirmed, err := f.svc.ConfirmPayment(ctx, b.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)

	require.Len(t, f.reminders.payloads, 2)
	want := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)
	assert.True(t, want.Equal(f.reminders.fireAt[0]))
	assert.Equal(t, b.ID, f.reminders.payloads[0].ReminderID)
	assert.Equal(t, "candidate", f.reminders.payloads[0].Target)
	assert.Equal(t, "interviewer", f.reminders.payloads[1].Target)

	again, err := f.svc.ConfirmPayment(ctx, b.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, again.Status)
	assert.Len(t, f.reminders.payloads, 2)
}

func TestHandlePaymentEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	paid, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("09:00", 30))
	require.NoError(t, err)
	declined, err := f.svc.CreateBooking(ctx, "cand-2", bookingInput("10:00", 30))
	require.NoError(t, err)
	abandoned, err := f.svc.CreateBooking(ctx, "cand-3", bookingInput("10:30", 30))
	require.NoError(t, err)

	require.NoError(t, f.svc.HandlePaymentEvent(ctx, PaymentEvent{Type: EventPaymentSucceeded, PaymentIntentID: paid.PaymentIntentID}))
	require.NoError(t, f.svc.HandlePaymentEvent(ctx, PaymentEvent{Type: EventPaymentFailed, PaymentIntentID: declined.PaymentIntentID}))
	require.NoError(t, f.svc.HandlePaymentEvent(ctx, PaymentEvent{Type: EventPaymentCanceled, PaymentIntentID: abandoned.PaymentIntentID}))
	require.NoError(t, f.svc.HandlePaymentEvent(ctx, PaymentEvent{Type: "charge.refunded", PaymentIntentID: paid.PaymentIntentID}))

	got, _ := f.bookings.GetByID(ctx, paid.ID)
	assert.Equal(t, models.BookingConfirmed, got.Status)
	got, _ = f.bookings.GetByID(ctx, declined.ID)
	assert.Equal(t, models.BookingPendingPayment, got.Status, "a declined card keeps the slot for a retry")
	got, _ = f.bookings.GetByID(ctx, abandoned.ID)
	assert.Equal(t, models.BookingCancelled, got.Status)
}

func TestPaymentFailedThenSucceeded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("09:00", 30))
	require.NoError(t, err)

	require.NoError(t, f.svc.HandlePaymentEvent(ctx, PaymentEvent{Type: EventPaymentFailed, PaymentIntentID: b.PaymentIntentID}))
	_, err = f.svc.CreateBooking(ctx, "cand-2", bookingInput("09:00", 30))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	require.NoError(t, f.svc.HandlePaymentEvent(ctx, PaymentEvent{Type: EventPaymentSucceeded, PaymentIntentID: b.PaymentIntentID}))
	got, _ := f.bookings.GetByID(ctx, b.ID)
	assert.Equal(t, models.BookingConfirmed, got.Status)
	assert.Empty(t, f.payments.refunded)
	assert.Len(t, f.reminders.payloads, 2)
}

func TestPaymentSucceededAfterCancelRefunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("09:00", 30))
	require.NoError(t, err)
	require.NoError(t, f.svc.HandlePaymentEvent(ctx, PaymentEvent{Type: EventPaymentCanceled, PaymentIntentID: b.PaymentIntentID}))

	require.NoError(t, f.svc.HandlePaymentEvent(ctx, PaymentEvent{Type: EventPaymentSucceeded, PaymentIntentID: b.PaymentIntentID}))
	got, _ := f.bookings.GetByID(ctx, b.ID)
	assert.Equal(t, models.BookingCancelled, got.Status)
	assert.Equal(t, []string{b.PaymentIntentID}, f.payments.refunded)
	assert.Empty(t, f.reminders.payloads)

	// Redelivery refunds through the same idempotent call.
	out, err := f.svc.ConfirmPayment(ctx, b.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, out.Status)
}

func TestCreateBookingAttachFailureReleasesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.bookings.attachErr = errors.New("write concern timeout")

	_, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("09:00", 30))
	require.Error(t, err)
	require.Len(t, f.payments.created, 1)
	assert.Equal(t, []string{"pi_" + f.payments.created[0].BookingID}, f.payments.cancelled)
	assert.Empty(t, f.expiry.ids)

	f.bookings.attachErr = nil
	_, err = f.svc.CreateBooking(ctx, "cand-2", bookingInput("09:00", 30))
	assert.NoError(t, err)
}

func TestExpireUnpaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	unpaid, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("09:00", 30))
	require.NoError(t, err)
	paid, err := f.svc.CreateBooking(ctx, "cand-2", bookingInput("10:00", 30))
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, paid.PaymentIntentID)
	require.NoError(t, err)

	f.payments.cancelErr = errors.New("stripe unavailable")
	assert.Error(t, f.svc.ExpireUnpaid(ctx, unpaid.ID))
	got, _ := f.bookings.GetByID(ctx, unpaid.ID)
	assert.Equal(t, models.BookingPendingPayment, got.Status, "kept until the intent is cancelled")

	f.payments.cancelErr = nil
	require.NoError(t, f.svc.ExpireUnpaid(ctx, unpaid.ID))
	got, _ = f.bookings.GetByID(ctx, unpaid.ID)
	assert.Equal(t, models.BookingCancelled, got.Status)
	assert.Equal(t, []string{unpaid.PaymentIntentID}, f.payments.cancelled)

	require.NoError(t, f.svc.ExpireUnpaid(ctx, paid.ID))
	got, _ = f.bookings.GetByID(ctx, paid.ID)
	assert.Equal(t, models.BookingConfirmed, got.Status)
	assert.Len(t, f.payments.cancelled, 1)

	assert.ErrorIs(t, f.svc.ExpireUnpaid(ctx, "missing"), bookingRepo.ErrNotFound)

	_, err = f.svc.CreateBooking(ctx, "cand-3", bookingInput("09:00", 30))
	assert.NoError(t, err)
}

func TestCreateBookingOverlapRejectedByStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// Both requests pass the availability check, as when they race.
	f.svc.Slots = openSlots{}

	_, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("09:30", 60))
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, "cand-2", bookingInput("10:00", 30))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	_, err = f.svc.CreateBooking(ctx, "cand-2", bookingInput("09:00", 45))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	_, err = f.svc.CreateBooking(ctx, "cand-2", bookingInput("10:30", 30))
	assert.NoError(t, err)
	assert.Len(t, f.payments.created, 2)
}

func TestCompleteBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("09:00", 30))
	require.NoError(t, err)

	_, err = f.svc.CompleteBooking(ctx, "iv-1", b.ID)
	assert.ErrorIs(t, err, ErrTooEarlyToComplete)

	f.svc.Now = func() time.Time { return time.Date(2030, 1, 7, 9, 45, 0, 0, time.UTC) }

	_, err = f.svc.CompleteBooking(ctx, "iv-1", b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "pending bookings cannot complete")

	_, err = f.svc.ConfirmPayment(ctx, b.PaymentIntentID)
	require.NoError(t, err)

	_, err = f.svc.CompleteBooking(ctx, "cand-1", b.ID)
	assert.ErrorIs(t, err, ErrNotInterviewer)

	done, err := f.svc.CompleteBooking(ctx, "iv-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, done.Status)
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("09:00", 30))
	require.NoError(t, err)
	confirmed, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("10:00", 30))
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, confirmed.PaymentIntentID)
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(ctx, "stranger", pending.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	out, err := f.svc.CancelBooking(ctx, "cand-1", pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, out.Status)
	assert.Equal(t, []string{pending.PaymentIntentID}, f.payments.cancelled)

	_, err = f.svc.CancelBooking(ctx, "iv-1", confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{confirmed.PaymentIntentID}, f.payments.refunded)

	_, err = f.svc.CancelBooking(ctx, "cand-1", pending.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// The freed slot can be booked again.
	_, err = f.svc.CreateBooking(ctx, "cand-2", bookingInput("09:00", 30))
	assert.NoError(t, err)
}

func TestGetAndListBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("09:00", 30))
	require.NoError(t, err)
	second, err := f.svc.CreateBooking(ctx, "cand-1", bookingInput("10:00", 30))
	require.NoError(t, err)

	_, err = f.svc.GetBooking(ctx, "cand-2", first.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)
	got, err := f.svc.GetBooking(ctx, "iv-1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	list, err := f.svc.ListBookings(ctx, "cand-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	list, err = f.svc.ListBookings(ctx, "iv-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestStartTime(t *testing.T) {
	start, err := StartTime(models.Booking{Date: "2030-01-07", StartTime: "09:30", Timezone: "Europe/Berlin"})
	require.NoError(t, err)
	assert.True(t, time.Date(2030, 1, 7, 8, 30, 0, 0, time.UTC).Equal(start))

	_, err = StartTime(models.Booking{Date: "2030-01-07", StartTime: "09:30", Timezone: "Mars/Olympus"})
	assert.Error(t, err)
}

func TestHandlePaymentEventUnknownIntent(t *testing.T) {
	f := newFixture(t)
	err := f.svc.HandlePaymentEvent(context.Background(), PaymentEvent{Type: EventPaymentSucceeded, PaymentIntentID: "pi_other"})
	assert.NoError(t, err)
}
