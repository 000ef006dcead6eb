package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"interviewhub/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendReminder   = "reminder:send"
	TypeReviewReceived = "review:push"
	TypeExpireBooking  = "booking:expire"
)

// ExpiryPayload names the pending booking to release.
type ExpiryPayload struct {
	BookingID string `json:"bookingId"`
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		// One reminder per booking and recipient.
		asynq.TaskID(fmt.Sprintf("reminder:%s:%s", payload.ReminderID, payload.Target)),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

func NewReviewPushTask(payload models.ReviewPushPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeReviewReceived, b), []asynq.Option{asynq.MaxRetry(5)}, nil
}

func NewExpiryTask(bookingID string, at time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ExpiryPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.ProcessAt(at),
		asynq.TaskID("expire:" + bookingID),
		asynq.MaxRetry(10),
	}
	return asynq.NewTask(TypeExpireBooking, b), opts, nil
}

// TaskClient is satisfied by *asynq.Client.
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer schedules background work on the asynq queue.
type Enqueuer struct {
	client TaskClient
}

func NewEnqueuer(client TaskClient) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueReminder schedules a push at fireAt. Scheduling the same reminder
// twice is not an error.
func (e *Enqueuer) EnqueueReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

func (e *Enqueuer) EnqueueReviewPush(ctx context.Context, payload models.ReviewPushPayload) error {
	task, opts, err := NewReviewPushTask(payload)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue review push: %w", err)
	}
	return nil
}

// EnqueueBookingExpiry schedules the release of an unpaid booking at the end
// of its payment window.
func (e *Enqueuer) EnqueueBookingExpiry(ctx context.Context, bookingID string, at time.Time) error {
	task, opts, err := NewExpiryTask(bookingID, at)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("failed to enqueue booking expiry: %w", err)
	}
	return nil
}
