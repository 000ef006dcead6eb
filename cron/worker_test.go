package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "interviewhub/database/repository/booking"
	"interviewhub/models"
	"interviewhub/services/notification"
	"interviewhub/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedTime = time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)

type call struct {
	target, id, title string
	data              map[string]string
}

type fakeNotifier struct {
	calls []call
	err   error
}

func (f *fakeNotifier) SendCandidatePush(_ context.Context, id, title, _ string, data map[string]string) error {
	f.calls = append(f.calls, call{notification.TargetCandidate, id, title, data})
	return f.err
}

func (f *fakeNotifier) SendInterviewerPush(_ context.Context, id, title, _ string, data map[string]string) error {
	f.calls = append(f.calls, call{notification.TargetInterviewer, id, title, data})
	return f.err
}

func TestReminderTaskDispatch(t *testing.T) {
	n := &fakeNotifier{}
	mux := NewServeMux(n, nil, zaptest.NewLogger(t))

	payload := models.ReminderPayload{ID: "cand-1", ReminderID: "bk-1", Title: "Soon", Target: notification.TargetCandidate}
	task, _, err := tasks.NewReminderTask(payload, fixedTime)
	require.NoError(t, err)

	require.NoError(t, mux.ProcessTask(context.Background(), task))
	require.Len(t, n.calls, 1)
	assert.Equal(t, notification.TargetCandidate, n.calls[0].target)
	assert.Equal(t, "cand-1", n.calls[0].id)
	assert.Equal(t, "bk-1", n.calls[0].data["reminderId"])
}

func TestReviewPushTaskDispatch(t *testing.T) {
	n := &fakeNotifier{}
	mux := NewServeMux(n, nil, zaptest.NewLogger(t))

	task, _, err := tasks.NewReviewPushTask(models.ReviewPushPayload{InterviewerID: "iv-1", BookingID: "bk-1", Rating: 4})
	require.NoError(t, err)

	require.NoError(t, mux.ProcessTask(context.Background(), task))
	require.Len(t, n.calls, 1)
	assert.Equal(t, notification.TargetInterviewer, n.calls[0].target)
	assert.Equal(t, "new_review", n.calls[0].data["type"])
}

func TestTaskErrors(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	mux := NewServeMux(&fakeNotifier{}, nil, logger)
	err := mux.ProcessTask(ctx, asynq.NewTask(tasks.TypeSendReminder, []byte("{bad")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	mux = NewServeMux(&fakeNotifier{err: notification.ErrNoDeviceToken}, nil, logger)
	task, _, _ := tasks.NewReviewPushTask(models.ReviewPushPayload{InterviewerID: "iv-1"})
	assert.NoError(t, mux.ProcessTask(ctx, task))

	boom := errors.New("fcm down")
	mux = NewServeMux(&fakeNotifier{err: boom}, nil, logger)
	assert.ErrorIs(t, mux.ProcessTask(ctx, task), boom)

	unknown, _, _ := tasks.NewReminderTask(models.ReminderPayload{Target: "admin"}, fixedTime)
	assert.NoError(t, mux.ProcessTask(ctx, unknown))
}

type fakeExpirer struct {
	ids []string
	err error
}

func (f *fakeExpirer) ExpireUnpaid(_ context.Context, bookingID string) error {
	f.ids = append(f.ids, bookingID)
	return f.err
}

func TestExpiryTaskDispatch(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()
	task, _, err := tasks.NewExpiryTask("bk-1", fixedTime)
	require.NoError(t, err)

	expirer := &fakeExpirer{}
	require.NoError(t, NewServeMux(&fakeNotifier{}, expirer, logger).ProcessTask(ctx, task))
	assert.Equal(t, []string{"bk-1"}, expirer.ids)

	gone := &fakeExpirer{err: bookingRepo.ErrNotFound}
	assert.NoError(t, NewServeMux(&fakeNotifier{}, gone, logger).ProcessTask(ctx, task))

	boom := errors.New("stripe unavailable")
	failing := &fakeExpirer{err: boom}
	assert.ErrorIs(t, NewServeMux(&fakeNotifier{}, failing, logger).ProcessTask(ctx, task), boom)

	bad := asynq.NewTask(tasks.TypeExpireBooking, []byte("{bad"))
	assert.ErrorIs(t, NewServeMux(&fakeNotifier{}, expirer, logger).ProcessTask(ctx, bad), asynq.SkipRetry)
}
