package notification

import (
	"context"
	"errors"
	"testing"

	"interviewhub/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "projects/test/messages/1", nil
}

type lookup struct {
	interviewers map[string]models.Interviewer
	candidates   map[string]models.Candidate
}

type ivLookup lookup
type candLookup lookup

func (l ivLookup) GetByID(_ context.Context, id string) (*models.Interviewer, error) {
	iv, ok := l.interviewers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &iv, nil
}

func (l candLookup) GetByID(_ context.Context, id string) (*models.Candidate, error) {
	c, ok := l.candidates[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &c, nil
}

func newTestService(t *testing.T, sender *fakeSender) *DefaultNotificationService {
	l := lookup{
		interviewers: map[string]models.Interviewer{
			"iv-1": {ID: "iv-1", FCMToken: "iv-token"},
			"iv-2": {ID: "iv-2"},
		},
		candidates: map[string]models.Candidate{
			"cand-1": {ID: "cand-1", FCMToken: "cand-token"},
		},
	}
	svc, err := NewDefaultNotificationService(sender, ivLookup(l), candLookup(l), zaptest.NewLogger(t))
	require.NoError(t, err)
	return svc
}

func TestSendInterviewerPush(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestService(t, sender)

	data := map[string]string{"type": "new_review"}
	require.NoError(t, svc.SendInterviewerPush(context.Background(), "iv-1", "New review", "You got 5 stars", data))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "iv-token", msg.Token)
	assert.Equal(t, "New review", msg.Notification.Title)
	assert.Equal(t, TargetInterviewer, msg.Data["role"])
	assert.Equal(t, "new_review", msg.Data["type"])
	_, mutated := data["role"]
	assert.False(t, mutated)
}

func TestSendCandidatePush(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestService(t, sender)

	require.NoError(t, svc.SendCandidatePush(context.Background(), "cand-1", "Reminder", "Starts soon", nil))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "cand-token", sender.sent[0].Token)
	assert.Equal(t, TargetCandidate, sender.sent[0].Data["role"])
}

func TestSendPushErrors(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(t, &fakeSender{})
	assert.ErrorIs(t, svc.SendInterviewerPush(ctx, "iv-2", "t", "b", nil), ErrNoDeviceToken)
	assert.Error(t, svc.SendCandidatePush(ctx, "missing", "t", "b", nil))

	boom := errors.New("fcm unavailable")
	svc = newTestService(t, &fakeSender{err: boom})
	assert.ErrorIs(t, svc.SendInterviewerPush(ctx, "iv-1", "t", "b", nil), boom)
}

func TestNewDefaultNotificationServiceRequiresDeps(t *testing.T) {
	_, err := NewDefaultNotificationService(nil, nil, nil, zaptest.NewLogger(t))
	assert.Error(t, err)
}
