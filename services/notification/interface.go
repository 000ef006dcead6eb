package notification

import (
	"context"
	"errors"
	"fmt"

	"interviewhub/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

var ErrNoDeviceToken = errors.New("recipient has no FCM token")

// Push targets.
const (
	TargetCandidate   = "candidate"
	TargetInterviewer = "interviewer"
)

// NotificationService sends FCM pushes to candidates and interviewers.
type NotificationService interface {
	SendCandidatePush(ctx context.Context, candidateID, title, body string, data map[string]string) error
	SendInterviewerPush(ctx context.Context, interviewerID, title, body string, data map[string]string) error
}

// Sender is satisfied by *messaging.Client.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type InterviewerLookup interface {
	GetByID(ctx context.Context, id string) (*models.Interviewer, error)
}

type CandidateLookup interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	sender       Sender
	interviewers InterviewerLookup
	candidates   CandidateLookup
	logger       *zap.Logger
}

func NewDefaultNotificationService(
	sender Sender,
	interviewers InterviewerLookup,
	candidates CandidateLookup,
	logger *zap.Logger,
) (*DefaultNotificationService, error) {
	if sender == nil || interviewers == nil || candidates == nil {
		return nil, fmt.Errorf("notification service initialization error: sender or lookup is nil")
	}
	return &DefaultNotificationService{
		sender:       sender,
		interviewers: interviewers,
		candidates:   candidates,
		logger:       logger,
	}, nil
}

// SendCandidatePush looks up a candidate's FCM token and sends a push.
func (s *DefaultNotificationService) SendCandidatePush(ctx context.Context, candidateID, title, body string, data map[string]string) error {
	c, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("could not find candidate %s: %w", candidateID, err)
	}
	return s.send(ctx, c.FCMToken, TargetCandidate, title, body, data)
}

func (s *DefaultNotificationService) SendInterviewerPush(ctx context.Context, interviewerID, title, body string, data map[string]string) error {
	iv, err := s.interviewers.GetByID(ctx, interviewerID)
	if err != nil {
		return fmt.Errorf("could not find interviewer %s: %w", interviewerID, err)
	}
	return s.send(ctx, iv.FCMToken, TargetInterviewer, title, body, data)
}

func (s *DefaultNotificationService) send(ctx context.Context, token, role, title, body string, data map[string]string) error {
	if token == "" {
		return ErrNoDeviceToken
	}
	msg := buildMessage(token, role, title, body, data)
	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	s.logger.Debug("Push sent", zap.String("role", role), zap.String("messageID", id))
	return nil
}

func buildMessage(token, role, title, body string, data map[string]string) *messaging.Message {
	payload := make(map[string]string, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	if _, ok := payload["role"]; !ok {
		payload["role"] = role
	}
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: payload,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}
