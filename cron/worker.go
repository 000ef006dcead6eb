package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"interviewhub/config"
	bookingRepo "interviewhub/database/repository/booking"
	"interviewhub/models"
	"interviewhub/services/notification"
	"interviewhub/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt returns the asynq connection for the task queue database.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// BookingExpirer is satisfied by *booking.DefaultBookingService.
type BookingExpirer interface {
	ExpireUnpaid(ctx context.Context, bookingID string) error
}

// Worker runs the reminder, review push and booking expiry handlers.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewWorker(notifSvc notification.NotificationService, expirer BookingExpirer, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)
	return &Worker{srv: srv, mux: NewServeMux(notifSvc, expirer, logger), logger: logger}
}

// NewServeMux routes task types to their handlers. Expiry tasks are only
// handled when an expirer is given.
func NewServeMux(notifSvc notification.NotificationService, expirer BookingExpirer, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc, logger))
	mux.HandleFunc(tasks.TypeReviewReceived, handleReviewPushTask(notifSvc, logger))
	if expirer != nil {
		mux.HandleFunc(tasks.TypeExpireBooking, handleExpiryTask(expirer, logger))
	}
	return mux
}

// Start runs the worker in the background, retrying startup with backoff.
func (w *Worker) Start() {
	go monitorRedisConnection(w.logger)

	go func() {
		w.logger.Info("Starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("Failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("Max worker start attempts reached; background jobs disabled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func handleReminderTask(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		logger.Info("Triggering reminder",
			zap.String("target", p.Target), zap.String("id", p.ID), zap.String("bookingID", p.ReminderID))

		data := map[string]string{
			"type":       "booking_reminder",
			"reminderId": p.ReminderID,
			"fireDate":   p.FireDate,
		}

		var err error
		switch p.Target {
		case notification.TargetCandidate:
			err = notifSvc.SendCandidatePush(ctx, p.ID, p.Title, p.Body, data)
		case notification.TargetInterviewer:
			err = notifSvc.SendInterviewerPush(ctx, p.ID, p.Title, p.Body, data)
		default:
			logger.Warn("Unknown reminder target", zap.String("target", p.Target))
			return nil
		}
		return pushResult(err, logger)
	}
}

func handleReviewPushTask(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReviewPushPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid review push payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		title := "You received a new review"
		body := fmt.Sprintf("A candidate rated your session %d/5.", p.Rating)
		data := map[string]string{
			"type":      "new_review",
			"bookingId": p.BookingID,
		}
		return pushResult(notifSvc.SendInterviewerPush(ctx, p.InterviewerID, title, body, data), logger)
	}
}

func handleExpiryTask(expirer BookingExpirer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ExpiryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid booking expiry payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		err := expirer.ExpireUnpaid(ctx, p.BookingID)
		if errors.Is(err, bookingRepo.ErrNotFound) {
			logger.Warn("Expiry for unknown booking", zap.String("bookingID", p.BookingID))
			return nil
		}
		if err != nil {
			logger.Error("Failed to expire booking", zap.String("bookingID", p.BookingID), zap.Error(err))
		}
		return err
	}
}

// pushResult drops pushes to recipients without a device; other failures retry.
func pushResult(err error, logger *zap.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, notification.ErrNoDeviceToken) {
		logger.Debug("Skipping push, no device token")
		return nil
	}
	logger.Error("Failed to send notification", zap.Error(err))
	return err
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Queue Redis connection lost", zap.Error(err))
		}
	}
}
