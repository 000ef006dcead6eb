// File: handlers/bundle.go
package handlers

import (
	"context"
	"io"

	"interviewhub/models"
	"interviewhub/services/booking"

	"github.com/gin-gonic/gin"
)

// InterviewerService is satisfied by *interviewer.Service.
type InterviewerService interface {
	GetInterviewer(ctx context.Context, id string) (*models.Interviewer, error)
	ListInterviewers(ctx context.Context, skill string, page, pageSize int) ([]models.Interviewer, error)
	UpsertProfile(ctx context.Context, id string, in models.InterviewerProfileInput) (*models.Interviewer, error)
	UpdateAvailability(ctx context.Context, id string, rules []models.AvailabilityRule) (*models.Interviewer, error)
	UpdateRate(ctx context.Context, id string, in models.RateInput) (*models.Interviewer, error)
	UploadProfileImage(ctx context.Context, id string, file io.Reader) (*models.Interviewer, error)
}

// SlotService is satisfied by *availability.Service.
type SlotService interface {
	GetDaySlots(ctx context.Context, interviewerID, date string, durationMinutes int) (models.DaySlots, error)
}

// RatingService is satisfied by *rating.Service.
type RatingService interface {
	SubmitReview(ctx context.Context, candidateID string, in models.ReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, reviewID string) error
	Recompute(ctx context.Context, interviewerID string) (*models.InterviewerRatingSummary, error)
	GetSummary(ctx context.Context, interviewerID string) (*models.InterviewerRatingSummary, error)
	ListReviews(ctx context.Context, interviewerID string) ([]models.Review, error)
}

// CandidateService is satisfied by *candidate.Service.
type CandidateService interface {
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	UpsertProfile(ctx context.Context, id, email string, in models.CandidateProfileInput) (*models.Candidate, error)
	UploadResume(ctx context.Context, id string, file io.Reader) (*models.Candidate, error)
}

// BookingService adds webhook handling to booking.BookingService.
type BookingService interface {
	booking.BookingService
	HandlePaymentEvent(ctx context.Context, ev booking.PaymentEvent) error
}

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Interviewers *InterviewerHandler
	Candidates   *CandidateHandler
	Bookings     *BookingHandler
	Reviews      *ReviewHandler
	Admin        *AdminHandler
	Payments     *PaymentHandler

	Health gin.HandlerFunc
}
