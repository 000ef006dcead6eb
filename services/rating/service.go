package rating

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "interviewhub/database/repository/booking"
	reviewRepo "interviewhub/database/repository/review"
	summaryRepo "interviewhub/database/repository/summary"
	"interviewhub/models"

	"go.uber.org/zap"
)

// ReviewStore is the review collection. Create must fail with
// reviewRepo.ErrDuplicate when the review id or booking id already exists.
type ReviewStore interface {
	Create(ctx context.Context, review models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	ListByInterviewer(ctx context.Context, interviewerID string) ([]models.Review, error)
	Delete(ctx context.Context, id string) error
}

type SummaryStore interface {
	Replace(ctx context.Context, summary models.InterviewerRatingSummary) error
	Get(ctx context.Context, interviewerID string) (*models.InterviewerRatingSummary, error)
	Delete(ctx context.Context, interviewerID string) error
}

type BookingStore interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	MarkReviewed(ctx context.Context, id string) error
}

// ProfileUpdater receives the denormalized average and count.
type ProfileUpdater interface {
	UpdateRating(ctx context.Context, interviewerID string, average float64, total int) error
}

// Notifier enqueues the "new review" push to the interviewer.
type Notifier interface {
	EnqueueReviewPush(ctx context.Context, payload models.ReviewPushPayload) error
}

type Service struct {
	Reviews   ReviewStore
	Summaries SummaryStore
	Bookings  BookingStore
	Profiles  ProfileUpdater
	Cache     SummaryCache // optional
	Notifier  Notifier     // optional
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewService(reviews ReviewStore, summaries SummaryStore, bookings BookingStore, profiles ProfileUpdater, logger *zap.Logger) *Service {
	return &Service{
		Reviews:   reviews,
		Summaries: summaries,
		Bookings:  bookings,
		Profiles:  profiles,
		Logger:    logger,
		Now:       time.Now,
	}
}

// SubmitReview stores a candidate's review of a completed booking and
// rebuilds the interviewer's summary. A second submission for the same booking
// returns ErrReviewExists and leaves the summary alone.
func (s *Service) SubmitReview(ctx context.Context, candidateID string, in models.ReviewInput) (*models.Review, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	booking, err := s.Bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking.CandidateID != candidateID {
		return nil, ErrNotBookingOwner
	}
	if booking.Status != models.BookingCompleted {
		return nil, ErrBookingNotCompleted
	}

	review := models.Review{
		ID:             ReviewID(booking.InterviewerID, candidateID, booking.ID),
		InterviewerID:  booking.InterviewerID,
		CandidateID:    candidateID,
		BookingID:      booking.ID,
		Rating:         in.Rating,
		Comment:        in.Comment,
		Categories:     in.Categories,
		WouldRecommend: in.WouldRecommend,
		CreatedAt:      s.Now().UTC(),
	}

	if err := s.Reviews.Create(ctx, review); err != nil {
		if errors.Is(err, reviewRepo.ErrDuplicate) {
			return nil, ErrReviewExists
		}
		return nil, err
	}

	if err := s.Bookings.MarkReviewed(ctx, booking.ID); err != nil {
		s.Logger.Warn("Failed to mark booking reviewed",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}

	if _, err := s.Recompute(ctx, booking.InterviewerID); err != nil && !errors.Is(err, ErrNoReviews) {
		return nil, err
	}

	if s.Notifier != nil {
		push := models.ReviewPushPayload{
			InterviewerID: booking.InterviewerID,
			BookingID:     booking.ID,
			Rating:        review.Rating,
		}
		if err := s.Notifier.EnqueueReviewPush(ctx, push); err != nil {
			s.Logger.Warn("Failed to enqueue review notification",
				zap.String("interviewerID", booking.InterviewerID), zap.Error(err))
		}
	}

	s.Logger.Info("Review submitted",
		zap.String("reviewID", review.ID),
		zap.String("interviewerID", review.InterviewerID),
		zap.Int("rating", review.Rating))
	return &review, nil
}

// maxRecomputePasses bounds how often Recompute rebuilds while reviews keep
// changing underneath it.
const maxRecomputePasses = 5

// Recompute rebuilds the summary from the complete review set and replaces the
// stored one. An empty set deletes the stored summary and returns ErrNoReviews.
//
// After writing, the review set is read again. When it changed, another
// writer may have stored its summary before this one, so the summary is
// rebuilt from the newer set. The last write for an interviewer therefore
// always reflects a set that was still current after it landed.
func (s *Service) Recompute(ctx context.Context, interviewerID string) (*models.InterviewerRatingSummary, error) {
	reviews, err := s.Reviews.ListByInterviewer(ctx, interviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	for pass := 1; ; pass++ {
		summary, err := s.store(ctx, interviewerID, reviews)
		if err != nil && !errors.Is(err, ErrNoReviews) {
			return nil, err
		}

		current, lerr := s.Reviews.ListByInterviewer(ctx, interviewerID)
		if lerr != nil {
			return nil, fmt.Errorf("failed to load reviews: %w", lerr)
		}
		if sameReviews(reviews, current) || pass == maxRecomputePasses {
			if pass == maxRecomputePasses && !sameReviews(reviews, current) {
				s.Logger.Warn("Reviews still changing after recompute",
					zap.String("interviewerID", interviewerID), zap.Int("passes", pass))
			}
			return summary, err
		}
		reviews = current
	}
}

// store writes the summary of reviews to the summary store, the interviewer
// profile and the cache.
func (s *Service) store(ctx context.Context, interviewerID string, reviews []models.Review) (*models.InterviewerRatingSummary, error) {
	summary, ok := Aggregate(interviewerID, reviews, s.Now().UTC())
	if !ok {
		if err := s.Summaries.Delete(ctx, interviewerID); err != nil {
			return nil, err
		}
		s.syncProfile(ctx, interviewerID, 0, 0)
		s.cacheSummary(ctx, interviewerID, nil)
		return nil, ErrNoReviews
	}

	if err := s.Summaries.Replace(ctx, summary); err != nil {
		return nil, err
	}
	s.syncProfile(ctx, interviewerID, summary.AverageRating, summary.TotalReviews)
	s.cacheSummary(ctx, interviewerID, &summary)

	s.Logger.Debug("Rating summary recomputed",
		zap.String("interviewerID", interviewerID),
		zap.Float64("average", summary.AverageRating),
		zap.Int("total", summary.TotalReviews))
	return &summary, nil
}

func sameReviews(a, b []models.Review) bool {
	if len(a) != len(b) {
		return false
	}
	ids := make(map[string]struct{}, len(a))
	for _, r := range a {
		ids[r.ID] = struct{}{}
	}
	for _, r := range b {
		if _, ok := ids[r.ID]; !ok {
			return false
		}
	}
	return true
}

// DeleteReview removes a review and recomputes the interviewer's summary.
// The booking stays marked as reviewed.
func (s *Service) DeleteReview(ctx context.Context, reviewID string) error {
	review, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, reviewRepo.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if err := s.Reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, reviewRepo.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if _, err := s.Recompute(ctx, review.InterviewerID); err != nil && !errors.Is(err, ErrNoReviews) {
		return err
	}
	s.Logger.Info("Review removed", zap.String("reviewID", reviewID))
	return nil
}

// GetSummary returns the stored summary, going through the cache when one is
// configured. ErrNoReviews means the interviewer has not been reviewed yet.
// Cache misses are filled only if no writer stored a newer entry meanwhile.
func (s *Service) GetSummary(ctx context.Context, interviewerID string) (*models.InterviewerRatingSummary, error) {
	if s.Cache != nil {
		cached, ok, err := s.Cache.Get(ctx, interviewerID)
		if err != nil {
			s.Logger.Warn("Summary cache read failed", zap.String("interviewerID", interviewerID), zap.Error(err))
		} else if ok {
			if cached == nil {
				return nil, ErrNoReviews
			}
			return cached, nil
		}
	}

	summary, err := s.Summaries.Get(ctx, interviewerID)
	if err != nil && !errors.Is(err, summaryRepo.ErrNotFound) {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Fill(ctx, interviewerID, summary); err != nil {
			s.Logger.Warn("Summary cache write failed", zap.String("interviewerID", interviewerID), zap.Error(err))
		}
	}
	if summary == nil {
		return nil, ErrNoReviews
	}
	return summary, nil
}

func (s *Service) ListReviews(ctx context.Context, interviewerID string) ([]models.Review, error) {
	return s.Reviews.ListByInterviewer(ctx, interviewerID)
}

func (s *Service) syncProfile(ctx context.Context, interviewerID string, average float64, total int) {
	if s.Profiles == nil {
		return
	}
	if err := s.Profiles.UpdateRating(ctx, interviewerID, average, total); err != nil {
		s.Logger.Warn("Failed to update interviewer rating",
			zap.String("interviewerID", interviewerID), zap.Error(err))
	}
}

// cacheSummary overwrites the cached entry; nil records "no reviews". If the
// write fails the entry is dropped so readers fall back to the store.
func (s *Service) cacheSummary(ctx context.Context, interviewerID string, summary *models.InterviewerRatingSummary) {
	if s.Cache == nil {
		return
	}
	err := s.Cache.Set(ctx, interviewerID, summary)
	if err == nil {
		return
	}
	s.Logger.Warn("Failed to update summary cache", zap.String("interviewerID", interviewerID), zap.Error(err))
	if err := s.Cache.Invalidate(ctx, interviewerID); err != nil {
		s.Logger.Warn("Failed to invalidate summary cache",
			zap.String("interviewerID", interviewerID), zap.Error(err))
	}
}
