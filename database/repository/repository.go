package repository

import (
	"context"

	bookingRepo "interviewhub/database/repository/booking"
	candidateRepo "interviewhub/database/repository/candidate"
	interviewerRepo "interviewhub/database/repository/interviewer"
	reviewRepo "interviewhub/database/repository/review"
	summaryRepo "interviewhub/database/repository/summary"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the repository interfaces and constructors.
type InterviewerRepository = interviewerRepo.InterviewerRepository

var NewMongoInterviewerRepo = interviewerRepo.NewMongoInterviewerRepo

type CandidateRepository = candidateRepo.CandidateRepository

var NewMongoCandidateRepo = candidateRepo.NewMongoCandidateRepo

type BookingRepository = bookingRepo.BookingRepository

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo

type ReviewRepository = reviewRepo.ReviewRepository

var NewMongoReviewRepo = reviewRepo.NewMongoReviewRepo

type SummaryRepository = summaryRepo.SummaryRepository

var NewMongoSummaryRepo = summaryRepo.NewMongoSummaryRepo

// EnsureIndexes creates the indexes of every collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, ensure := range []func(context.Context, *mongo.Database) error{
		interviewerRepo.EnsureIndexes,
		candidateRepo.EnsureIndexes,
		bookingRepo.EnsureIndexes,
		reviewRepo.EnsureIndexes,
		summaryRepo.EnsureIndexes,
	} {
		if err := ensure(ctx, db); err != nil {
			return err
		}
	}
	return nil
}
