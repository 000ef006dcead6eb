// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"

	"interviewhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("booking not found")
	// ErrSlotTaken is returned when another active booking holds the same start time.
	ErrSlotTaken = errors.New("time slot already booked")
	// ErrStatusConflict is returned when a conditional status change finds the
	// booking in an unexpected state.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Booking, error)
	ListByInterviewerAndDate(ctx context.Context, interviewerID, date string) ([]models.Booking, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]models.Booking, error)
	ListByInterviewer(ctx context.Context, interviewerID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id string, from []string, to string) (*models.Booking, error)
	SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error
	MarkReviewed(ctx context.Context, id string) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a BookingRepository on "bookings".
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{coll: db.Collection("bookings")}
}
