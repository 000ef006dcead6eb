package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"interviewhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListByInterviewerAndDate returns the bookings that may occupy slots on date.
// Cancelled bookings are excluded.
func (r *mongoBookingRepo) ListByInterviewerAndDate(ctx context.Context, interviewerID, date string) ([]models.Booking, error) {
	filter := bson.M{
		"interviewerId": interviewerID,
		"date":          date,
		"status":        bson.M{"$ne": models.BookingCancelled},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}}))
}

func (r *mongoBookingRepo) ListByCandidate(ctx context.Context, candidateID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"candidateId": candidateID}, opts)
}

func (r *mongoBookingRepo) ListByInterviewer(ctx context.Context, interviewerID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "startTime", Value: -1}})
	return r.find(ctx, bson.M{"interviewerId": interviewerID}, opts)
}

func (r *mongoBookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
