package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"interviewhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if booking.Active() && len(booking.SlotCells) == 0 {
		booking.SlotCells = models.BookingSlotCells(booking.InterviewerID, booking.Date, booking.StartTime, booking.DurationMinutes)
	}
	_, err := r.coll.InsertOne(ctx, booking)
	return mapInsertError(err)
}

func mapInsertError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrSlotTaken
	}
	return fmt.Errorf("failed to insert booking: %w", err)
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoBookingRepo) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"paymentIntentId": paymentIntentID})
}

func (r *mongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// UpdateStatus moves a booking to status `to` only if its current status is
// one of `from`. Cancelling releases the slot cells.
func (r *mongoBookingRepo) UpdateStatus(ctx context.Context, id string, from []string, to string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	update := statusUpdate(to, time.Now())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	// Distinguish a missing booking from one in the wrong state.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrStatusConflict
}

func statusUpdate(to string, now time.Time) bson.M {
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": now}}
	if to == models.BookingCancelled {
		update["$unset"] = bson.M{"slotCells": ""}
	}
	return update
}

func (r *mongoBookingRepo) SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"paymentIntentId": paymentIntentID, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to attach payment intent: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkReviewed flags a booking once its review is stored.
func (r *mongoBookingRepo) MarkReviewed(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"reviewed": true}})
	if err != nil {
		return fmt.Errorf("failed to mark booking reviewed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
