package interviewerRepo

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

func (r *mongoInterviewerRepo) GetByID(ctx context.Context, id string) (*models.Interviewer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var iv models.Interviewer
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&iv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch interviewer %s: %w", id, err)
	}
	return &iv, nil
}

// List returns interviewers ordered by rating, optionally filtered by skill.
func (r *mongoInterviewerRepo) List(ctx context.Context, skill string, limit, skip int64) ([]models.Interviewer, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if skill != "" {
		filter["skills"] = skill
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "totalReviews", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviewers: %w", err)
	}
	defer cursor.Close(ctx)

	interviewers := []models.Interviewer{}
	if err := cursor.All(ctx, &interviewers); err != nil {
		return nil, fmt.Errorf("error decoding interviewers: %w", err)
	}
	return interviewers, nil
}

// UpsertProfile creates the interviewer on first save and updates the
// editable fields afterwards. Rate, availability and rating are untouched.
func (r *mongoInterviewerRepo) UpsertProfile(ctx context.Context, id string, in models.InterviewerProfileInput) (*models.Interviewer, error) {
	now := time.Now()
	set := bson.M{
		"name":             in.Name,
		"email":            in.Email,
		"headline":         in.Headline,
		"bio":              in.Bio,
		"skills":           in.Skills,
		"sessionDurations": in.SessionDurations,
		"updatedAt":        now,
	}
	if in.FCMToken != "" {
		set["fcmToken"] = in.FCMToken
	}
	if in.StripeAccountID != "" {
		set["stripeAccountId"] = in.StripeAccountID
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"id":           id,
			"availability": []models.AvailabilityRule{},
			"hourlyRate":   0.0,
			"rating":       0.0,
			"totalReviews": 0,
			"createdAt":    now,
		},
	}
	return r.findOneAndUpdate(ctx, id, update, true)
}

func (r *mongoInterviewerRepo) UpdateAvailability(ctx context.Context, id string, rules []models.AvailabilityRule) (*models.Interviewer, error) {
	update := bson.M{"$set": bson.M{"availability": rules, "updatedAt": time.Now()}}
	return r.findOneAndUpdate(ctx, id, update, false)
}

func (r *mongoInterviewerRepo) UpdateRate(ctx context.Context, id string, hourlyRate float64, currency string) (*models.Interviewer, error) {
	update := bson.M{"$set": bson.M{"hourlyRate": hourlyRate, "currency": currency, "updatedAt": time.Now()}}
	return r.findOneAndUpdate(ctx, id, update, false)
}

// UpdateRating denormalizes the summary onto the profile for listing.
func (r *mongoInterviewerRepo) UpdateRating(ctx context.Context, id string, average float64, total int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"rating": average, "totalReviews": total}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update interviewer rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoInterviewerRepo) SetProfileImage(ctx context.Context, id, url string) (*models.Interviewer, error) {
	update := bson.M{"$set": bson.M{"profileImage": url, "updatedAt": time.Now()}}
	return r.findOneAndUpdate(ctx, id, update, false)
}

func (r *mongoInterviewerRepo) findOneAndUpdate(ctx context.Context, id string, update bson.M, upsert bool) (*models.Interviewer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(upsert)
	var iv models.Interviewer
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&iv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update interviewer %s: %w", id, err)
	}
	return &iv, nil
}
