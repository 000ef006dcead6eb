package summaryRepo

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

var ErrNotFound = errors.New("rating summary not found")

// SummaryRepository persists one InterviewerRatingSummary per interviewer.
type SummaryRepository interface {
	Replace(ctx context.Context, summary models.InterviewerRatingSummary) error
	Get(ctx context.Context, interviewerID string) (*models.InterviewerRatingSummary, error)
	Delete(ctx context.Context, interviewerID string) error
}

type mongoSummaryRepo struct {
	coll *mongo.Collection
}

func NewMongoSummaryRepo(db *mongo.Database) SummaryRepository {
	return &mongoSummaryRepo{coll: db.Collection("rating_summaries")}
}

// EnsureIndexes creates the unique interviewer index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := db.Collection("rating_summaries").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "interviewerId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_interviewer"),
	})
	if err != nil {
		return fmt.Errorf("failed to create summary indexes: %w", err)
	}
	return nil
}

// Replace overwrites the stored summary with a freshly computed one.
func (r *mongoSummaryRepo) Replace(ctx context.Context, summary models.InterviewerRatingSummary) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"interviewerId": summary.InterviewerID}
	_, err := r.coll.ReplaceOne(ctx, filter, summary, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store rating summary: %w", err)
	}
	return nil
}

func (r *mongoSummaryRepo) Get(ctx context.Context, interviewerID string) (*models.InterviewerRatingSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var summary models.InterviewerRatingSummary
	err := r.coll.FindOne(ctx, bson.M{"interviewerId": interviewerID}).Decode(&summary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch rating summary: %w", err)
	}
	return &summary, nil
}

func (r *mongoSummaryRepo) Delete(ctx context.Context, interviewerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"interviewerId": interviewerID}); err != nil {
		return fmt.Errorf("failed to delete rating summary: %w", err)
	}
	return nil
}
