package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the booking lookup indexes and the partial unique
// multikey index on slotCells. No cell can belong to two active bookings, so
// overlapping sessions of one interviewer cannot both be inserted.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{
			Keys: bson.D{{Key: "slotCells", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_active_cells").
				SetPartialFilterExpression(bson.M{"slotCells": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "interviewerId", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "candidateId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "paymentIntentId", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	if _, err := db.Collection("bookings").Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
