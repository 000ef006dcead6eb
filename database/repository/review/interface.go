// File: database/repository/review/interface.go
package reviewRepo

import (
	"context"
	"errors"

	"interviewhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrDuplicate = errors.New("review already exists")
	ErrNotFound  = errors.New("review not found")
)

type ReviewRepository interface {
	Create(ctx context.Context, review models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	ListByInterviewer(ctx context.Context, interviewerID string) ([]models.Review, error)
	Delete(ctx context.Context, id string) error
}

type mongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo constructs a ReviewRepository on the "reviews" collection.
func NewMongoReviewRepo(db *mongo.Database) ReviewRepository {
	return &mongoReviewRepo{coll: db.Collection("reviews")}
}
