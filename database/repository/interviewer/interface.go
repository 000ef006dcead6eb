// File: database/repository/interviewer/interface.go
package interviewerRepo

import (
	"context"
	"errors"

	"interviewhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("interviewer not found")

type InterviewerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Interviewer, error)
	List(ctx context.Context, skill string, limit, skip int64) ([]models.Interviewer, error)
	UpsertProfile(ctx context.Context, id string, in models.InterviewerProfileInput) (*models.Interviewer, error)
	UpdateAvailability(ctx context.Context, id string, rules []models.AvailabilityRule) (*models.Interviewer, error)
	UpdateRate(ctx context.Context, id string, hourlyRate float64, currency string) (*models.Interviewer, error)
	UpdateRating(ctx context.Context, id string, average float64, total int) error
	SetProfileImage(ctx context.Context, id, url string) (*models.Interviewer, error)
}

type mongoInterviewerRepo struct {
	coll *mongo.Collection
}

// NewMongoInterviewerRepo constructs an InterviewerRepository on "interviewers".
func NewMongoInterviewerRepo(db *mongo.Database) InterviewerRepository {
	return &mongoInterviewerRepo{coll: db.Collection("interviewers")}
}
