package candidateRepo

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

var ErrNotFound = errors.New("candidate not found")

type CandidateRepository interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	Upsert(ctx context.Context, candidate models.Candidate) (*models.Candidate, error)
	SetResume(ctx context.Context, id, publicID, resourceType string) (*models.Candidate, error)
}

type mongoCandidateRepo struct {
	coll *mongo.Collection
}

func NewMongoCandidateRepo(db *mongo.Database) CandidateRepository {
	return &mongoCandidateRepo{coll: db.Collection("candidates")}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := db.Collection("candidates").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create candidate indexes: %w", err)
	}
	return nil
}

func (r *mongoCandidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Candidate
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch candidate: %w", err)
	}
	return &c, nil
}

// Upsert creates the candidate on first profile save and refreshes the
// non-empty contact fields.
func (r *mongoCandidateRepo) Upsert(ctx context.Context, candidate models.Candidate) (*models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	set := bson.M{"updatedAt": now}
	if candidate.Name != "" {
		set["name"] = candidate.Name
	}
	if candidate.Email != "" {
		set["email"] = candidate.Email
	}
	if candidate.FCMToken != "" {
		set["fcmToken"] = candidate.FCMToken
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"id": candidate.ID, "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.Candidate
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": candidate.ID}, update, opts).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to upsert candidate: %w", err)
	}
	return &out, nil
}

func (r *mongoCandidateRepo) SetResume(ctx context.Context, id, publicID, resourceType string) (*models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"resumeId":   publicID,
		"resumeType": resourceType,
		"updatedAt":  time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out models.Candidate
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to set resume: %w", err)
	}
	return &out, nil
}
