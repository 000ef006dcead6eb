package models

import "time"

// InterviewerRatingSummary is a materialized view over an interviewer's reviews.
// It is rebuilt from the full review set whenever a review is added or removed.
type InterviewerRatingSummary struct {
	InterviewerID      string             `bson:"interviewerId" json:"interviewerId"`
	AverageRating      float64            `bson:"averageRating" json:"averageRating"`
	TotalReviews       int                `bson:"totalReviews" json:"totalReviews"`
	RatingDistribution map[int]int        `bson:"ratingDistribution" json:"ratingDistribution"`
	CategoryAverages   map[string]float64 `bson:"categoryAverages" json:"categoryAverages"`
	RecommendationRate float64            `bson:"recommendationRate" json:"recommendationRate"`
	LastUpdated        time.Time          `bson:"lastUpdated" json:"lastUpdated"`
}
