// Package rating aggregates an interviewer's reviews into a rating summary and
// orchestrates review submission around the document store.
package rating

import (
	"math"
	"time"

	"interviewhub/models"
)

// Aggregate computes a summary from the complete review set of one
// interviewer. It returns false for an empty set: "no reviews yet" is not the
// same as an average of zero. The result depends only on its inputs.
func Aggregate(interviewerID string, reviews []models.Review, now time.Time) (models.InterviewerRatingSummary, bool) {
	if len(reviews) == 0 {
		return models.InterviewerRatingSummary{}, false
	}

	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	catSum := make(map[string]int)
	catCount := make(map[string]int)
	sum, recommended := 0, 0

	for _, r := range reviews {
		sum += r.Rating
		if _, ok := dist[r.Rating]; ok {
			dist[r.Rating]++
		}
		if r.WouldRecommend {
			recommended++
		}
		for _, c := range models.ReviewCategories {
			if v, ok := r.Categories.Get(c); ok {
				catSum[c] += v
				catCount[c]++
			}
		}
	}

	catAvg := make(map[string]float64, len(catCount))
	for c, n := range catCount {
		catAvg[c] = round1(float64(catSum[c]) / float64(n))
	}

	total := len(reviews)
	return models.InterviewerRatingSummary{
		InterviewerID:      interviewerID,
		AverageRating:      round1(float64(sum) / float64(total)),
		TotalReviews:       total,
		RatingDistribution: dist,
		CategoryAverages:   catAvg,
		RecommendationRate: round1(100 * float64(recommended) / float64(total)),
		LastUpdated:        now,
	}, true
}

// round1 rounds half away from zero to one decimal.
func round1(v float64) float64 {
	tenths := math.Round(v*10*1e6) / 1e6
	return math.Round(tenths) / 10
}
