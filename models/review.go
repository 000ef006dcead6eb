package models

import "time"

// Review categories.
const (
	CategoryTechnical       = "technical"
	CategoryCommunication   = "communication"
	CategoryProfessionalism = "professionalism"
	CategoryHelpfulness     = "helpfulness"
)

// ReviewCategories lists every category key in display order.
var ReviewCategories = []string{
	CategoryTechnical,
	CategoryCommunication,
	CategoryProfessionalism,
	CategoryHelpfulness,
}

// CategoryScores holds the optional per-category ratings of a review.
// A nil field means the candidate skipped that category.
type CategoryScores struct {
	Technical       *int `bson:"technical,omitempty" json:"technical,omitempty"`
	Communication   *int `bson:"communication,omitempty" json:"communication,omitempty"`
	Professionalism *int `bson:"professionalism,omitempty" json:"professionalism,omitempty"`
	Helpfulness     *int `bson:"helpfulness,omitempty" json:"helpfulness,omitempty"`
}

// Get returns the score for a category key and whether it was supplied.
func (c *CategoryScores) Get(category string) (int, bool) {
	if c == nil {
		return 0, false
	}
	var v *int
	switch category {
	case CategoryTechnical:
		v = c.Technical
	case CategoryCommunication:
		v = c.Communication
	case CategoryProfessionalism:
		v = c.Professionalism
	case CategoryHelpfulness:
		v = c.Helpfulness
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Review is a candidate's rating of a completed booking. Reviews are immutable.
type Review struct {
	ID             string          `bson:"id" json:"id"` // interviewerId_candidateId_bookingId
	InterviewerID  string          `bson:"interviewerId" json:"interviewerId"`
	CandidateID    string          `bson:"candidateId" json:"candidateId"`
	BookingID      string          `bson:"bookingId" json:"bookingId"`
	Rating         int             `bson:"rating" json:"rating"`
	Comment        string          `bson:"comment,omitempty" json:"comment,omitempty"`
	Categories     *CategoryScores `bson:"categories,omitempty" json:"categories,omitempty"`
	WouldRecommend bool            `bson:"wouldRecommend" json:"wouldRecommend"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
}

// ReviewInput is the body of a review submission.
type ReviewInput struct {
	BookingID      string          `json:"bookingId" binding:"required"`
	Rating         int             `json:"rating" binding:"required"`
	Comment        string          `json:"comment"`
	Categories     *CategoryScores `json:"categories,omitempty"`
	WouldRecommend bool            `json:"wouldRecommend"`
}
