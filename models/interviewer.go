package models

import "time"

// Interviewer is the public profile of someone offering mock interviews.
type Interviewer struct {
	ID               string             `bson:"id" json:"id"` // Firebase UID
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email,omitempty"`
	Headline         string             `bson:"headline" json:"headline,omitempty"`
	Bio              string             `bson:"bio" json:"bio,omitempty"`
	Skills           []string           `bson:"skills" json:"skills,omitempty"`
	ProfileImage     string             `bson:"profileImage" json:"profileImage,omitempty"`
	HourlyRate       float64            `bson:"hourlyRate" json:"hourlyRate"`
	Currency         string             `bson:"currency" json:"currency"`
	Availability     []AvailabilityRule `bson:"availability" json:"availability"`
	SessionDurations []int              `bson:"sessionDurations" json:"sessionDurations,omitempty"`
	Rating           float64            `bson:"rating" json:"rating"`
	TotalReviews     int                `bson:"totalReviews" json:"totalReviews"`
	FCMToken         string             `bson:"fcmToken,omitempty" json:"-"`
	StripeAccountID  string             `bson:"stripeAccountId,omitempty" json:"-"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// InterviewerProfileInput holds the editable profile fields.
type InterviewerProfileInput struct {
	Name             string   `json:"name" binding:"required"`
	Email            string   `json:"email"`
	Headline         string   `json:"headline"`
	Bio              string   `json:"bio"`
	Skills           []string `json:"skills"`
	SessionDurations []int    `json:"sessionDurations"`
	FCMToken         string   `json:"fcmToken"`
	StripeAccountID  string   `json:"stripeAccountId"`
}

// RateInput updates an interviewer's hourly rate.
type RateInput struct {
	HourlyRate float64 `json:"hourlyRate"`
	Currency   string  `json:"currency"`
}
