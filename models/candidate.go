package models

import "time"

// Candidate is someone booking practice interviews.
type Candidate struct {
	ID       string `bson:"id" json:"id"` // Firebase UID
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	FCMToken string `bson:"fcmToken,omitempty" json:"-"`

	// The resume is a private asset; ResumeURL is a signed link filled in on read.
	ResumeID   string `bson:"resumeId,omitempty" json:"-"`
	ResumeType string `bson:"resumeType,omitempty" json:"-"`
	ResumeURL  string `bson:"-" json:"resumeUrl,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CandidateProfileInput holds the fields a candidate edits.
type CandidateProfileInput struct {
	Name     string `json:"name" binding:"required"`
	FCMToken string `json:"fcmToken"`
}
