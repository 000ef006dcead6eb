package models

// PricingBreakdown is the price split of a single booking.
type PricingBreakdown struct {
	Subtotal            float64 `bson:"subtotal" json:"subtotal"`
	PlatformFee         float64 `bson:"platformFee" json:"platformFee"`
	Total               float64 `bson:"total" json:"total"`
	InterviewerEarnings float64 `bson:"interviewerEarnings" json:"interviewerEarnings"`
	Currency            string  `bson:"currency" json:"currency"`
}

// QuoteRequest asks for the price of a session with an interviewer.
type QuoteRequest struct {
	InterviewerID   string `json:"interviewerId" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required"`
}
