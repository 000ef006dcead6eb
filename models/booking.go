package models

import (
	"fmt"
	"time"
)

// Booking statuses.
const (
	BookingPendingPayment = "pending_payment"
	BookingConfirmed      = "confirmed"
	BookingCompleted      = "completed"
	BookingCancelled      = "cancelled"
)

// Booking is a scheduled mock interview. Pricing fields are copied from the
// PricingBreakdown computed at creation time and never recomputed.
type Booking struct {
	ID              string `bson:"id" json:"id"`
	InterviewerID   string `bson:"interviewerId" json:"interviewerId"`
	CandidateID     string `bson:"candidateId" json:"candidateId"`
	Date            string `bson:"date" json:"date"`           // "YYYY-MM-DD"
	StartTime       string `bson:"startTime" json:"startTime"` // "HH:MM"
	DurationMinutes int    `bson:"durationMinutes" json:"durationMinutes"`
	Timezone        string `bson:"timezone" json:"timezone"`
	InterviewType   string `bson:"interviewType,omitempty" json:"interviewType,omitempty"`
	Notes           string `bson:"notes,omitempty" json:"notes,omitempty"`
	Status          string `bson:"status" json:"status"`

	Subtotal            float64 `bson:"subtotal" json:"subtotal"`
	PlatformFee         float64 `bson:"platformFee" json:"platformFee"`
	Total               float64 `bson:"total" json:"total"`
	InterviewerEarnings float64 `bson:"interviewerEarnings" json:"interviewerEarnings"`
	Currency            string  `bson:"currency" json:"currency"`

	PaymentIntentID string `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	ClientSecret    string `bson:"-" json:"clientSecret,omitempty"`
	MeetingLink     string `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	Reviewed        bool   `bson:"reviewed" json:"reviewed"`
	// SlotCells lists the time cells the session occupies. Set while the
	// booking is active, unset on cancel.
	SlotCells []string `bson:"slotCells,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Pricing returns the breakdown stored on the booking.
func (b Booking) Pricing() PricingBreakdown {
	return PricingBreakdown{
		Subtotal:            b.Subtotal,
		PlatformFee:         b.PlatformFee,
		Total:               b.Total,
		InterviewerEarnings: b.InterviewerEarnings,
		Currency:            b.Currency,
	}
}

// ApplyPricing copies a breakdown onto the booking for audit.
func (b *Booking) ApplyPricing(p PricingBreakdown) {
	b.Subtotal = p.Subtotal
	b.PlatformFee = p.PlatformFee
	b.Total = p.Total
	b.InterviewerEarnings = p.InterviewerEarnings
	b.Currency = p.Currency
}

// Active reports whether the booking still occupies its time slot.
func (b Booking) Active() bool {
	return b.Status != BookingCancelled
}

// SlotCellMinutes is the width of one slot cell.
const SlotCellMinutes = 5

// BookingSlotCells returns one key per SlotCellMinutes cell of the interviewer's
// day covered by a session. Two sessions overlap exactly when their cell sets
// intersect, as long as both start on a cell boundary.
func BookingSlotCells(interviewerID, date, startTime string, durationMinutes int) []string {
	start, err := time.Parse("15:04", startTime)
	if err != nil || durationMinutes <= 0 {
		return nil
	}
	from := start.Hour()*60 + start.Minute()
	to := from + durationMinutes
	from -= from % SlotCellMinutes

	cells := make([]string, 0, (to-from+SlotCellMinutes-1)/SlotCellMinutes)
	for m := from; m < to; m += SlotCellMinutes {
		cells = append(cells, fmt.Sprintf("%s|%s|%02d:%02d", interviewerID, date, m/60, m%60))
	}
	return cells
}

// BookingInput is the body of a booking request.
type BookingInput struct {
	InterviewerID   string `json:"interviewerId" binding:"required"`
	Date            string `json:"date" binding:"required"`
	StartTime       string `json:"startTime" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required"`
	InterviewType   string `json:"interviewType"`
	Notes           string `json:"notes"`
}
