// Package pricing computes the price split of a booking between the platform
// and the interviewer.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"interviewhub/models"
)

// PlatformFeeRate is the share of the subtotal charged on top by the platform.
const PlatformFeeRate = 0.15

// MaxSessionMinutes caps the length of a single booking.
const MaxSessionMinutes = 240

// SlotMinutes is the booking grid; durations must be a multiple of it.
const SlotMinutes = 15

var (
	ErrInvalidRate     = errors.New("hourly rate must not be negative")
	ErrInvalidDuration = errors.New("duration must be a positive multiple of 15 minutes")
)

// Calculate prices a session of durationMinutes at hourlyRate. Every derived
// amount is rounded to cents before it feeds the next step, so the displayed
// subtotal plus fee always equals the displayed total. Inputs are not
// validated; see ValidateQuoteInput.
func Calculate(hourlyRate float64, durationMinutes int, currency string) models.PricingBreakdown {
	hours := float64(durationMinutes) / 60
	subtotal := Round2(hourlyRate * hours)
	fee := Round2(subtotal * PlatformFeeRate)
	total := Round2(subtotal + fee)

	return models.PricingBreakdown{
		Subtotal:            subtotal,
		PlatformFee:         fee,
		Total:               total,
		InterviewerEarnings: subtotal,
		Currency:            strings.ToLower(currency),
	}
}

// Round2 rounds half away from zero to two decimal places. The cent value is
// snapped to a millionth first so binary noise (1.005*100 = 100.4999...) does
// not pull a half-cent down.
func Round2(v float64) float64 {
	cents := math.Round(v*100*1e6) / 1e6
	return math.Round(cents) / 100
}

// ToMinorUnits converts a rounded amount into integer cents.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ValidateQuoteInput is the guard callers run before Calculate.
func ValidateQuoteInput(hourlyRate float64, durationMinutes int) error {
	if hourlyRate < 0 || math.IsNaN(hourlyRate) || math.IsInf(hourlyRate, 0) {
		return ErrInvalidRate
	}
	if durationMinutes <= 0 || durationMinutes%SlotMinutes != 0 {
		return ErrInvalidDuration
	}
	if durationMinutes > MaxSessionMinutes {
		return fmt.Errorf("%w: at most %d minutes", ErrInvalidDuration, MaxSessionMinutes)
	}
	return nil
}
