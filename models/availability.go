package models

// AvailabilityRule is one weekly window in which an interviewer takes bookings.
type AvailabilityRule struct {
	DayOfWeek int    `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday
	StartTime string `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime   string `bson:"endTime" json:"endTime"`     // "HH:MM"
	Timezone  string `bson:"timezone" json:"timezone"`
}

// Day availability states.
const (
	DayUnavailable = "unavailable"
	DayFullyBooked = "fully_booked"
	DayAvailable   = "available"
)

// DaySlots is the bookable start times for one interviewer on one date.
type DaySlots struct {
	InterviewerID string   `json:"interviewerId"`
	Date          string   `json:"date"`
	Timezone      string   `json:"timezone,omitempty"`
	Status        string   `json:"status"`
	Slots         []string `json:"slots"`
}
