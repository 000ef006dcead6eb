package models

// ReminderPayload is the asynq payload of a scheduled push reminder.
type ReminderPayload struct {
	ID         string `json:"id"`         // candidateId or interviewerId
	ReminderID string `json:"reminderId"` // bookingId
	Title      string `json:"title"`
	Body       string `json:"body"`
	FireDate   string `json:"fireDate"`
	Target     string `json:"target"` // "candidate" or "interviewer"
}

// ReviewPushPayload tells an interviewer a new review arrived.
type ReviewPushPayload struct {
	InterviewerID string `json:"interviewerId"`
	BookingID     string `json:"bookingId"`
	Rating        int    `json:"rating"`
}
