package models

// PaymentRequest asks the payment processor to collect a booking's total.
type PaymentRequest struct {
	BookingID          string
	CandidateID        string
	Amount             float64
	ApplicationFee     float64
	Currency           string
	DestinationAccount string
	Idempotency        string
	Description        string
	Metadata           map[string]string
}

// PaymentIntent is the processor-side handle of a payment.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Status       string `json:"status"`
}
