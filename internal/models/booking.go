package models

// BookingStatusConfirmed is the only status a new booking receives
const BookingStatusConfirmed = "confirmed"

// BookingReceipt is a confirmation for a fixed-length booking
type BookingReceipt struct {
	ID          int64  `json:"id"`
	SpotID      string `json:"spot_id"`
	SpotName    string `json:"spot_name"`
	Address     string `json:"address"`
	Price       string `json:"price"`
	Date        string `json:"date"`
	Duration    string `json:"duration"`
	Total       string `json:"total"`
	Status      string `json:"status"`
	Ref         string `json:"ref"`
	NumberPlate string `json:"number_plate"`
}

// TimerState is a snapshot of a running parking timer
type TimerState struct {
	SpotName         string `json:"spot_name"`
	StartedAt        int64  `json:"started_at"`
	EndsAt           int64  `json:"ends_at"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Display          string `json:"display"`
}
