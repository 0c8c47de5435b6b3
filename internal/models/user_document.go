package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentField names a mirrored field of the user document
type DocumentField string

const (
	FieldSavedSpots      DocumentField = "saved_spots"
	FieldBookingHistory  DocumentField = "booking_history"
	FieldUserSubmissions DocumentField = "user_submissions"
	FieldIsPremium       DocumentField = "is_premium"
	FieldMonthlySearches DocumentField = "monthly_searches"
	FieldSearchPeriod    DocumentField = "search_period"
)

// IsValid reports whether f is a mirrored field
func (f DocumentField) IsValid() bool {
	switch f {
	case FieldSavedSpots, FieldBookingHistory, FieldUserSubmissions,
		FieldIsPremium, FieldMonthlySearches, FieldSearchPeriod:
		return true
	}
	return false
}

// UserDocument is the per-user persisted profile
type UserDocument struct {
	UserID          uuid.UUID      `json:"user_id" db:"user_id"`
	Name            string         `json:"name" db:"name"`
	Email           string         `json:"email" db:"email"`
	IsPremium       bool           `json:"is_premium" db:"is_premium"`
	MonthlySearches int            `json:"monthly_searches" db:"monthly_searches"`
	SearchPeriod    string         `json:"search_period" db:"search_period"`
	SavedSpots      SpotList       `json:"saved_spots" db:"saved_spots"`
	BookingHistory  ReceiptList    `json:"booking_history" db:"booking_history"`
	UserSubmissions SubmissionList `json:"user_submissions" db:"user_submissions"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// NewUserDocument returns the defaults written at sign-up
func NewUserDocument(userID uuid.UUID, name, email string, now time.Time) *UserDocument {
	return &UserDocument{
		UserID:          userID,
		Name:            name,
		Email:           email,
		SearchPeriod:    SearchPeriodOf(now),
		SavedSpots:      SpotList{},
		BookingHistory:  ReceiptList{},
		UserSubmissions: SubmissionList{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// SearchPeriodOf returns the calendar month key used for the free search counter
func SearchPeriodOf(t time.Time) string {
	return t.UTC().Format("2006-01")
}
