package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission review statuses
const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

// SubmissionPoints is awarded for each submitted spot
const SubmissionPoints = 10

// SpotSubmission is a community-submitted spot awaiting review
type SpotSubmission struct {
	ID              int64     `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Name            string    `json:"name" db:"name"`
	Address         string    `json:"address" db:"address"`
	NearDestination string    `json:"near_destination" db:"near_destination"`
	Type            SpotType  `json:"type" db:"type"`
	Free            bool      `json:"free" db:"free"`
	HourlyRate      float64   `json:"hourly_rate" db:"hourly_rate"`
	EVCharging      bool      `json:"ev_charging" db:"ev_charging"`
	Accessible      bool      `json:"accessible" db:"accessible"`
	Covered         bool      `json:"covered" db:"covered"`
	Description     string    `json:"description" db:"description"`
	Status          string    `json:"status" db:"status"`
	SubmittedDate   time.Time `json:"submitted_date" db:"submitted_date"`
	PointsEarned    int       `json:"points_earned" db:"points_earned"`
}

// Review is a user's rating of a spot
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	SpotID    string    `json:"spot_id" db:"spot_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ReportType is the kind of live space report
type ReportType string

const (
	ReportLeaving   ReportType = "leaving"
	ReportFound     ReportType = "found"
	ReportFull      ReportType = "full"
	ReportHiddenGem ReportType = "hidden_gem"
)

// IsValid reports whether t is a known report type
func (t ReportType) IsValid() bool {
	switch t {
	case ReportLeaving, ReportFound, ReportFull, ReportHiddenGem:
		return true
	}
	return false
}

// SpaceReport is a live community report about parking availability
type SpaceReport struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Type      ReportType  `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Location  *Coordinate `json:"location,omitempty"`
	City      string      `json:"city"`
}
