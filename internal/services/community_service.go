package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/notify"
	"github.com/sirupsen/logrus"
)

// DefaultReportCity is used when a report carries no city
const DefaultReportCity = "Belfast"

// SubmissionStore persists community spot submissions
type SubmissionStore interface {
	CreateSubmission(sub *models.SpotSubmission) error
}

// ReviewStore persists spot reviews
type ReviewStore interface {
	CreateReview(review *models.Review) error
	ListBySpot(spotID string, limit int) ([]models.Review, error)
	AverageRating(spotID string) (float64, int, error)
}

// SubmissionInput is the user-entered part of a spot submission
type SubmissionInput struct {
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	NearDestination string          `json:"near_destination"`
	Type            models.SpotType `json:"type"`
	Free            bool            `json:"free"`
	HourlyRate      float64         `json:"hourly_rate"`
	EVCharging      bool            `json:"ev_charging"`
	Accessible      bool            `json:"accessible"`
	Covered         bool            `json:"covered"`
	Description     string          `json:"description"`
}

// ReportAck is the acknowledgement shown after a space report
type ReportAck struct {
	Report  models.SpaceReport `json:"report"`
	Title   string             `json:"title"`
	Message string             `json:"message"`
}

// ReviewSummary is a spot's recent reviews and average rating
type ReviewSummary struct {
	SpotID  string          `json:"spot_id"`
	Average float64         `json:"average"`
	Count   int             `json:"count"`
	Reviews []models.Review `json:"reviews"`
}

// CommunityService handles submissions, reviews, space reports and referrals
type CommunityService struct {
	submissions SubmissionStore
	reviews     ReviewStore
	sessions    *SessionService
	notifier    notify.Notifier
	now         func() time.Time
	logger      *logrus.Logger
}

// NewCommunityService creates a new community service
func NewCommunityService(submissions SubmissionStore, reviews ReviewStore, sessions *SessionService, notifier notify.Notifier, logger *logrus.Logger) *CommunityService {
	return &CommunityService{
		submissions: submissions,
		reviews:     reviews,
		sessions:    sessions,
		notifier:    notifier,
		now:         time.Now,
		logger:      logger,
	}
}

// SubmitSpot records a new spot for review and mirrors it into the user document.
// Guest submissions live in the session only.
func (s *CommunityService) SubmitSpot(ctx context.Context, user models.SessionUser, in SubmissionInput) (models.SpotSubmission, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.SpotSubmission{}, models.NewValidationError("Spot name is required")
	}
	if in.Type == "" {
		in.Type = models.SpotTypeSurfaceLot
	}
	if !in.Type.IsValid() {
		return models.SpotSubmission{}, models.NewValidationError("Invalid spot type")
	}
	if in.HourlyRate < 0 {
		return models.SpotSubmission{}, models.NewValidationError("Hourly rate cannot be negative")
	}

	now := s.now()
	sub := models.SpotSubmission{
		ID:              now.UnixMilli(),
		UserID:          user.ID,
		Name:            name,
		Address:         strings.TrimSpace(in.Address),
		NearDestination: in.NearDestination,
		Type:            in.Type,
		Free:            in.Free,
		HourlyRate:      in.HourlyRate,
		EVCharging:      in.EVCharging,
		Accessible:      in.Accessible,
		Covered:         in.Covered,
		Description:     in.Description,
		Status:          models.SubmissionStatusPending,
		SubmittedDate:   now,
		PointsEarned:    models.SubmissionPoints,
	}

	if !user.IsGuest() {
		if err := s.submissions.CreateSubmission(&sub); err != nil {
			return models.SpotSubmission{}, err
		}
	}

	if err := s.sessions.RecordSubmission(ctx, user, sub); err != nil {
		return models.SpotSubmission{}, err
	}

	s.publish(ctx, notify.Event{
		Type:    notify.EventSpotSubmitted,
		UserID:  user.ID,
		Title:   "Spot Submitted",
		Message: fmt.Sprintf("Thanks! %s has been submitted for review. You earned %d points.", sub.Name, sub.PointsEarned),
		Data:    sub,
	})
	return sub, nil
}

// AddReview stores a rating for a spot. A zero rating defaults to 5.
func (s *CommunityService) AddReview(ctx context.Context, user models.SessionUser, spotID string, rating int, comment string) (models.Review, error) {
	if spotID == "" {
		return models.Review{}, models.NewValidationError("Spot is required")
	}
	if rating == 0 {
		rating = 5
	}
	if rating < 1 || rating > 5 {
		return models.Review{}, models.NewValidationError("Rating must be between 1 and 5")
	}

	review := models.Review{
		ID:        uuid.New(),
		UserID:    user.ID,
		SpotID:    spotID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: s.now(),
	}
	if err := s.reviews.CreateReview(&review); err != nil {
		return models.Review{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"spot_id": spotID,
		"rating":  rating,
	}).Info("Review submitted")
	return review, nil
}

// Reviews returns a spot's latest reviews with its average rating
func (s *CommunityService) Reviews(spotID string, limit int) (ReviewSummary, error) {
	reviews, err := s.reviews.ListBySpot(spotID, limit)
	if err != nil {
		return ReviewSummary{}, err
	}
	avg, count, err := s.reviews.AverageRating(spotID)
	if err != nil {
		return ReviewSummary{}, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return ReviewSummary{SpotID: spotID, Average: avg, Count: count, Reviews: reviews}, nil
}

// ReportSpace publishes a live availability report to everyone
func (s *CommunityService) ReportSpace(ctx context.Context, user models.SessionUser, reportType models.ReportType, location *models.Coordinate, city string) (ReportAck, error) {
	if !reportType.IsValid() {
		return ReportAck{}, models.NewValidationError("Invalid report type")
	}
	if strings.TrimSpace(city) == "" {
		city = DefaultReportCity
	}

	report := models.SpaceReport{
		ID:        uuid.New(),
		UserID:    user.ID,
		Type:      reportType,
		Timestamp: s.now(),
		Location:  location,
		City:      city,
	}
	ack := reportAck(report)

	s.publish(ctx, notify.Event{
		Type:    notify.EventSpaceReported,
		UserID:  uuid.Nil,
		Title:   ack.Title,
		Message: reportBroadcast(report),
		Data:    report,
	})
	return ack, nil
}

func reportAck(report models.SpaceReport) ReportAck {
	ack := ReportAck{Report: report, Title: "Thanks!"}
	switch report.Type {
	case models.ReportHiddenGem:
		ack.Title = "Hidden Gem Reported!"
		ack.Message = "Thanks for sharing! Your spot will be reviewed and added to the map. You'll earn 25 points and a free month of Premium when verified!"
	case models.ReportLeaving:
		ack.Message = "Other drivers will be notified a space is available nearby."
	default:
		ack.Message = "Thanks for letting the community know!"
	}
	return ack
}

func reportBroadcast(report models.SpaceReport) string {
	switch report.Type {
	case models.ReportLeaving:
		return fmt.Sprintf("A driver is leaving a space in %s.", report.City)
	case models.ReportFound:
		return fmt.Sprintf("A driver found a space in %s.", report.City)
	case models.ReportFull:
		return fmt.Sprintf("A car park in %s was reported full.", report.City)
	default:
		return fmt.Sprintf("A new hidden gem was reported in %s.", report.City)
	}
}

// ReferralCode builds a share code from the user's name
func ReferralCode(name string) string {
	prefix := "USER"
	if upper := []rune(strings.ToUpper(name)); len(upper) > 0 {
		if len(upper) > 4 {
			upper = upper[:4]
		}
		prefix = string(upper)
	}
	return fmt.Sprintf("PARK%s%d", prefix, rand.IntN(999))
}

// ReferralMessage is the share text for a referral code
func ReferralMessage(code string) string {
	return fmt.Sprintf("Join ParkEasy and get a free month of Premium! Use my referral code: %s - Download at parkeasy.app", code)
}

func (s *CommunityService) publish(ctx context.Context, event notify.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.WithFields(logrus.Fields{
			"type":  event.Type,
			"error": err.Error(),
		}).Warn("Failed to publish community event")
	}
}
