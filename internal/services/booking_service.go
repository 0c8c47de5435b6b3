package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/search"
	"github.com/parkeasy/parkeasy-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

const (
	// BookingHours is the fixed length of a booking
	BookingHours = 2
	// NoPlate is recorded when the driver gave no registration
	NoPlate = "Not provided"
)

// BookingService creates fixed-length booking receipts
type BookingService struct {
	sessions *SessionService
	now      func() time.Time
	logger   *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(sessions *SessionService, logger *logrus.Logger) *BookingService {
	return &BookingService{
		sessions: sessions,
		now:      time.Now,
		logger:   logger,
	}
}

// Book confirms a booking for spot and records it in the user's history
func (s *BookingService) Book(ctx context.Context, user models.SessionUser, spot models.ParkingSpot, plate string) (models.BookingReceipt, error) {
	receipt := NewReceipt(spot, validator.NormalizePlate(plate), s.now())
	if err := s.sessions.RecordBooking(ctx, user, receipt); err != nil {
		return models.BookingReceipt{}, fmt.Errorf("failed to record booking: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"spot_id": spot.ID,
		"ref":     receipt.Ref,
	}).Info("Booking confirmed")
	return receipt, nil
}

// NewReceipt builds the confirmation for a booking made at now
func NewReceipt(spot models.ParkingSpot, plate string, now time.Time) models.BookingReceipt {
	id := now.UnixMilli()
	digits := strconv.FormatInt(id, 10)
	if len(digits) > 6 {
		digits = digits[len(digits)-6:]
	}

	total := "£0.00"
	if !spot.Pricing.Free {
		total = fmt.Sprintf("£%.2f", spot.Pricing.HourlyRate*BookingHours)
	}
	if plate == "" {
		plate = NoPlate
	}

	return models.BookingReceipt{
		ID:          id,
		SpotID:      spot.ID,
		SpotName:    spot.Name,
		Address:     spot.Address,
		Price:       search.PriceLabel(spot.Pricing),
		Date:        now.UTC().Format(time.RFC3339),
		Duration:    fmt.Sprintf("%d hours", BookingHours),
		Total:       total,
		Status:      models.BookingStatusConfirmed,
		Ref:         "PE-" + digits,
		NumberPlate: plate,
	}
}

// ConfirmationMessage renders the booking confirmation shown to the driver
func ConfirmationMessage(r models.BookingReceipt) string {
	msg := fmt.Sprintf("%s\nRef: %s\n", r.SpotName, r.Ref)
	if r.NumberPlate != NoPlate {
		msg += fmt.Sprintf("Reg: %s\n", r.NumberPlate)
	}
	return msg + "Total: " + r.Total
}
