package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parkeasy/parkeasy-backend/internal/notify"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// BookingHandler handles bookings and parking timers
type BookingHandler struct {
	sessions *services.SessionService
	bookings *services.BookingService
	timers   *services.TimerService
	hub      *notify.Hub
	logger   *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(
	sessions *services.SessionService,
	bookings *services.BookingService,
	timers *services.TimerService,
	hub *notify.Hub,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		sessions: sessions,
		bookings: bookings,
		timers:   timers,
		hub:      hub,
		logger:   logger,
	}
}

// CreateBookingRequest represents a booking for a spot in the active catalog
type CreateBookingRequest struct {
	SpotID      string `json:"spot_id" binding:"required"`
	NumberPlate string `json:"number_plate"`
	StartTimer  bool   `json:"start_timer"`
}

// StartTimerRequest represents a request to start a parking timer.
// Hours defaults to services.DefaultTimerHours when omitted; zero is rejected.
type StartTimerRequest struct {
	SpotName string `json:"spot_name" binding:"required"`
	Hours    *int   `json:"hours"`
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "spot_id is required",
		})
		return
	}

	ctx := c.Request.Context()
	spot, found, err := h.sessions.FindSpot(ctx, user, req.SpotID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create booking")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Spot not found",
		})
		return
	}

	receipt, err := h.bookings.Book(ctx, user, spot, req.NumberPlate)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create booking")
		return
	}

	resp := gin.H{
		"title":   "Booking Confirmed!",
		"message": services.ConfirmationMessage(receipt),
		"booking": receipt,
	}
	if req.StartTimer {
		state, err := h.timers.Start(user, spot.Name, services.BookingHours)
		if err != nil {
			respondError(c, h.logger, err, "Failed to start timer")
			return
		}
		resp["timer"] = state
	}

	c.JSON(http.StatusCreated, resp)
}

// ListBookings handles GET /api/v1/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	snap, err := h.sessions.Snapshot(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": snap.BookingHistory,
		"count":    len(snap.BookingHistory),
	})
}

// StartTimer handles POST /api/v1/timer
func (h *BookingHandler) StartTimer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req StartTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "spot_name is required",
		})
		return
	}

	hours := services.DefaultTimerHours
	if req.Hours != nil {
		hours = *req.Hours
	}

	state, err := h.timers.Start(user, req.SpotName, hours)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, state)
}

// StopTimer handles DELETE /api/v1/timer
func (h *BookingHandler) StopTimer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !h.timers.Stop(user.ID) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "No active timer",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Timer stopped"})
}

// TimerStatus handles GET /api/v1/timer
func (h *BookingHandler) TimerStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	state, active := h.timers.Status(user.ID)
	if !active {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active": true,
		"timer":  state,
	})
}

// TimerEvents handles GET /api/v1/timer/ws
func (h *BookingHandler) TimerEvents(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.hub.ServeWS(c.Writer, c.Request, user.ID); err != nil {
		h.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("WebSocket upgrade failed")
	}
}
