package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/search"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/parkeasy/parkeasy-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// SpotHandler handles spot details, saving, sharing and directions
type SpotHandler struct {
	sessions *services.SessionService
	logger   *logrus.Logger
}

// NewSpotHandler creates a new spot handler
func NewSpotHandler(sessions *services.SessionService, logger *logrus.Logger) *SpotHandler {
	return &SpotHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// lookupSpot resolves :id against the caller's active catalog, writing 404 when missing
func (h *SpotHandler) lookupSpot(c *gin.Context, user models.SessionUser) (models.ParkingSpot, bool) {
	spot, found, err := h.sessions.FindSpot(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load spot")
		return models.ParkingSpot{}, false
	}
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Spot not found",
		})
		return models.ParkingSpot{}, false
	}
	return spot, true
}

// GetSpot handles GET /api/v1/spots/:id?index=
// index is the spot's position in the caller's result list.
func (h *SpotHandler) GetSpot(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.DefaultQuery("index", "0"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "index must be a non-negative integer",
		})
		return
	}

	spot, ok := h.lookupSpot(c, user)
	if !ok {
		return
	}

	decision, err := h.sessions.ViewSpot(c.Request.Context(), user, spot, index)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load spot")
		return
	}
	if !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	saved, err := h.sessions.IsSaved(c.Request.Context(), user, spot.ID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load spot")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"spot":         spot,
		"saved":        saved,
		"availability": search.AvailabilityStatus(spot),
		"walk_time":    search.WalkTime(spot.Distance),
		"price_label":  search.PriceLabel(spot.Pricing),
	})
}

// ToggleSave handles POST /api/v1/spots/:id/save
// A saved spot is removed by id, so spots from a previous city can still be unsaved.
func (h *SpotHandler) ToggleSave(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	spotID := c.Param("id")
	saved, err := h.sessions.IsSaved(c.Request.Context(), user, spotID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to save spot")
		return
	}

	spot := models.ParkingSpot{ID: spotID}
	if !saved {
		if spot, ok = h.lookupSpot(c, user); !ok {
			return
		}
	}

	decision, saved, err := h.sessions.ToggleSaveSpot(c.Request.Context(), user, spot)
	if err != nil {
		respondError(c, h.logger, err, "Failed to save spot")
		return
	}
	if !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"spot_id": spot.ID,
		"saved":   saved,
	})
}

// Share handles GET /api/v1/spots/:id/share
func (h *SpotHandler) Share(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	spot, ok := h.lookupSpot(c, user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":   search.ShareTitle(spot),
		"message": search.ShareMessage(spot),
	})
}

// Directions handles GET /api/v1/spots/:id/directions
// The deep-link scheme follows the caller's platform, detected from the User-Agent
// unless ?platform= overrides it.
func (h *SpotHandler) Directions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	spot, ok := h.lookupSpot(c, user)
	if !ok {
		return
	}

	platform := search.Platform(c.Query("platform"))
	switch platform {
	case search.PlatformIOS, search.PlatformAndroid, search.PlatformWeb:
	default:
		platform = search.Platform(utils.ParseUserAgent(utils.GetUserAgent(c)).Platform)
	}

	directions, ok := search.DirectionsFor(spot, platform)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "no_location",
			Message: "Location not available for this spot",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"platform":   platform,
		"directions": directions,
	})
}
