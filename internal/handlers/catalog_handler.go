package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/parkeasy/parkeasy-backend/internal/catalog"
	"github.com/parkeasy/parkeasy-backend/internal/geo"
	"github.com/parkeasy/parkeasy-backend/internal/search"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// CatalogHandler serves the city list and per-city catalog
type CatalogHandler struct {
	sessions *services.SessionService
	logger   *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(sessions *services.SessionService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// SelectCityRequest represents the request to switch city
type SelectCityRequest struct {
	CityID string `json:"city_id" binding:"required"`
}

// ListCities handles GET /api/v1/cities
func (h *CatalogHandler) ListCities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cities": catalog.Cities()})
}

// NearestCity handles GET /api/v1/cities/nearest?lat=&lng=
func (h *CatalogHandler) NearestCity(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "lat and lng query parameters are required",
		})
		return
	}

	city, ok := geo.NearestCity(catalog.Cities(), lat, lng)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "No cities available",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city":        city,
		"distance_km": geo.Distance(lat, lng, city.Coords.Lat, city.Coords.Lng),
	})
}

// Destinations handles GET /api/v1/cities/:id/destinations
func (h *CatalogHandler) Destinations(c *gin.Context) {
	cityID := c.Param("id")
	if _, ok := catalog.FindCity(cityID); !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "City not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city_id":      cityID,
		"destinations": catalog.DestinationsForCity(cityID),
	})
}

// Suggestions handles GET /api/v1/suggestions?q=
func (h *CatalogHandler) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"suggestions": search.Suggestions(catalog.Suggestions(), c.Query("q")),
	})
}

// SelectCity handles PUT /api/v1/catalog/city
func (h *CatalogHandler) SelectCity(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req SelectCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "city_id is required",
		})
		return
	}

	spots, applied, err := h.sessions.SelectCity(c.Request.Context(), user, req.CityID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load city")
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "superseded",
			Message: "A newer city selection is in progress",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city_id": req.CityID,
		"count":   len(spots),
		"spots":   spots,
	})
}

// GetCatalog handles GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	cityID, spots, premium, err := h.sessions.Catalog(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load catalog")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city_id":    cityID,
		"is_premium": premium,
		"count":      len(spots),
		"spots":      spots,
	})
}
