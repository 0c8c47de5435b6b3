package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/parkeasy/parkeasy-backend/internal/catalog"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/search"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// SearchHandler handles HTTP requests for spot search
type SearchHandler struct {
	sessions *services.SessionService
	logger   *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(sessions *services.SessionService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// SearchRequest represents a spot search
type SearchRequest struct {
	Query         string               `json:"query"`
	DestinationID string               `json:"destination_id"`
	Filters       *models.FilterConfig `json:"filters"`
}

// SpotView is a search result with its display labels
type SpotView struct {
	models.ParkingSpot
	Index        int    `json:"index"`
	Availability string `json:"availability"`
	WalkTime     string `json:"walk_time"`
	PriceLabel   string `json:"price_label"`
}

// SearchResponse is the result of a spot search
type SearchResponse struct {
	CityID         string              `json:"city_id"`
	Query          string              `json:"query"`
	Count          int                 `json:"count"`
	IsPremium      bool                `json:"is_premium"`
	Limited        bool                `json:"limited"`
	MatchedPlace   *models.Place       `json:"matched_place,omitempty"`
	CheapestNearby *models.ParkingSpot `json:"cheapest_nearby,omitempty"`
	Spots          []SpotView          `json:"spots"`
}

// Search handles POST /api/v1/search
// Searches with query text count against the monthly free allowance.
func (h *SearchHandler) Search(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// A partial filters object is decoded over the defaults
	defaults := models.DefaultFilterConfig()
	req := SearchRequest{Filters: &defaults}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid search request - JSON parsing failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request format",
			"error":   err.Error(),
		})
		return
	}

	filters := models.DefaultFilterConfig()
	if req.Filters != nil {
		filters = *req.Filters
	}
	if err := filters.Validate(); err != nil {
		respondError(c, h.logger, err, "Invalid filters")
		return
	}

	ctx := c.Request.Context()
	if strings.TrimSpace(req.Query) != "" {
		decision, err := h.sessions.TrackSearch(ctx, user)
		if err != nil {
			respondError(c, h.logger, err, "Search failed")
			return
		}
		if !decision.Allowed {
			respondDenied(c, decision)
			return
		}
	}

	cityID, spots, premium, err := h.sessions.Catalog(ctx, user)
	if err != nil {
		respondError(c, h.logger, err, "Search failed")
		return
	}

	query := search.Query{Text: req.Query}
	if req.DestinationID != "" {
		dest, found := catalog.FindDestination(cityID, req.DestinationID)
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Unknown destination for " + cityID,
			})
			return
		}
		query.Destination = &dest
	}

	result := search.Filter(spots, query, filters, premium, catalog.PlacesForCity(cityID))

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"city":    cityID,
		"query":   req.Query,
		"results": len(result.Spots),
	}).Debug("Search completed")

	c.JSON(http.StatusOK, SearchResponse{
		CityID:         cityID,
		Query:          req.Query,
		Count:          len(result.Spots),
		IsPremium:      premium,
		Limited:        !premium && len(spots) > search.FreeTierResults,
		MatchedPlace:   result.Place,
		CheapestNearby: search.CheapestNearby(result.Spots),
		Spots:          spotViews(result.Spots),
	})
}

func spotViews(spots []models.ParkingSpot) []SpotView {
	views := make([]SpotView, 0, len(spots))
	for i, s := range spots {
		views = append(views, SpotView{
			ParkingSpot:  s,
			Index:        i,
			Availability: search.AvailabilityStatus(s),
			WalkTime:     search.WalkTime(s.Distance),
			PriceLabel:   search.PriceLabel(s.Pricing),
		})
	}
	return views
}
