package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/sirupsen/logrus"
)

const defaultReviewLimit = 20

// CommunityHandler handles spot submissions, reviews and live space reports
type CommunityHandler struct {
	community *services.CommunityService
	logger    *logrus.Logger
}

// NewCommunityHandler creates a new community handler
func NewCommunityHandler(community *services.CommunityService, logger *logrus.Logger) *CommunityHandler {
	return &CommunityHandler{
		community: community,
		logger:    logger,
	}
}

// AddReviewRequest represents a review of a spot
type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReportRequest represents a live space report
type ReportRequest struct {
	Type     models.ReportType  `json:"type" binding:"required"`
	Location *models.Coordinate `json:"location"`
	City     string             `json:"city"`
}

// SubmitSpot handles POST /api/v1/submissions
func (h *CommunityHandler) SubmitSpot(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.SubmissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid submission",
		})
		return
	}

	sub, err := h.community.SubmitSpot(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to submit spot")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"title":      "Spot Submitted!",
		"message":    "Thanks for contributing! Your spot will be reviewed and added soon.",
		"submission": sub,
	})
}

// ListReviews handles GET /api/v1/spots/:id/reviews
func (h *CommunityHandler) ListReviews(c *gin.Context) {
	limit := defaultReviewLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	summary, err := h.community.Reviews(c.Param("id"), limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load reviews")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// AddReview handles POST /api/v1/spots/:id/reviews
func (h *CommunityHandler) AddReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid review",
		})
		return
	}

	review, err := h.community.AddReview(c.Request.Context(), user, c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		respondError(c, h.logger, err, "Failed to save review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ReportSpace handles POST /api/v1/reports
func (h *CommunityHandler) ReportSpace(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "type is required",
		})
		return
	}

	ack, err := h.community.ReportSpace(c.Request.Context(), user, req.Type, req.Location, req.City)
	if err != nil {
		respondError(c, h.logger, err, "Failed to report space")
		return
	}

	c.JSON(http.StatusCreated, ack)
}
