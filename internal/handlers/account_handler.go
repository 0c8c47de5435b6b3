package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// AccountHandler serves the caller's session state and premium options
type AccountHandler struct {
	sessions *services.SessionService
	logger   *logrus.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(sessions *services.SessionService, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// GetAccount handles GET /api/v1/account
func (h *AccountHandler) GetAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	snap, err := h.sessions.Snapshot(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load account")
		return
	}

	c.JSON(http.StatusOK, snap)
}

// StartTrial handles POST /api/v1/premium/trial
func (h *AccountHandler) StartTrial(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	decision, err := h.sessions.StartFreeTrial(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.logger, err, "Failed to start trial")
		return
	}

	c.JSON(http.StatusOK, decision)
}

// CheckFeature handles GET /api/v1/premium/features/:name
func (h *AccountHandler) CheckFeature(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	decision, err := h.sessions.CheckPremiumFeature(c.Request.Context(), user, c.Param("name"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to check feature")
		return
	}
	if !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// Referral handles GET /api/v1/account/referral
func (h *AccountHandler) Referral(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	code := services.ReferralCode(user.Name)
	c.JSON(http.StatusOK, gin.H{
		"code":    code,
		"message": services.ReferralMessage(code),
	})
}
