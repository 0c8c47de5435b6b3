package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// SignatureHeader carries the webhook signature
const SignatureHeader = "Stripe-Signature"

const maxWebhookBody = 64 << 10

// CheckoutHandler serves Premium plans and the payment webhook
type CheckoutHandler struct {
	checkout *services.CheckoutService
	sessions *services.SessionService
	logger   *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout *services.CheckoutService, sessions *services.SessionService, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		sessions: sessions,
		logger:   logger,
	}
}

// ListPlans handles GET /api/v1/premium/plans
// Links are pre-filled with the caller's email when signed in.
func (h *CheckoutHandler) ListPlans(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	email := ""
	if !user.IsGuest() {
		email = user.Email
	}

	if plan := c.Query("plan"); plan != "" {
		link, err := h.checkout.PaymentLink(plan, email)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Unknown plan",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"plan": plan, "url": link})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": h.checkout.Plans(email)})
}

// Status handles GET /api/v1/premium/status
func (h *CheckoutHandler) Status(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	snap, err := h.sessions.Snapshot(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load premium status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_premium":      snap.IsPremium,
		"trial_active":    snap.TrialActive,
		"trial_days_left": snap.TrialDaysLeft,
		"searches_left":   snap.SearchesLeft,
	})
}

// Webhook handles POST /api/v1/webhooks/checkout
func (h *CheckoutHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to read body",
		})
		return
	}

	err = h.checkout.HandleWebhook(c.Request.Context(), payload, c.GetHeader(SignatureHeader))
	switch {
	case errors.Is(err, services.ErrInvalidSignature):
		h.logger.WithField("ip", c.ClientIP()).Warn("Rejected webhook with bad signature")
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_signature",
			Message: "Webhook signature verification failed",
		})
	case err != nil:
		respondError(c, h.logger, err, "Failed to process webhook")
	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
