package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/parkeasy/parkeasy-backend/internal/config"
	"github.com/parkeasy/parkeasy-backend/internal/notify"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"

	// CheckoutCompletedEvent is the webhook event that activates Premium
	CheckoutCompletedEvent stripe.EventType = "checkout.session.completed"

	signatureTolerance = 5 * time.Minute
)

var (
	// ErrInvalidSignature is returned when a webhook signature does not verify
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrUnknownPlan is returned for a plan id outside monthly/annual
	ErrUnknownPlan = errors.New("unknown plan")
)

// Plan is a Premium subscription offer
type Plan struct {
	ID                string  `json:"id"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	Interval          string  `json:"interval"`
	DisplayPrice      string  `json:"display_price"`
	Savings           string  `json:"savings,omitempty"`
	MonthlyEquivalent string  `json:"monthly_equivalent,omitempty"`
	URL               string  `json:"url"`
}

// CheckoutService builds payment links and applies checkout webhooks
type CheckoutService struct {
	cfg      config.CheckoutConfig
	bridge   *PersistenceBridge
	sessions *SessionService
	notifier notify.Notifier
	now      func() time.Time
	logger   *logrus.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(cfg config.CheckoutConfig, bridge *PersistenceBridge, sessions *SessionService, notifier notify.Notifier, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		cfg:      cfg,
		bridge:   bridge,
		sessions: sessions,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// Plans lists the offers, with links pre-filled for email when given
func (s *CheckoutService) Plans(email string) []Plan {
	return []Plan{
		{
			ID:           PlanMonthly,
			Amount:       2.99,
			Currency:     "£",
			Interval:     "month",
			DisplayPrice: "£2.99/month",
			URL:          paymentLink(s.cfg.MonthlyURL, email),
		},
		{
			ID:                PlanAnnual,
			Amount:            20,
			Currency:          "£",
			Interval:          "year",
			DisplayPrice:      "£20/year",
			Savings:           "£15.88",
			MonthlyEquivalent: "£1.67/month",
			URL:               paymentLink(s.cfg.AnnualURL, email),
		},
	}
}

// PaymentLink returns the link for a single plan
func (s *CheckoutService) PaymentLink(plan, email string) (string, error) {
	switch plan {
	case "", PlanAnnual:
		return paymentLink(s.cfg.AnnualURL, email), nil
	case PlanMonthly:
		return paymentLink(s.cfg.MonthlyURL, email), nil
	}
	return "", ErrUnknownPlan
}

func paymentLink(base, email string) string {
	if email == "" {
		return base
	}
	return base + "?prefilled_email=" + url.QueryEscape(email)
}

// ConstructEvent verifies the Stripe-Signature header and decodes the event.
// Events from any account API version are accepted since only the checkout session is read.
func (s *CheckoutService) ConstructEvent(payload []byte, header string) (stripe.Event, error) {
	if s.cfg.WebhookSecret == "" || header == "" {
		return stripe.Event{}, ErrInvalidSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, header, s.cfg.WebhookSecret, webhook.ConstructEventOptions{
		Tolerance:                signatureTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return event, nil
}

// checkoutEmail returns the paying customer's email
func checkoutEmail(session stripe.CheckoutSession) string {
	if session.CustomerEmail != "" {
		return session.CustomerEmail
	}
	if session.CustomerDetails != nil {
		return session.CustomerDetails.Email
	}
	return ""
}

// HandleWebhook verifies and applies a webhook. Unhandled event types are ignored.
func (s *CheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.ConstructEvent(payload, signature)
	if err != nil {
		return err
	}

	if event.Type != CheckoutCompletedEvent {
		s.logger.WithField("type", event.Type).Debug("Ignoring webhook event")
		return nil
	}
	if event.Data == nil {
		return fmt.Errorf("checkout event %s has no data", event.ID)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	email := checkoutEmail(session)
	if email == "" {
		s.logger.WithField("event_id", event.ID).Warn("Checkout completed without customer email")
		return nil
	}

	rows, err := s.bridge.SetPremiumByEmail(email)
	if err != nil {
		return err
	}
	live := s.sessions.ActivatePremium(email)

	s.logger.WithFields(logrus.Fields{
		"event_id":      event.ID,
		"email":         email,
		"documents":     rows,
		"live_sessions": live,
	}).Info("Premium activated")

	if err := s.notifier.Notify(ctx, notify.Event{
		Type:      notify.EventPremiumActivated,
		Title:     "Welcome to Premium!",
		Message:   "Your premium subscription is now active. Enjoy unlimited parking searches!",
		Data:      map[string]string{"email": email},
		Timestamp: s.now(),
	}); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to publish premium activation")
	}
	return nil
}
