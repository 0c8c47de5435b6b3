package services

import (
	"context"
	"testing"
	"time"

	"github.com/parkeasy/parkeasy-backend/internal/config"
	"github.com/parkeasy/parkeasy-backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test"

func newTestCheckout(store *memoryStore, sessions *SessionService, rec *eventRecorder, now time.Time) *CheckoutService {
	cfg := config.CheckoutConfig{
		MonthlyURL:    "https://buy.stripe.com/test_monthly",
		AnnualURL:     "https://buy.stripe.com/test_annual",
		WebhookSecret: testWebhookSecret,
	}
	svc := NewCheckoutService(cfg, NewPersistenceBridge(store, testLogger()), sessions, rec, testLogger())
	svc.now = fixedClock(now)
	return svc
}

func signedHeader(payload []byte, at time.Time) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: at,
	}).Header
}

func TestPlans(t *testing.T) {
	svc := newTestCheckout(newMemoryStore(), newTestSessions(newMemoryStore()), &eventRecorder{}, time.Now())

	plans := svc.Plans("sam+park@example.com")
	require.Len(t, plans, 2)

	assert.Equal(t, PlanMonthly, plans[0].ID)
	assert.Equal(t, "£2.99/month", plans[0].DisplayPrice)
	assert.Equal(t, "https://buy.stripe.com/test_monthly?prefilled_email=sam%2Bpark%40example.com", plans[0].URL)

	assert.Equal(t, PlanAnnual, plans[1].ID)
	assert.Equal(t, "£20/year", plans[1].DisplayPrice)
	assert.Equal(t, "£15.88", plans[1].Savings)
	assert.Equal(t, "£1.67/month", plans[1].MonthlyEquivalent)

	anonymous := svc.Plans("")
	assert.Equal(t, "https://buy.stripe.com/test_annual", anonymous[1].URL)
}

func TestPaymentLink(t *testing.T) {
	svc := newTestCheckout(newMemoryStore(), newTestSessions(newMemoryStore()), &eventRecorder{}, time.Now())

	link, err := svc.PaymentLink("", "")
	require.NoError(t, err)
	assert.Equal(t, "https://buy.stripe.com/test_annual", link)

	link, err = svc.PaymentLink(PlanMonthly, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "https://buy.stripe.com/test_monthly?prefilled_email=a%40b.co", link)

	_, err = svc.PaymentLink("weekly", "")
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestConstructEvent(t *testing.T) {
	now := time.Now()
	svc := newTestCheckout(newMemoryStore(), newTestSessions(newMemoryStore()), &eventRecorder{}, now)
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed"}`)

	event, err := svc.ConstructEvent(payload, signedHeader(payload, now))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, CheckoutCompletedEvent, event.Type)

	_, err = svc.ConstructEvent(payload, signedHeader(payload, now.Add(-4*time.Minute)))
	assert.NoError(t, err)

	_, err = svc.ConstructEvent(payload, signedHeader(payload, now.Add(-10*time.Minute)))
	assert.ErrorIs(t, err, ErrInvalidSignature)
	_, err = svc.ConstructEvent([]byte(`{}`), signedHeader(payload, now))
	assert.ErrorIs(t, err, ErrInvalidSignature)
	_, err = svc.ConstructEvent(payload, "")
	assert.ErrorIs(t, err, ErrInvalidSignature)
	_, err = svc.ConstructEvent(payload, "t=abc,v1=00")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEvent_NoSecret(t *testing.T) {
	now := time.Now()
	svc := newTestCheckout(newMemoryStore(), newTestSessions(newMemoryStore()), &eventRecorder{}, now)
	svc.cfg.WebhookSecret = ""
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	_, err := svc.ConstructEvent(payload, signedHeader(payload, now))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestHandleWebhook_ActivatesPremium(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := newMemoryStore()
	sessions := newTestSessions(store)
	rec := &eventRecorder{}
	svc := newTestCheckout(store, sessions, rec, now)

	user := testAccount("driver@example.com")
	require.NoError(t, NewPersistenceBridge(store, testLogger()).CreateDocument(ctx, user))
	_, err := sessions.Begin(ctx, user)
	require.NoError(t, err)

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"customer_details":{"email":"Driver@Example.com"}}}}`)
	require.NoError(t, svc.HandleWebhook(ctx, payload, signedHeader(payload, now)))

	doc, err := store.GetDocument(user.ID)
	require.NoError(t, err)
	assert.True(t, doc.IsPremium)

	snap, err := sessions.Snapshot(ctx, user)
	require.NoError(t, err)
	assert.True(t, snap.IsPremium)

	assert.Equal(t, notify.EventPremiumActivated, rec.last().Type)
}

func TestHandleWebhook_IgnoresOtherEvents(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := newMemoryStore()
	rec := &eventRecorder{}
	svc := newTestCheckout(store, newTestSessions(store), rec, now)

	payload := []byte(`{"id":"evt_2","type":"invoice.paid","data":{"object":{"customer_email":"driver@example.com"}}}`)
	require.NoError(t, svc.HandleWebhook(ctx, payload, signedHeader(payload, now)))
	assert.Empty(t, rec.types())
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	now := time.Now()
	store := newMemoryStore()
	svc := newTestCheckout(store, newTestSessions(store), &eventRecorder{}, now)

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestCheckoutEmail(t *testing.T) {
	assert.Equal(t, "a@b.co", checkoutEmail(stripe.CheckoutSession{CustomerEmail: "a@b.co"}))
	assert.Equal(t, "c@d.co", checkoutEmail(stripe.CheckoutSession{
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "c@d.co"},
	}))
	assert.Equal(t, "", checkoutEmail(stripe.CheckoutSession{}))
}
