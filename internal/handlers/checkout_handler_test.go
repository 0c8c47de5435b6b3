package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/config"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/notify"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test"

func newCheckoutRouter(user models.SessionUser) (*gin.Engine, *services.SessionService) {
	logger := testLogger()
	sessions := newTestSessions()
	bridge := services.NewPersistenceBridge(nopStore{}, logger)
	svc := services.NewCheckoutService(config.CheckoutConfig{
		MonthlyURL:    "https://pay.example.com/monthly",
		AnnualURL:     "https://pay.example.com/annual",
		WebhookSecret: testWebhookSecret,
	}, bridge, sessions, notify.NewLogNotifier(logger), logger)
	h := NewCheckoutHandler(svc, sessions, logger)

	r := newTestRouter(user)
	r.GET("/premium/plans", h.ListPlans)
	r.GET("/premium/status", h.Status)
	r.POST("/webhooks/checkout", h.Webhook)
	return r, sessions
}

func signWebhook(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	}).Header
}

func postWebhook(r http.Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/checkout", bytes.NewReader(payload))
	req.Header.Set(SignatureHeader, signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListPlans(t *testing.T) {
	user := models.SessionUser{ID: uuid.New(), Name: "Sam", Email: "sam@example.com"}
	r, _ := newCheckoutRouter(user)

	w := doJSON(t, r, http.MethodGet, "/premium/plans", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Plans []services.Plan `json:"plans"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Plans, 2)
	for _, p := range resp.Plans {
		assert.Contains(t, p.URL, "prefilled_email=sam%40example.com")
	}
}

func TestListPlans_SinglePlan(t *testing.T) {
	r, _ := newCheckoutRouter(guestUser())

	w := doJSON(t, r, http.MethodGet, "/premium/plans?plan=monthly", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decode(t, w, &resp)
	assert.Equal(t, "https://pay.example.com/monthly", resp["url"])

	w = doJSON(t, r, http.MethodGet, "/premium/plans?plan=weekly", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_ActivatesPremium(t *testing.T) {
	user := models.SessionUser{ID: uuid.New(), Name: "Sam", Email: "sam@example.com"}
	r, _ := newCheckoutRouter(user)

	w := doJSON(t, r, http.MethodGet, "/premium/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_premium":false`)

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"customer_email":"SAM@example.com"}}}`)
	w = postWebhook(r, payload, signWebhook(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/premium/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_premium":true`)
}

func TestWebhook_BadSignature(t *testing.T) {
	r, _ := newCheckoutRouter(guestUser())

	payload := []byte(`{"type":"checkout.session.completed"}`)
	w := postWebhook(r, payload, signWebhook(payload, "whsec_other"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "invalid_signature", resp.Error)

	w = postWebhook(r, payload, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
