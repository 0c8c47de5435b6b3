package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/catalog"
	"github.com/parkeasy/parkeasy-backend/internal/middleware"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// nopStore is a DocumentStore with no stored documents
type nopStore struct{}

func (nopStore) CreateDocument(doc *models.UserDocument) error                { return nil }
func (nopStore) GetDocument(userID uuid.UUID) (*models.UserDocument, error) { return nil, nil }
func (nopStore) UpdateField(userID uuid.UUID, field models.DocumentField, value interface{}) (int64, error) {
	return 1, nil
}
func (nopStore) UpsertField(userID uuid.UUID, field models.DocumentField, value interface{}) error {
	return nil
}
func (nopStore) ResetMonthlySearches(period string) (int64, error)         { return 0, nil }
func (nopStore) SetPremiumByEmail(email string, premium bool) (int64, error) { return 0, nil }

type staticLoader struct {
	catalogs map[string][]models.ParkingSpot
}

func (l *staticLoader) Load(ctx context.Context, cityID string) []models.ParkingSpot {
	return append([]models.ParkingSpot{}, l.catalogs[cityID]...)
}

func testSpot(id string, rate float64) models.ParkingSpot {
	return models.ParkingSpot{
		ID:        id,
		Name:      "Spot " + id,
		Address:   id + " Street",
		Type:      models.SpotTypeSurfaceLot,
		Pricing:   models.Pricing{Free: rate == 0, HourlyRate: rate},
		Available: 20,
		Total:     100,
		Distance:  0.4,
		Coords:    &models.Coordinate{Lat: 54.597, Lng: -5.930},
	}
}

func newTestSessions() *services.SessionService {
	noCoords := testSpot("b5", 1)
	noCoords.Coords = nil
	loader := &staticLoader{catalogs: map[string][]models.ParkingSpot{
		catalog.BundledCityID: {testSpot("b1", 1), testSpot("b2", 0), testSpot("b3", 2), testSpot("b4", 3), noCoords},
	}}
	bridge := services.NewPersistenceBridge(nopStore{}, testLogger())
	return services.NewSessionService(bridge, loader, testLogger())
}

func guestUser() models.SessionUser {
	return models.GuestUser(uuid.New())
}

// newTestRouter returns a router that authenticates every request as user
func newTestRouter(user models.SessionUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserContextKey, middleware.UserContext{SessionUser: user})
		c.Next()
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func doRequest(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
