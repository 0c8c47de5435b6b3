package handlers

import (
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/notify"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCommunity stores submissions and reviews in memory
type memoryCommunity struct {
	mu          sync.Mutex
	nextID      int64
	submissions []models.SpotSubmission
	reviews     []models.Review
}

func (m *memoryCommunity) CreateSubmission(sub *models.SpotSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	sub.ID = m.nextID
	m.submissions = append(m.submissions, *sub)
	return nil
}

func (m *memoryCommunity) CreateReview(review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *memoryCommunity) ListBySpot(spotID string, limit int) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Review
	for i := len(m.reviews) - 1; i >= 0 && len(out) < limit; i-- {
		if m.reviews[i].SpotID == spotID {
			out = append(out, m.reviews[i])
		}
	}
	return out, nil
}

func (m *memoryCommunity) AverageRating(spotID string) (float64, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum, n int
	for _, r := range m.reviews {
		if r.SpotID == spotID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

func newCommunityRouter(user models.SessionUser, store *memoryCommunity) *gin.Engine {
	logger := testLogger()
	svc := services.NewCommunityService(store, store, newTestSessions(), notify.NewLogNotifier(logger), logger)
	h := NewCommunityHandler(svc, logger)

	r := newTestRouter(user)
	r.POST("/submissions", h.SubmitSpot)
	r.GET("/spots/:id/reviews", h.ListReviews)
	r.POST("/spots/:id/reviews", h.AddReview)
	r.POST("/reports", h.ReportSpace)
	return r
}

func TestSubmitSpot_Account(t *testing.T) {
	store := &memoryCommunity{}
	user := models.SessionUser{ID: uuid.New(), Name: "Sam", Email: "sam@example.com"}
	r := newCommunityRouter(user, store)

	w := doJSON(t, r, http.MethodPost, "/submissions", services.SubmissionInput{
		Name:       "Hidden Lane",
		Address:    "1 Hidden Lane",
		HourlyRate: 1.5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Title      string                `json:"title"`
		Submission models.SpotSubmission `json:"submission"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Spot Submitted!", resp.Title)
	assert.Equal(t, int64(1), resp.Submission.ID)
	assert.Equal(t, models.SpotTypeSurfaceLot, resp.Submission.Type)
	assert.Equal(t, models.SubmissionStatusPending, resp.Submission.Status)
	assert.Len(t, store.submissions, 1)
}

func TestSubmitSpot_GuestStaysInSession(t *testing.T) {
	store := &memoryCommunity{}
	r := newCommunityRouter(guestUser(), store)

	w := doJSON(t, r, http.MethodPost, "/submissions", services.SubmissionInput{Name: "Guest Spot"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, store.submissions)
}

func TestSubmitSpot_Validation(t *testing.T) {
	r := newCommunityRouter(guestUser(), &memoryCommunity{})

	w := doJSON(t, r, http.MethodPost, "/submissions", services.SubmissionInput{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/submissions", services.SubmissionInput{Name: "X", HourlyRate: -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviews(t *testing.T) {
	store := &memoryCommunity{}
	user := models.SessionUser{ID: uuid.New(), Name: "Sam", Email: "sam@example.com"}
	r := newCommunityRouter(user, store)

	w := doJSON(t, r, http.MethodPost, "/spots/b1/reviews", AddReviewRequest{Rating: 4, Comment: "Handy"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, "/spots/b1/reviews", AddReviewRequest{Comment: "Default rating"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/spots/b1/reviews", AddReviewRequest{Rating: 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/spots/b1/reviews", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary services.ReviewSummary
	decode(t, w, &summary)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)
	require.Len(t, summary.Reviews, 2)
	assert.Equal(t, "Default rating", summary.Reviews[0].Comment)

	w = doJSON(t, r, http.MethodGet, "/spots/b1/reviews?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportSpace(t *testing.T) {
	r := newCommunityRouter(guestUser(), &memoryCommunity{})

	w := doJSON(t, r, http.MethodPost, "/reports", ReportRequest{Type: models.ReportLeaving})
	require.Equal(t, http.StatusCreated, w.Code)

	var ack services.ReportAck
	decode(t, w, &ack)
	assert.Equal(t, services.DefaultReportCity, ack.Report.City)
	assert.NotEmpty(t, ack.Title)

	w = doJSON(t, r, http.MethodPost, "/reports", ReportRequest{Type: "parked"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
