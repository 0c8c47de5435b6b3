package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/catalog"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// FreeSearchLimit is the monthly search allowance for free users
	FreeSearchLimit = 10
	// FreeSaveLimit is the number of spots a free user can save
	FreeSaveLimit = 5
	// RecentlyViewedLimit caps the recently viewed list
	RecentlyViewedLimit = 5
	// FreeDetailResults is how many results a free user can open
	FreeDetailResults = 3
	// TrialDays is the length of the free Premium trial
	TrialDays = 7
)

// ErrUnknownCity is returned when a city id is not in the fixed list
var ErrUnknownCity = errors.New("unknown city")

// Decision is the outcome of a gated operation. A denial is not an error.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

var allowed = Decision{Allowed: true}

// CatalogLoader loads the spot catalog for a city
type CatalogLoader interface {
	Load(ctx context.Context, cityID string) []models.ParkingSpot
}

// State is one user's session
type State struct {
	mu sync.Mutex

	User            models.SessionUser
	IsPremium       bool
	TrialStartedAt  time.Time
	MonthlySearches int
	SearchPeriod    string
	SavedSpots      []models.ParkingSpot
	BookingHistory  []models.BookingReceipt
	Submissions     []models.SpotSubmission
	RecentlyViewed  []models.ParkingSpot
	CityID          string
	Catalog         []models.ParkingSpot

	cityGeneration uint64
	// guarded by SessionService.mu
	lastSeen time.Time
}

// Snapshot is a read-only copy of a session
type Snapshot struct {
	User            models.SessionUser      `json:"user"`
	IsPremium       bool                    `json:"is_premium"`
	TrialActive     bool                    `json:"trial_active"`
	TrialDaysLeft   int                     `json:"trial_days_left,omitempty"`
	MonthlySearches int                     `json:"monthly_searches"`
	SearchesLeft    int                     `json:"searches_left"`
	SavedSpots      []models.ParkingSpot    `json:"saved_spots"`
	BookingHistory  []models.BookingReceipt `json:"booking_history"`
	Submissions     []models.SpotSubmission `json:"user_submissions"`
	RecentlyViewed  []models.ParkingSpot    `json:"recently_viewed"`
	CityID          string                  `json:"city_id"`
	Points          int                     `json:"points"`
}

// SessionService owns per-user session state and the free-tier rules
type SessionService struct {
	mu     sync.Mutex
	states map[uuid.UUID]*State
	bridge *PersistenceBridge
	loader CatalogLoader
	now    func() time.Time
	logger *logrus.Logger
}

// NewSessionService creates a new session service
func NewSessionService(bridge *PersistenceBridge, loader CatalogLoader, logger *logrus.Logger) *SessionService {
	return &SessionService{
		states: make(map[uuid.UUID]*State),
		bridge: bridge,
		loader: loader,
		now:    time.Now,
		logger: logger,
	}
}

// Begin starts or resumes a session, loading the stored document for accounts
func (s *SessionService) Begin(ctx context.Context, user models.SessionUser) (*State, error) {
	s.mu.Lock()
	if st, ok := s.states[user.ID]; ok {
		st.lastSeen = s.now()
		s.mu.Unlock()
		return st, nil
	}
	s.mu.Unlock()

	st := &State{
		User:           user,
		SearchPeriod:   models.SearchPeriodOf(s.now()),
		SavedSpots:     []models.ParkingSpot{},
		BookingHistory: []models.BookingReceipt{},
		Submissions:    []models.SpotSubmission{},
		RecentlyViewed: []models.ParkingSpot{},
		CityID:         catalog.BundledCityID,
	}

	st.Catalog = s.loader.Load(ctx, catalog.BundledCityID)

	doc, err := s.bridge.LoadDocument(ctx, user)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		st.IsPremium = doc.IsPremium
		st.MonthlySearches = doc.MonthlySearches
		if doc.SearchPeriod != "" {
			st.SearchPeriod = doc.SearchPeriod
		}
		st.SavedSpots = append(st.SavedSpots, doc.SavedSpots...)
		st.BookingHistory = append(st.BookingHistory, doc.BookingHistory...)
		st.Submissions = append(st.Submissions, doc.UserSubmissions...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.states[user.ID]; ok {
		existing.lastSeen = s.now()
		return existing, nil
	}
	st.lastSeen = s.now()
	s.states[user.ID] = st
	return st, nil
}

// End drops the session
func (s *SessionService) End(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

// EvictIdle drops sessions not used within maxIdle and returns how many were removed.
// Accounts are reloaded from their stored document on the next request.
func (s *SessionService) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, st := range s.states {
		if st.lastSeen.Before(cutoff) {
			delete(s.states, id)
			evicted++
		}
	}
	return evicted
}

// ActiveSessions returns the number of live sessions
func (s *SessionService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (s *SessionService) state(ctx context.Context, user models.SessionUser) (*State, error) {
	return s.Begin(ctx, user)
}

// Snapshot returns a copy of the user's session
func (s *SessionService) Snapshot(ctx context.Context, user models.SessionUser) (Snapshot, error) {
	st, err := s.state(ctx, user)
	if err != nil {
		return Snapshot{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	s.rollPeriod(st)

	snap := Snapshot{
		User:            st.User,
		IsPremium:       st.IsPremium,
		MonthlySearches: st.MonthlySearches,
		SavedSpots:      append([]models.ParkingSpot{}, st.SavedSpots...),
		BookingHistory:  append([]models.BookingReceipt{}, st.BookingHistory...),
		Submissions:     append([]models.SpotSubmission{}, st.Submissions...),
		RecentlyViewed:  append([]models.ParkingSpot{}, st.RecentlyViewed...),
		CityID:          st.CityID,
		Points:          len(st.Submissions) * models.SubmissionPoints,
	}
	if !st.IsPremium {
		snap.SearchesLeft = FreeSearchLimit - st.MonthlySearches
		if snap.SearchesLeft < 0 {
			snap.SearchesLeft = 0
		}
	}
	if !st.TrialStartedAt.IsZero() {
		left := TrialDays - int(s.now().Sub(st.TrialStartedAt).Hours()/24)
		if left > 0 {
			snap.TrialActive = true
			snap.TrialDaysLeft = left
		}
	}
	return snap, nil
}

// rollPeriod zeroes the counter when the calendar month has changed.
// Returns true when a reset happened. Caller holds st.mu.
func (s *SessionService) rollPeriod(st *State) bool {
	current := models.SearchPeriodOf(s.now())
	if st.SearchPeriod == current {
		return false
	}
	st.SearchPeriod = current
	st.MonthlySearches = 0
	return true
}

// TrackSearch charges one search against the free allowance
func (s *SessionService) TrackSearch(ctx context.Context, user models.SessionUser) (Decision, error) {
	st, err := s.state(ctx, user)
	if err != nil {
		return Decision{}, err
	}
	st.mu.Lock()
	if st.IsPremium {
		st.mu.Unlock()
		return allowed, nil
	}

	rolled := s.rollPeriod(st)
	if st.MonthlySearches >= FreeSearchLimit {
		st.mu.Unlock()
		return Decision{
			Title:   "Search Limit Reached",
			Message: fmt.Sprintf("You've used all %d free searches this month. Upgrade to Premium for unlimited searches!", FreeSearchLimit),
		}, nil
	}
	st.MonthlySearches++
	count, period := st.MonthlySearches, st.SearchPeriod
	st.mu.Unlock()

	if rolled {
		s.persist(ctx, user, models.FieldSearchPeriod, period)
	}
	s.persist(ctx, user, models.FieldMonthlySearches, count)
	return allowed, nil
}

// CheckPremiumFeature gates a named premium feature
func (s *SessionService) CheckPremiumFeature(ctx context.Context, user models.SessionUser, featureName string) (Decision, error) {
	st, err := s.state(ctx, user)
	if err != nil {
		return Decision{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return premiumDecision(st.IsPremium, featureName), nil
}

func premiumDecision(premium bool, featureName string) Decision {
	if premium {
		return allowed
	}
	return Decision{
		Title:   "Premium Feature",
		Message: fmt.Sprintf("%s is a premium feature. Upgrade to access unlimited searches, real-time availability, and more!", featureName),
	}
}

// ToggleSaveSpot removes a saved spot or saves a new one.
// saved reports whether the spot is saved afterwards.
func (s *SessionService) ToggleSaveSpot(ctx context.Context, user models.SessionUser, spot models.ParkingSpot) (Decision, bool, error) {
	st, err := s.state(ctx, user)
	if err != nil {
		return Decision{}, false, err
	}
	st.mu.Lock()

	for i, saved := range st.SavedSpots {
		if saved.ID == spot.ID {
			updated := make([]models.ParkingSpot, 0, len(st.SavedSpots)-1)
			updated = append(updated, st.SavedSpots[:i]...)
			updated = append(updated, st.SavedSpots[i+1:]...)
			st.SavedSpots = updated
			st.mu.Unlock()
			s.persist(ctx, user, models.FieldSavedSpots, updated)
			return allowed, false, nil
		}
	}

	if !st.IsPremium && len(st.SavedSpots) >= FreeSaveLimit {
		st.mu.Unlock()
		return Decision{
			Title:   "Save Limit Reached",
			Message: fmt.Sprintf("Free users can save up to %d spots. Upgrade to Premium for unlimited saves!", FreeSaveLimit),
		}, false, nil
	}

	updated := append(append([]models.ParkingSpot{}, st.SavedSpots...), spot)
	st.SavedSpots = updated
	st.mu.Unlock()

	s.persist(ctx, user, models.FieldSavedSpots, updated)
	return allowed, true, nil
}

// IsSaved reports whether spotID is in the user's saved list
func (s *SessionService) IsSaved(ctx context.Context, user models.SessionUser, spotID string) (bool, error) {
	st, err := s.state(ctx, user)
	if err != nil {
		return false, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, saved := range st.SavedSpots {
		if saved.ID == spotID {
			return true, nil
		}
	}
	return false, nil
}

// ViewSpot opens a spot's details. Free users may open only the first results.
func (s *SessionService) ViewSpot(ctx context.Context, user models.SessionUser, spot models.ParkingSpot, index int) (Decision, error) {
	st, err := s.state(ctx, user)
	if err != nil {
		return Decision{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.IsPremium && index >= FreeDetailResults {
		return premiumDecision(false, "Full spot details"), nil
	}

	recent := make([]models.ParkingSpot, 0, RecentlyViewedLimit)
	recent = append(recent, spot)
	for _, rv := range st.RecentlyViewed {
		if rv.ID == spot.ID {
			continue
		}
		if len(recent) == RecentlyViewedLimit {
			break
		}
		recent = append(recent, rv)
	}
	st.RecentlyViewed = recent
	return allowed, nil
}

// SelectCity switches the active city and loads its catalog.
// applied is false when a newer selection superseded this one while loading.
func (s *SessionService) SelectCity(ctx context.Context, user models.SessionUser, cityID string) ([]models.ParkingSpot, bool, error) {
	city, ok := catalog.FindCity(cityID)
	if !ok {
		return nil, false, ErrUnknownCity
	}

	st, err := s.state(ctx, user)
	if err != nil {
		return nil, false, err
	}

	st.mu.Lock()
	st.cityGeneration++
	gen := st.cityGeneration
	st.mu.Unlock()

	spots := s.loader.Load(ctx, city.ID)

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cityGeneration != gen {
		s.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"city":    city.ID,
		}).Debug("Discarding stale city load")
		return spots, false, nil
	}
	st.CityID = city.ID
	st.Catalog = spots
	return spots, true, nil
}

// Catalog returns the active city and its loaded catalog
func (s *SessionService) Catalog(ctx context.Context, user models.SessionUser) (string, []models.ParkingSpot, bool, error) {
	st, err := s.state(ctx, user)
	if err != nil {
		return "", nil, false, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.CityID, st.Catalog, st.IsPremium, nil
}

// FindSpot looks a spot up in the user's active catalog
func (s *SessionService) FindSpot(ctx context.Context, user models.SessionUser, spotID string) (models.ParkingSpot, bool, error) {
	_, spots, _, err := s.Catalog(ctx, user)
	if err != nil {
		return models.ParkingSpot{}, false, err
	}
	for _, spot := range spots {
		if spot.ID == spotID {
			return spot, true, nil
		}
	}
	return models.ParkingSpot{}, false, nil
}

// StartFreeTrial grants Premium for the trial period
func (s *SessionService) StartFreeTrial(ctx context.Context, user models.SessionUser) (Decision, error) {
	st, err := s.state(ctx, user)
	if err != nil {
		return Decision{}, err
	}
	st.mu.Lock()
	st.IsPremium = true
	st.TrialStartedAt = s.now()
	st.mu.Unlock()

	s.persist(ctx, user, models.FieldIsPremium, true)
	return Decision{
		Allowed: true,
		Title:   "Trial Started!",
		Message: fmt.Sprintf("You have %d days of free Premium access. Enjoy unlimited searches!", TrialDays),
	}, nil
}

// RecordBooking prepends a receipt to the booking history
func (s *SessionService) RecordBooking(ctx context.Context, user models.SessionUser, receipt models.BookingReceipt) error {
	st, err := s.state(ctx, user)
	if err != nil {
		return err
	}
	st.mu.Lock()
	updated := append([]models.BookingReceipt{receipt}, st.BookingHistory...)
	st.BookingHistory = updated
	st.mu.Unlock()

	s.persist(ctx, user, models.FieldBookingHistory, updated)
	return nil
}

// RecordSubmission appends a spot submission
func (s *SessionService) RecordSubmission(ctx context.Context, user models.SessionUser, sub models.SpotSubmission) error {
	st, err := s.state(ctx, user)
	if err != nil {
		return err
	}
	st.mu.Lock()
	updated := append(append([]models.SpotSubmission{}, st.Submissions...), sub)
	st.Submissions = updated
	st.mu.Unlock()

	s.persist(ctx, user, models.FieldUserSubmissions, updated)
	return nil
}

// ActivatePremium marks live sessions for email as premium
func (s *SessionService) ActivatePremium(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	activated := 0
	for _, st := range s.states {
		st.mu.Lock()
		if !st.User.IsGuest() && equalFoldEmail(st.User.Email, email) {
			st.IsPremium = true
			activated++
		}
		st.mu.Unlock()
	}
	return activated
}

// ResetMonthlySearches rolls every live session into the current period
func (s *SessionService) ResetMonthlySearches() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset := 0
	for _, st := range s.states {
		st.mu.Lock()
		if s.rollPeriod(st) {
			reset++
		}
		st.mu.Unlock()
	}
	return reset
}

// persist writes through the bridge; failures are already logged there
func (s *SessionService) persist(ctx context.Context, user models.SessionUser, field models.DocumentField, value interface{}) {
	_ = s.bridge.SaveField(ctx, user, field, value)
}
