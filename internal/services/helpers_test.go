package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/notify"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// memoryStore is an in-memory DocumentStore
type memoryStore struct {
	mu      sync.Mutex
	docs    map[uuid.UUID]*models.UserDocument
	fields  map[uuid.UUID]map[models.DocumentField]interface{}
	writes  int
	updates int
	upserts int
	err     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		docs:   make(map[uuid.UUID]*models.UserDocument),
		fields: make(map[uuid.UUID]map[models.DocumentField]interface{}),
	}
}

func (m *memoryStore) CreateDocument(doc *models.UserDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.writes++
	if _, ok := m.docs[doc.UserID]; ok {
		return nil
	}
	m.docs[doc.UserID] = doc
	m.fields[doc.UserID] = make(map[models.DocumentField]interface{})
	return nil
}

func (m *memoryStore) GetDocument(userID uuid.UUID) (*models.UserDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.docs[userID], nil
}

func (m *memoryStore) UpdateField(userID uuid.UUID, field models.DocumentField, value interface{}) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.updates++
	f, ok := m.fields[userID]
	if !ok {
		return 0, nil
	}
	m.writes++
	f[field] = value
	return 1, nil
}

func (m *memoryStore) UpsertField(userID uuid.UUID, field models.DocumentField, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.upserts++
	m.writes++
	if _, ok := m.fields[userID]; !ok {
		m.fields[userID] = make(map[models.DocumentField]interface{})
	}
	m.fields[userID][field] = value
	return nil
}

func (m *memoryStore) ResetMonthlySearches(period string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, doc := range m.docs {
		if doc.SearchPeriod != period {
			doc.SearchPeriod = period
			doc.MonthlySearches = 0
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) SetPremiumByEmail(email string, premium bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, doc := range m.docs {
		if equalFoldEmail(doc.Email, email) {
			doc.IsPremium = premium
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) field(userID uuid.UUID, field models.DocumentField) interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fields[userID][field]
}

func (m *memoryStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// staticLoader serves fixed catalogs per city
type staticLoader struct {
	catalogs map[string][]models.ParkingSpot
}

func (l *staticLoader) Load(ctx context.Context, cityID string) []models.ParkingSpot {
	return append([]models.ParkingSpot{}, l.catalogs[cityID]...)
}

// eventRecorder collects delivered events
type eventRecorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *eventRecorder) Notify(ctx context.Context, event notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *eventRecorder) last() notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return notify.Event{}
	}
	return r.events[len(r.events)-1]
}

func testSpot(id string, rate float64) models.ParkingSpot {
	return models.ParkingSpot{
		ID:      id,
		Name:    "Spot " + id,
		Address: id + " Street",
		Type:    models.SpotTypeSurfaceLot,
		Pricing: models.Pricing{Free: rate == 0, HourlyRate: rate},
	}
}

func testAccount(email string) models.SessionUser {
	return models.SessionUser{ID: uuid.New(), Name: "Driver", Email: email}
}

func newTestSessions(store *memoryStore) *SessionService {
	loader := &staticLoader{catalogs: map[string][]models.ParkingSpot{
		"Belfast": {testSpot("b1", 1), testSpot("b2", 0), testSpot("b3", 2), testSpot("b4", 3)},
		"Dresden": {testSpot("d1", 2.5)},
	}}
	return NewSessionService(NewPersistenceBridge(store, testLogger()), loader, testLogger())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
