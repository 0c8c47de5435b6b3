package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCleaner struct {
	mock.Mock
}

func (m *mockCleaner) Purge(retention time.Duration) (int64, error) {
	args := m.Called(retention)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCleaner) CleanupExpiredAttempts() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func TestCronResetMonthlySearches(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	sessions := newTestSessions(store)
	bridge := NewPersistenceBridge(store, testLogger())

	march := time.Date(2025, 3, 31, 22, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	user := testAccount("driver@example.com")
	doc := models.NewUserDocument(user.ID, user.Name, user.Email, march)
	doc.MonthlySearches = 7
	require.NoError(t, store.CreateDocument(doc))

	sessions.now = fixedClock(march)
	guest := models.GuestUser(uuid.New())
	_, err := sessions.TrackSearch(ctx, guest)
	require.NoError(t, err)
	sessions.now = fixedClock(april)

	cleaner := new(mockCleaner)
	svc := NewCronService(bridge, sessions, cleaner, cleaner, time.Hour, testLogger())
	svc.now = fixedClock(april)

	stored, live, err := svc.ResetMonthlySearches()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored)
	assert.Equal(t, 1, live)

	got, err := store.GetDocument(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.MonthlySearches)
	assert.Equal(t, "2025-04", got.SearchPeriod)
}

func TestCronCleanupJobs(t *testing.T) {
	cleaner := new(mockCleaner)
	cleaner.On("Purge", revokedTokenRetention).Return(int64(4), nil)
	cleaner.On("CleanupExpiredAttempts").Return(int64(0), nil)

	store := newMemoryStore()
	svc := NewCronService(NewPersistenceBridge(store, testLogger()), newTestSessions(store), cleaner, cleaner, time.Hour, testLogger())

	svc.tokenCleanupJob()
	svc.attemptCleanupJob()

	cleaner.AssertExpectations(t)
}

func TestCronStartRegistersJobs(t *testing.T) {
	store := newMemoryStore()
	cleaner := new(mockCleaner)
	svc := NewCronService(NewPersistenceBridge(store, testLogger()), newTestSessions(store), cleaner, cleaner, time.Hour, testLogger())

	require.NoError(t, svc.Start())
	defer svc.Stop()

	status := svc.GetJobStatus()
	assert.Equal(t, 4, status["job_count"])
	assert.Equal(t, true, status["running"])
}

func TestCronSessionSweep(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	sessions := newTestSessions(store)

	start := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
	sessions.now = fixedClock(start)

	idle := models.GuestUser(uuid.New())
	_, err := sessions.Begin(ctx, idle)
	require.NoError(t, err)
	active := models.GuestUser(uuid.New())
	_, err = sessions.Begin(ctx, active)
	require.NoError(t, err)

	later := start.Add(90 * time.Minute)
	sessions.now = fixedClock(later)
	_, err = sessions.Snapshot(ctx, active)
	require.NoError(t, err)

	cleaner := new(mockCleaner)
	svc := NewCronService(NewPersistenceBridge(store, testLogger()), sessions, cleaner, cleaner, time.Hour, testLogger())
	svc.sessionSweepJob()

	assert.Equal(t, 1, sessions.ActiveSessions())

	// The evicted guest starts over with a fresh session
	snap, err := sessions.Snapshot(ctx, idle)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.MonthlySearches)
	assert.Equal(t, 2, sessions.ActiveSessions())
}
