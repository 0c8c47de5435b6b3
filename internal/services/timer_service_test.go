package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimers(start time.Time) (*TimerService, *eventRecorder) {
	rec := &eventRecorder{}
	svc := NewTimerService(rec, testLogger())
	svc.interval = time.Hour
	svc.now = fixedClock(start)
	return svc, rec
}

func (s *TimerService) timerFor(userID uuid.UUID) *parkingTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers[userID]
}

func TestTimerStart(t *testing.T) {
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	svc, rec := newTestTimers(start)
	defer svc.StopAll()
	user := models.GuestUser(uuid.New())

	state, err := svc.Start(user, "Victoria Square", DefaultTimerHours)
	require.NoError(t, err)
	assert.Equal(t, 7200, state.RemainingSeconds)
	assert.Equal(t, "2:00:00", state.Display)
	assert.Equal(t, start.Add(2*time.Hour).UnixMilli(), state.EndsAt)

	ev := rec.last()
	assert.Equal(t, notify.EventTimerStarted, ev.Type)
	assert.Equal(t, "Timer Started", ev.Title)
	assert.Equal(t, "2hr timer set for Victoria Square. We'll remind you 15 min before!", ev.Message)

	_, err = svc.Start(user, "Victoria Square", -1)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	_, err = svc.Start(user, "Victoria Square", 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestTimerWarningFiresOnceOnCrossing(t *testing.T) {
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	svc, rec := newTestTimers(start)
	defer svc.StopAll()
	user := models.GuestUser(uuid.New())

	_, err := svc.Start(user, "Castle Court", 1)
	require.NoError(t, err)
	timer := svc.timerFor(user.ID)
	require.NotNil(t, timer)

	assert.False(t, svc.advance(timer, start.Add(2699*time.Second)))
	assert.Equal(t, []string{notify.EventTimerStarted}, rec.types())

	assert.False(t, svc.advance(timer, start.Add(2700*time.Second)))
	assert.False(t, svc.advance(timer, start.Add(2701*time.Second)))
	assert.False(t, svc.advance(timer, start.Add(3000*time.Second)))
	assert.Equal(t, []string{notify.EventTimerStarted, notify.EventTimerWarning}, rec.types())

	state, ok := svc.Status(user.ID)
	require.True(t, ok)
	assert.Equal(t, 600, state.RemainingSeconds)
	assert.Equal(t, "0:10:00", state.Display)
}

func TestTimerWarningWhenThresholdTickSkipped(t *testing.T) {
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	svc, rec := newTestTimers(start)
	defer svc.StopAll()
	user := models.GuestUser(uuid.New())

	_, err := svc.Start(user, "Castle Court", 1)
	require.NoError(t, err)
	timer := svc.timerFor(user.ID)

	assert.False(t, svc.advance(timer, start.Add(time.Second)))
	assert.False(t, svc.advance(timer, start.Add(3300*time.Second)))

	ev := rec.last()
	assert.Equal(t, notify.EventTimerWarning, ev.Type)
	assert.Equal(t, "15 Minutes Left!", ev.Title)
	assert.Equal(t, "Your parking at Castle Court expires in 15 minutes!", ev.Message)
}

func TestTimerExpiry(t *testing.T) {
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	svc, rec := newTestTimers(start)
	defer svc.StopAll()
	user := models.GuestUser(uuid.New())

	_, err := svc.Start(user, "Castle Court", 1)
	require.NoError(t, err)
	timer := svc.timerFor(user.ID)

	assert.True(t, svc.advance(timer, start.Add(2*time.Hour)))

	// Jumping straight to zero skips the warning.
	assert.Equal(t, []string{notify.EventTimerStarted, notify.EventTimerExpired}, rec.types())
	ev := rec.last()
	assert.Equal(t, "Time's Up!", ev.Title)
	assert.Equal(t, "Your parking at Castle Court has expired. Move your car to avoid a fine!", ev.Message)

	_, ok := svc.Status(user.ID)
	assert.False(t, ok)
}

func TestTimerReplaceAndStop(t *testing.T) {
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	svc, rec := newTestTimers(start)
	defer svc.StopAll()
	user := models.GuestUser(uuid.New())

	_, err := svc.Start(user, "First", 1)
	require.NoError(t, err)
	first := svc.timerFor(user.ID)

	_, err = svc.Start(user, "Second", 3)
	require.NoError(t, err)

	assert.True(t, svc.advance(first, start.Add(time.Minute)), "replaced timer stops ticking")

	state, ok := svc.Status(user.ID)
	require.True(t, ok)
	assert.Equal(t, "Second", state.SpotName)

	assert.True(t, svc.Stop(user.ID))
	assert.False(t, svc.Stop(user.ID))
	assert.Equal(t, notify.EventTimerStopped, rec.last().Type)
}

func TestTimerRunsOnTicker(t *testing.T) {
	rec := &eventRecorder{}
	svc := NewTimerService(rec, testLogger())
	svc.interval = 5 * time.Millisecond
	start := time.Now()
	var calls atomic.Int32
	svc.now = func() time.Time {
		if calls.Add(1) == 1 {
			return start
		}
		return start.Add(2 * time.Hour)
	}
	user := models.GuestUser(uuid.New())

	_, err := svc.Start(user, "Castle Court", 1)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, ok := svc.Status(user.ID)
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, rec.types(), notify.EventTimerExpired)
}

func TestFormatTimer(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{7200, "2:00:00"},
		{3599, "0:59:59"},
		{900, "0:15:00"},
		{61, "0:01:01"},
		{0, "0:00:00"},
		{-5, "0:00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatTimer(tt.seconds))
	}
}
