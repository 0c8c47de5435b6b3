package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/notify"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTimerHours is used when a request gives no duration
	DefaultTimerHours = 2
	// WarningThresholdSeconds is when the expiry reminder fires
	WarningThresholdSeconds = 900
)

// ErrInvalidDuration is returned for a timer shorter than one hour
var ErrInvalidDuration = errors.New("timer duration must be positive")

type parkingTimer struct {
	user      models.SessionUser
	spotName  string
	startedAt time.Time
	endsAt    time.Time
	remaining int
	warned    bool
	stop      chan struct{}
}

func (t *parkingTimer) state() models.TimerState {
	return models.TimerState{
		SpotName:         t.spotName,
		StartedAt:        t.startedAt.UnixMilli(),
		EndsAt:           t.endsAt.UnixMilli(),
		RemainingSeconds: t.remaining,
		Display:          FormatTimer(t.remaining),
	}
}

// TimerService runs one countdown per user and emits reminder events
type TimerService struct {
	mu       sync.Mutex
	timers   map[uuid.UUID]*parkingTimer
	notifier notify.Notifier
	interval time.Duration
	now      func() time.Time
	logger   *logrus.Logger
}

// NewTimerService creates a timer service ticking once per second
func NewTimerService(notifier notify.Notifier, logger *logrus.Logger) *TimerService {
	return &TimerService{
		timers:   make(map[uuid.UUID]*parkingTimer),
		notifier: notifier,
		interval: time.Second,
		now:      time.Now,
		logger:   logger,
	}
}

// Start begins a countdown, replacing any running timer for the user
func (s *TimerService) Start(user models.SessionUser, spotName string, hours int) (models.TimerState, error) {
	if hours <= 0 {
		return models.TimerState{}, ErrInvalidDuration
	}

	start := s.now()
	t := &parkingTimer{
		user:      user,
		spotName:  spotName,
		startedAt: start,
		endsAt:    start.Add(time.Duration(hours) * time.Hour),
		remaining: hours * 3600,
		stop:      make(chan struct{}),
	}

	s.mu.Lock()
	if old, ok := s.timers[user.ID]; ok {
		close(old.stop)
	}
	s.timers[user.ID] = t
	state := t.state()
	s.mu.Unlock()

	go s.run(t)

	s.emit(notify.Event{
		Type:    notify.EventTimerStarted,
		UserID:  user.ID,
		Title:   "Timer Started",
		Message: fmt.Sprintf("%dhr timer set for %s. We'll remind you 15 min before!", hours, spotName),
		Data:    state,
	})
	return state, nil
}

// Stop cancels the user's timer. Returns false when none was running.
func (s *TimerService) Stop(userID uuid.UUID) bool {
	s.mu.Lock()
	t, ok := s.timers[userID]
	if ok {
		close(t.stop)
		delete(s.timers, userID)
	}
	s.mu.Unlock()

	if ok {
		s.emit(notify.Event{
			Type:    notify.EventTimerStopped,
			UserID:  userID,
			Title:   "Timer Stopped",
			Message: fmt.Sprintf("Timer for %s stopped", t.spotName),
		})
	}
	return ok
}

// Status returns the user's running timer
func (s *TimerService) Status(userID uuid.UUID) (models.TimerState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[userID]
	if !ok {
		return models.TimerState{}, false
	}
	return t.state(), true
}

// StopAll cancels every timer without emitting events
func (s *TimerService) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		close(t.stop)
		delete(s.timers, id)
	}
	s.logger.Info("All parking timers stopped")
}

func (s *TimerService) run(t *parkingTimer) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if done := s.advance(t, s.now()); done {
				return
			}
		}
	}
}

// advance recomputes the remaining time and fires due events.
// Returns true once the timer is finished or replaced.
func (s *TimerService) advance(t *parkingTimer, now time.Time) bool {
	s.mu.Lock()
	if s.timers[t.user.ID] != t {
		s.mu.Unlock()
		return true
	}

	remaining := int(t.endsAt.Sub(now) / time.Second)
	if remaining < 0 {
		remaining = 0
	}
	prev := t.remaining
	t.remaining = remaining

	var events []notify.Event
	if !t.warned && prev > WarningThresholdSeconds && remaining <= WarningThresholdSeconds && remaining > 0 {
		t.warned = true
		events = append(events, notify.Event{
			Type:    notify.EventTimerWarning,
			UserID:  t.user.ID,
			Title:   "15 Minutes Left!",
			Message: fmt.Sprintf("Your parking at %s expires in 15 minutes!", t.spotName),
			Data:    t.state(),
		})
	}

	finished := remaining == 0
	if finished {
		delete(s.timers, t.user.ID)
		events = append(events, notify.Event{
			Type:    notify.EventTimerExpired,
			UserID:  t.user.ID,
			Title:   "Time's Up!",
			Message: fmt.Sprintf("Your parking at %s has expired. Move your car to avoid a fine!", t.spotName),
			Data:    t.state(),
		})
	}
	s.mu.Unlock()

	for _, ev := range events {
		s.emit(ev)
	}
	return finished
}

func (s *TimerService) emit(event notify.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.notifier.Notify(context.Background(), event); err != nil {
		s.logger.WithFields(logrus.Fields{
			"type":    event.Type,
			"user_id": event.UserID,
			"error":   err.Error(),
		}).Warn("Failed to deliver timer event")
	}
}

// FormatTimer renders seconds as h:mm:ss
func FormatTimer(seconds int) string {
	if seconds <= 0 {
		return "0:00:00"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	sec := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
}
