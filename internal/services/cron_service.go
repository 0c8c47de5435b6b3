package services

import (
	"fmt"
	"time"

	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Cron schedules, with seconds precision
const (
	MonthlyResetSchedule   = "0 0 0 1 * *"
	TokenCleanupSchedule   = "0 0 3 * * *"
	AttemptCleanupSchedule = "0 0 * * * *"
	SessionSweepSchedule   = "0 */10 * * * *"
	revokedTokenRetention  = 30 * 24 * time.Hour
)

// TokenCleaner removes stale refresh tokens
type TokenCleaner interface {
	Purge(retention time.Duration) (int64, error)
}

// AttemptCleaner removes expired login attempts
type AttemptCleaner interface {
	CleanupExpiredAttempts() (int64, error)
}

// CronService manages scheduled background jobs
type CronService struct {
	cron        *cron.Cron
	bridge      *PersistenceBridge
	sessions    *SessionService
	tokens      TokenCleaner
	attempts    AttemptCleaner
	sessionIdle time.Duration
	now         func() time.Time
	logger      *logrus.Logger
}

// NewCronService creates a new CronService. Schedules run in UTC to match search periods.
func NewCronService(bridge *PersistenceBridge, sessions *SessionService, tokens TokenCleaner, attempts AttemptCleaner, sessionIdle time.Duration, logger *logrus.Logger) *CronService {
	c := cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC))

	return &CronService{
		cron:        c,
		bridge:      bridge,
		sessions:    sessions,
		tokens:      tokens,
		attempts:    attempts,
		sessionIdle: sessionIdle,
		now:         time.Now,
		logger:      logger,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service...")

	jobs := []struct {
		schedule string
		name     string
		run      func()
	}{
		{MonthlyResetSchedule, "Reset monthly searches (1st of the month)", s.monthlyResetJob},
		{TokenCleanupSchedule, "Cleanup refresh tokens (daily at 3:00 AM)", s.tokenCleanupJob},
		{AttemptCleanupSchedule, "Cleanup login attempts (hourly)", s.attemptCleanupJob},
		{SessionSweepSchedule, "Evict idle sessions (every 10 minutes)", s.sessionSweepJob},
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.schedule, job.run); err != nil {
			return fmt.Errorf("failed to schedule %q: %w", job.name, err)
		}
		s.logger.WithField("schedule", job.schedule).Info("Scheduled: " + job.name)
	}

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops all cron jobs and waits for running ones
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// ResetMonthlySearches zeroes stored and live counters from earlier months
func (s *CronService) ResetMonthlySearches() (stored int64, live int, err error) {
	period := models.SearchPeriodOf(s.now())
	stored, err = s.bridge.ResetMonthlySearches(period)
	if err != nil {
		return 0, 0, err
	}
	if s.sessions != nil {
		live = s.sessions.ResetMonthlySearches()
	}
	return stored, live, nil
}

func (s *CronService) monthlyResetJob() {
	start := time.Now()

	stored, live, err := s.ResetMonthlySearches()
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("[CRON] Failed to reset monthly searches")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"documents": stored,
		"sessions":  live,
		"duration":  time.Since(start).String(),
	}).Info("[CRON] Monthly searches reset")
}

func (s *CronService) tokenCleanupJob() {
	purged, err := s.tokens.Purge(revokedTokenRetention)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("[CRON] Failed to purge refresh tokens")
		return
	}

	s.logger.WithField("purged", purged).Info("[CRON] Refresh tokens cleaned up")
}

func (s *CronService) attemptCleanupJob() {
	n, err := s.attempts.CleanupExpiredAttempts()
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("[CRON] Failed to cleanup login attempts")
		return
	}
	if n > 0 {
		s.logger.WithField("deleted", n).Debug("[CRON] Login attempts cleaned up")
	}
}

func (s *CronService) sessionSweepJob() {
	if s.sessions == nil || s.sessionIdle <= 0 {
		return
	}
	evicted := s.sessions.EvictIdle(s.sessionIdle)
	if evicted > 0 {
		s.logger.WithFields(logrus.Fields{
			"evicted": evicted,
			"active":  s.sessions.ActiveSessions(),
		}).Info("[CRON] Idle sessions evicted")
	}
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
