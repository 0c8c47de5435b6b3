package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/parkeasy/parkeasy-backend/internal/database"
)

// RateLimitService limits failed sign-in attempts
type RateLimitService struct {
	db     database.DB
	config RateLimitConfig
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxEmailAttempts int           // Max failed logins per email
	EmailWindow      time.Duration // Time window for the email limit
	MaxIPAttempts    int           // Max failed logins per IP
	IPWindow         time.Duration // Time window for the IP limit
}

// DefaultRateLimitConfig returns the default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxEmailAttempts: 5,
		EmailWindow:      15 * time.Minute,
		MaxIPAttempts:    20,
		IPWindow:         1 * time.Hour,
	}
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(db database.DB, config RateLimitConfig) *RateLimitService {
	return &RateLimitService{
		db:     db,
		config: config,
	}
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
	Type       string // "email" or "ip"
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// CheckLoginRateLimit returns a *RateLimitError when the email or IP is locked out
func (s *RateLimitService) CheckLoginRateLimit(email, ip string) error {
	if email != "" {
		count, lastAttempt, err := s.getAttemptCount(email, "email", s.config.EmailWindow)
		if err != nil {
			return fmt.Errorf("failed to check email rate limit: %w", err)
		}

		if count >= s.config.MaxEmailAttempts {
			retryAfter := lastAttempt.Add(s.config.EmailWindow)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many sign-in attempts for this email. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       "email",
			}
		}
	}

	if ip != "" {
		count, lastAttempt, err := s.getAttemptCount(ip, "ip", s.config.IPWindow)
		if err != nil {
			return fmt.Errorf("failed to check IP rate limit: %w", err)
		}

		if count >= s.config.MaxIPAttempts {
			retryAfter := lastAttempt.Add(s.config.IPWindow)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many sign-in attempts from this IP address. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       "ip",
			}
		}
	}

	return nil
}

// getAttemptCount gets the number of failed attempts within the time window
func (s *RateLimitService) getAttemptCount(identifier, identifierType string, window time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Add(-window)

	query := `
		SELECT COUNT(*), COALESCE(MAX(created_at), NOW())
		FROM login_attempts
		WHERE identifier = $1
		  AND identifier_type = $2
		  AND created_at > $3
	`

	var count int
	var lastAttempt time.Time

	err := s.db.QueryRow(query, identifier, identifierType, windowStart).Scan(&count, &lastAttempt)
	if err != nil && err != sql.ErrNoRows {
		return 0, time.Time{}, err
	}

	return count, lastAttempt, nil
}

// RecordFailedLogin records a failed attempt for the email and IP
func (s *RateLimitService) RecordFailedLogin(email, ip string) error {
	if email != "" {
		if err := s.recordAttempt(email, "email"); err != nil {
			return fmt.Errorf("failed to record email attempt: %w", err)
		}
	}

	if ip != "" {
		if err := s.recordAttempt(ip, "ip"); err != nil {
			return fmt.Errorf("failed to record IP attempt: %w", err)
		}
	}

	return nil
}

func (s *RateLimitService) recordAttempt(identifier, identifierType string) error {
	query := `
		INSERT INTO login_attempts (identifier, identifier_type, created_at)
		VALUES ($1, $2, NOW())
	`

	_, err := s.db.Exec(query, identifier, identifierType)
	return err
}

// ClearEmailAttempts forgets failed attempts after a successful login
func (s *RateLimitService) ClearEmailAttempts(email string) error {
	query := `
		DELETE FROM login_attempts
		WHERE identifier = $1 AND identifier_type = 'email'
	`

	if _, err := s.db.Exec(query, email); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

// CleanupExpiredAttempts removes records older than the longest window
func (s *RateLimitService) CleanupExpiredAttempts() (int64, error) {
	maxWindow := s.config.IPWindow
	if s.config.EmailWindow > maxWindow {
		maxWindow = s.config.EmailWindow
	}

	query := `
		DELETE FROM login_attempts
		WHERE created_at < $1
	`

	result, err := s.db.Exec(query, time.Now().Add(-maxWindow))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup login attempts: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
