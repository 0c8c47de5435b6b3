package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/models"
)

var (
	// ErrRefreshTokenSpent is returned when a refresh token is unknown, expired or already rotated
	ErrRefreshTokenSpent = errors.New("refresh token is no longer valid")

	// ErrGuestRefreshToken is returned when a refresh token is issued to the guest sentinel
	ErrGuestRefreshToken = errors.New("guests do not hold refresh tokens")
)

// RefreshTokenRepository stores the refresh tokens of signed-in accounts.
// Only a SHA-256 hash of each token is kept.
type RefreshTokenRepository struct {
	db  DB
	now func() time.Time
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{
		db:  db,
		now: time.Now,
	}
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Issue records a new refresh token for an account
func (r *RefreshTokenRepository) Issue(accountID uuid.UUID, token string, device models.TokenDevice, expiresAt time.Time) error {
	if accountID == models.GuestUserID {
		return ErrGuestRefreshToken
	}

	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, device_type, ip_address, user_agent, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(query, accountID, hashToken(token),
		nullable(device.Type), nullable(device.IP), nullable(device.UserAgent), expiresAt)
	if err != nil {
		return fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return nil
}

// Rotate spends current and stores next for the same account in one statement,
// so a refresh token can be exchanged at most once. Returns the owning account.
func (r *RefreshTokenRepository) Rotate(current, next string, device models.TokenDevice, expiresAt time.Time) (uuid.UUID, error) {
	query := `
		WITH spent AS (
			UPDATE refresh_tokens
			SET revoked = TRUE, revoked_at = $1, last_used_at = $1
			WHERE token_hash = $2 AND revoked = FALSE AND expires_at > $1
			RETURNING user_id
		)
		INSERT INTO refresh_tokens (user_id, token_hash, device_type, ip_address, user_agent, expires_at)
		SELECT user_id, $3, $4, $5, $6, $7 FROM spent
		RETURNING user_id
	`

	var accountID uuid.UUID
	err := r.db.QueryRow(query, r.now(), hashToken(current), hashToken(next),
		nullable(device.Type), nullable(device.IP), nullable(device.UserAgent), expiresAt).Scan(&accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, ErrRefreshTokenSpent
		}
		return uuid.Nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return accountID, nil
}

// Revoke spends a single token, as on sign-out from one device
func (r *RefreshTokenRepository) Revoke(token string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, revoked_at = $1
		WHERE token_hash = $2 AND revoked = FALSE
	`

	result, err := r.db.Exec(query, r.now(), hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRefreshTokenSpent
	}

	return nil
}

// RevokeAccount signs an account out of every device and returns how many tokens were live
func (r *RefreshTokenRepository) RevokeAccount(accountID uuid.UUID) (int64, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, revoked_at = $1
		WHERE user_id = $2 AND revoked = FALSE
	`

	result, err := r.db.Exec(query, r.now(), accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke account tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// ActiveDevices lists the unexpired, unrevoked tokens of an account, newest first
func (r *RefreshTokenRepository) ActiveDevices(accountID uuid.UUID) ([]models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, device_type, ip_address, user_agent,
		       created_at, expires_at, last_used_at, revoked, revoked_at
		FROM refresh_tokens
		WHERE user_id = $1 AND revoked = FALSE AND expires_at > $2
		ORDER BY created_at DESC
	`

	var tokens []models.RefreshToken
	if err := r.db.Select(&tokens, query, accountID, r.now()); err != nil {
		return nil, fmt.Errorf("failed to list active devices: %w", err)
	}

	return tokens, nil
}

// Purge deletes expired tokens and tokens revoked more than retention ago
func (r *RefreshTokenRepository) Purge(retention time.Duration) (int64, error) {
	now := r.now()
	query := `
		DELETE FROM refresh_tokens
		WHERE expires_at < $1 OR (revoked = TRUE AND revoked_at < $2)
	`

	result, err := r.db.Exec(query, now, now.Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
