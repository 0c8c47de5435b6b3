package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/models"
)

// ErrEmailTaken is returned when an account already uses the email
var ErrEmailTaken = errors.New("email already in use")

// AccountRepository handles account database operations
type AccountRepository struct {
	db DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

// CreateAccount creates a new email/password account
func (r *AccountRepository) CreateAccount(email, passwordHash, displayName string) (*models.Account, error) {
	now := time.Now()
	account := &models.Account{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `
		INSERT INTO accounts (
			id, email, password_hash, display_name,
			disabled, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		account.Disabled,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	var account models.Account

	query := `
		SELECT id, email, password_hash, display_name, disabled,
		       last_login_at, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`

	err := r.db.Get(&account, query, strings.ToLower(email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Account not found
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return &account, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(id uuid.UUID) (*models.Account, error) {
	var account models.Account

	query := `
		SELECT id, email, password_hash, display_name, disabled,
		       last_login_at, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	err := r.db.Get(&account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}

	return &account, nil
}

// UpdateLastLogin stamps the account's last successful login
func (r *AccountRepository) UpdateLastLogin(id uuid.UUID) error {
	query := `
		UPDATE accounts
		SET last_login_at = $1, updated_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// SetDisabled enables or disables an account
func (r *AccountRepository) SetDisabled(id uuid.UUID, disabled bool) error {
	query := `
		UPDATE accounts
		SET disabled = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, disabled, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("account not found")
	}

	return nil
}
