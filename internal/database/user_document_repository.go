package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/models"
)

// UserDocumentRepository handles the per-user profile document
type UserDocumentRepository struct {
	db DB
}

// NewUserDocumentRepository creates a new user document repository
func NewUserDocumentRepository(db DB) *UserDocumentRepository {
	return &UserDocumentRepository{
		db: db,
	}
}

// CreateDocument writes the sign-up defaults. An existing document is left untouched.
func (r *UserDocumentRepository) CreateDocument(doc *models.UserDocument) error {
	query := `
		INSERT INTO user_documents (
			user_id, name, email, is_premium, monthly_searches, search_period,
			saved_spots, booking_history, user_submissions, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO NOTHING
	`

	_, err := r.db.Exec(
		query,
		doc.UserID,
		doc.Name,
		doc.Email,
		doc.IsPremium,
		doc.MonthlySearches,
		doc.SearchPeriod,
		doc.SavedSpots,
		doc.BookingHistory,
		doc.UserSubmissions,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user document: %w", err)
	}

	return nil
}

// GetDocument retrieves a user's document
func (r *UserDocumentRepository) GetDocument(userID uuid.UUID) (*models.UserDocument, error) {
	var doc models.UserDocument

	query := `
		SELECT user_id, name, email, is_premium, monthly_searches, search_period,
		       saved_spots, booking_history, user_submissions, created_at, updated_at
		FROM user_documents
		WHERE user_id = $1
	`

	err := r.db.Get(&doc, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Document not found
		}
		return nil, fmt.Errorf("failed to get user document: %w", err)
	}

	return &doc, nil
}

// fieldValue converts a field value into its column representation
func fieldValue(field models.DocumentField, value interface{}) (interface{}, error) {
	switch field {
	case models.FieldSavedSpots, models.FieldBookingHistory, models.FieldUserSubmissions:
		b, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", field, err)
		}
		if string(b) == "null" {
			return "[]", nil
		}
		return string(b), nil
	default:
		return value, nil
	}
}

// UpdateField overwrites a single field of an existing document.
// Returns the number of rows touched; zero means the document does not exist.
func (r *UserDocumentRepository) UpdateField(userID uuid.UUID, field models.DocumentField, value interface{}) (int64, error) {
	if !field.IsValid() {
		return 0, fmt.Errorf("unknown document field: %s", field)
	}

	v, err := fieldValue(field, value)
	if err != nil {
		return 0, err
	}

	// field is whitelisted above
	query := fmt.Sprintf(`
		UPDATE user_documents
		SET %s = $1, updated_at = $2
		WHERE user_id = $3
	`, field)

	result, err := r.db.Exec(query, v, time.Now(), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to update user document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// UpsertField writes a single field, creating the document with defaults if missing
func (r *UserDocumentRepository) UpsertField(userID uuid.UUID, field models.DocumentField, value interface{}) error {
	if !field.IsValid() {
		return fmt.Errorf("unknown document field: %s", field)
	}

	v, err := fieldValue(field, value)
	if err != nil {
		return err
	}

	now := time.Now()
	columns := []string{"user_id", "search_period"}
	args := []interface{}{userID, models.SearchPeriodOf(now)}
	if field == models.FieldSearchPeriod {
		args[1] = v
	} else {
		columns = append(columns, string(field))
		args = append(args, v)
	}
	args = append(args, now)

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	ts := len(args)

	query := fmt.Sprintf(`
		INSERT INTO user_documents (%[2]s, created_at, updated_at)
		VALUES (%[3]s, $%[4]d, $%[4]d)
		ON CONFLICT (user_id) DO UPDATE
		SET %[1]s = EXCLUDED.%[1]s, updated_at = EXCLUDED.updated_at
	`, field, strings.Join(columns, ", "), strings.Join(placeholders, ", "), ts)

	_, err = r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert user document: %w", err)
	}

	return nil
}

// ResetMonthlySearches zeroes every counter not already in the given period
func (r *UserDocumentRepository) ResetMonthlySearches(period string) (int64, error) {
	query := `
		UPDATE user_documents
		SET monthly_searches = 0, search_period = $1, updated_at = $2
		WHERE search_period <> $1
	`

	result, err := r.db.Exec(query, period, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to reset monthly searches: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// SetPremiumByEmail marks the document owned by email as premium
func (r *UserDocumentRepository) SetPremiumByEmail(email string, premium bool) (int64, error) {
	query := `
		UPDATE user_documents
		SET is_premium = $1, updated_at = $2
		WHERE LOWER(email) = LOWER($3)
	`

	result, err := r.db.Exec(query, premium, time.Now(), email)
	if err != nil {
		return 0, fmt.Errorf("failed to set premium status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
