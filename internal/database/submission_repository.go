package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/parkeasy/parkeasy-backend/internal/models"
)

// SubmissionRepository handles community spot submissions
type SubmissionRepository struct {
	db DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db DB) *SubmissionRepository {
	return &SubmissionRepository{
		db: db,
	}
}

// CreateSubmission stores a submission and fills in its ID
func (r *SubmissionRepository) CreateSubmission(sub *models.SpotSubmission) error {
	query := `
		INSERT INTO spot_submissions (
			user_id, name, address, near_destination, type, free, hourly_rate,
			ev_charging, accessible, covered, description, status,
			submitted_date, points_earned
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		sub.UserID,
		sub.Name,
		sub.Address,
		sub.NearDestination,
		sub.Type,
		sub.Free,
		sub.HourlyRate,
		sub.EVCharging,
		sub.Accessible,
		sub.Covered,
		sub.Description,
		sub.Status,
		sub.SubmittedDate,
		sub.PointsEarned,
	).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// ListByUser returns a user's submissions, newest first
func (r *SubmissionRepository) ListByUser(userID uuid.UUID) ([]models.SpotSubmission, error) {
	var subs []models.SpotSubmission

	query := `
		SELECT id, user_id, name, address, near_destination, type, free, hourly_rate,
		       ev_charging, accessible, covered, description, status,
		       submitted_date, points_earned
		FROM spot_submissions
		WHERE user_id = $1
		ORDER BY submitted_date DESC
	`

	err := r.db.Select(&subs, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return subs, nil
}

// ListByStatus returns submissions in any of the given statuses
func (r *SubmissionRepository) ListByStatus(statuses []string, limit int) ([]models.SpotSubmission, error) {
	var subs []models.SpotSubmission

	query := `
		SELECT id, user_id, name, address, near_destination, type, free, hourly_rate,
		       ev_charging, accessible, covered, description, status,
		       submitted_date, points_earned
		FROM spot_submissions
		WHERE status = ANY($1)
		ORDER BY submitted_date ASC
		LIMIT $2
	`

	err := r.db.Select(&subs, query, pq.Array(statuses), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions by status: %w", err)
	}

	return subs, nil
}

// SumPoints returns the total points a user has earned from submissions
func (r *SubmissionRepository) SumPoints(userID uuid.UUID) (int, error) {
	var total int

	query := `
		SELECT COALESCE(SUM(points_earned), 0)
		FROM spot_submissions
		WHERE user_id = $1
	`

	err := r.db.QueryRow(query, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum submission points: %w", err)
	}

	return total, nil
}

// UpdateStatus moves a submission to a new review status
func (r *SubmissionRepository) UpdateStatus(id int64, status string) error {
	query := `
		UPDATE spot_submissions
		SET status = $1, reviewed_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("submission not found")
	}

	return nil
}
