package database

import (
	"fmt"

	"github.com/parkeasy/parkeasy-backend/internal/models"
)

// ReviewRepository handles spot reviews
type ReviewRepository struct {
	db DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db DB) *ReviewRepository {
	return &ReviewRepository{
		db: db,
	}
}

// CreateReview stores a review
func (r *ReviewRepository) CreateReview(review *models.Review) error {
	query := `
		INSERT INTO spot_reviews (id, user_id, spot_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		query,
		review.ID,
		review.UserID,
		review.SpotID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// ListBySpot returns the reviews for a spot, newest first
func (r *ReviewRepository) ListBySpot(spotID string, limit int) ([]models.Review, error) {
	var reviews []models.Review

	query := `
		SELECT id, user_id, spot_id, rating, comment, created_at
		FROM spot_reviews
		WHERE spot_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	err := r.db.Select(&reviews, query, spotID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}

// AverageRating returns the mean rating and review count for a spot
func (r *ReviewRepository) AverageRating(spotID string) (float64, int, error) {
	var avg float64
	var count int

	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM spot_reviews
		WHERE spot_id = $1
	`

	err := r.db.QueryRow(query, spotID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get average rating: %w", err)
	}

	return avg, count, nil
}
