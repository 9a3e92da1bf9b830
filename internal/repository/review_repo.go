package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"optivolt/internal/db"
	apperrors "optivolt/internal/errors"
)

type ReviewRepository interface {
	Exists(bookingID int) (bool, error)
	Insert(rev *db.Review) error
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(database *sql.DB) ReviewRepository {
	return &reviewRepository{db: database}
}

func (r *reviewRepository) Exists(bookingID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE booking_id = $1)`, bookingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return exists, nil
}

// Insert persists the review. The unique index on booking_id is the backstop
// for two concurrent first reviews: the loser gets ErrAlreadyReviewed.
func (r *reviewRepository) Insert(rev *db.Review) error {
	query := `
		INSERT INTO reviews (booking_id, client_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, rev.BookingID, rev.ClientID, rev.Rating, rev.Comment).
		Scan(&rev.ID, &rev.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("booking %d: %w", rev.BookingID, apperrors.ErrAlreadyReviewed)
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}
