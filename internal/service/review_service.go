package service

import (
	"fmt"

	"go.uber.org/zap"

	"optivolt/internal/db"
	apperrors "optivolt/internal/errors"
	"optivolt/internal/repository"
)

// ReviewService enforces the one-review-per-completed-booking rule. Guards
// run in order: ownership, completed status, no prior review; each failure is
// a distinct, caller-displayable error.
type ReviewService struct {
	bookings repository.BookingRepository
	reviews  repository.ReviewRepository
	log      *zap.Logger
}

func NewReviewService(bookings repository.BookingRepository, reviews repository.ReviewRepository, log *zap.Logger) *ReviewService {
	return &ReviewService{bookings: bookings, reviews: reviews, log: log}
}

func (s *ReviewService) SubmitReview(clientID, bookingID, rating int, comment string) (*db.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d: %w", rating, apperrors.ErrInvalidInput)
	}

	b, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if b.ClientID != clientID {
		return nil, fmt.Errorf("booking %d does not belong to you: %w", bookingID, apperrors.ErrForbidden)
	}
	if b.Status != db.StatusCompleted {
		return nil, fmt.Errorf("cannot review a booking in status %s, the service must be COMPLETED: %w",
			b.Status, apperrors.ErrInvalidState)
	}

	exists, err := s.reviews.Exists(bookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("booking %d: %w", bookingID, apperrors.ErrAlreadyReviewed)
	}

	rev := &db.Review{
		BookingID: bookingID,
		ClientID:  clientID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviews.Insert(rev); err != nil {
		return nil, err
	}
	s.log.Info("review submitted",
		zap.Int("booking_id", bookingID),
		zap.Int("client_id", clientID),
		zap.Int("rating", rating))
	return rev, nil
}
