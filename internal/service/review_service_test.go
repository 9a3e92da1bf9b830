package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"optivolt/internal/db"
	apperrors "optivolt/internal/errors"
)

func newReviewFixture(t *testing.T) (*ReviewService, *fakeBookingRepo) {
	t.Helper()
	bookings := newFakeBookingRepo()
	reviews := newFakeReviewRepo()
	return NewReviewService(bookings, reviews, zap.NewNop()), bookings
}

func TestSubmitReviewThenDuplicateRejected(t *testing.T) {
	svc, bookings := newReviewFixture(t)
	b := bookings.put(&db.Booking{ClientID: 10, ProviderID: 1, Status: db.StatusCompleted})

	rev, err := svc.SubmitReview(10, b.ID, 5, "spotless work")
	require.NoError(t, err)
	assert.NotZero(t, rev.ID)
	assert.Equal(t, 5, rev.Rating)

	_, err = svc.SubmitReview(10, b.ID, 3, "changed my mind")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyReviewed)
}

func TestSubmitReviewForeignBookingForbidden(t *testing.T) {
	svc, bookings := newReviewFixture(t)
	b := bookings.put(&db.Booking{ClientID: 10, ProviderID: 1, Status: db.StatusCompleted})

	_, err := svc.SubmitReview(11, b.ID, 4, "nice")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSubmitReviewUnknownBooking(t *testing.T) {
	svc, _ := newReviewFixture(t)

	_, err := svc.SubmitReview(10, 999, 4, "nice")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubmitReviewBeforeCompletionNamesStatus(t *testing.T) {
	svc, bookings := newReviewFixture(t)
	for _, status := range []string{
		db.StatusRequested, db.StatusPaid, db.StatusConfirmed,
		db.StatusRejected, db.StatusCancelledByClient,
	} {
		b := bookings.put(&db.Booking{ClientID: 10, ProviderID: 1, Status: status})

		_, err := svc.SubmitReview(10, b.ID, 4, "too soon")
		require.ErrorIs(t, err, apperrors.ErrInvalidState, "status %s", status)
		assert.Contains(t, err.Error(), status)
	}
}

func TestSubmitReviewOwnershipCheckedBeforeStatus(t *testing.T) {
	svc, bookings := newReviewFixture(t)
	b := bookings.put(&db.Booking{ClientID: 10, ProviderID: 1, Status: db.StatusRequested})

	// A stranger gets Forbidden even though the status guard would also fail.
	_, err := svc.SubmitReview(11, b.ID, 4, "nope")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSubmitReviewRatingBounds(t *testing.T) {
	svc, bookings := newReviewFixture(t)
	b := bookings.put(&db.Booking{ClientID: 10, ProviderID: 1, Status: db.StatusCompleted})

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.SubmitReview(10, b.ID, rating, "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "rating %d", rating)
	}

	// Bounds are inclusive.
	_, err := svc.SubmitReview(10, b.ID, 1, "barely acceptable")
	assert.NoError(t, err)
}
