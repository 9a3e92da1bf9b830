package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"optivolt/internal/db"
	"optivolt/internal/entities"
	apperrors "optivolt/internal/errors"
)

type bookingFixture struct {
	svc       *BookingService
	bookings  *fakeBookingRepo
	providers *fakeProviderRepo
	users     *fakeUserRepo
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	bookings := newFakeBookingRepo()
	providers := newFakeProviderRepo()
	users := newFakeUserRepo()
	log := zap.NewNop()

	users.users[10] = &db.User{ID: 10, Name: "Amina", Email: "amina@example.com", City: "Rabat", Role: db.RoleClient}
	users.users[11] = &db.User{ID: 11, Name: "Karim", Email: "karim@example.com", City: "Fes", Role: db.RoleClient}
	providers.providers[1] = &db.Provider{
		ID: 1, UserID: 20, Name: "SunPro",
		StartHour: "08:00", EndHour: "18:00", WorkingDays: "Mon-Sat",
	}
	providers.catalog[5] = &db.CatalogItem{
		ID: 5, ProviderID: 1, ServiceTypeID: 2, BasePrice: 200, PricePerUnit: 50,
	}

	svc := NewBookingService(bookings, providers, users,
		NewPaymentService(log), NewSenderService(log), log)
	return &bookingFixture{svc: svc, bookings: bookings, providers: providers, users: users}
}

func validRequest() *entities.BookingRequest {
	return &entities.BookingRequest{
		ProviderID:  1,
		CatalogID:   5,
		Quantity:    3,
		Date:        "2026-09-07", // a Monday
		Hour:        "09:00",
		PaymentMode: "ONLINE",
	}
}

func TestCreateBookingOnlineAutoPays(t *testing.T) {
	fx := newBookingFixture(t)

	conf, err := fx.svc.CreateBooking(10, validRequest())
	require.NoError(t, err)
	assert.InDelta(t, 420.00, conf.TotalPrice, 0.001)
	assert.Contains(t, conf.PriceDetail, "20%")
	assert.Equal(t, db.StatusPaid, conf.Status)
	assert.NotEmpty(t, conf.PaymentRef)
	assert.Equal(t, db.StatusPaid, fx.bookings.status(conf.BookingID))
}

func TestCreateBookingCashStaysRequested(t *testing.T) {
	fx := newBookingFixture(t)
	req := validRequest()
	req.PaymentMode = "CASH"

	conf, err := fx.svc.CreateBooking(10, req)
	require.NoError(t, err)
	assert.Equal(t, db.StatusRequested, conf.Status)
	assert.Empty(t, conf.PaymentRef)
}

func TestCreateBookingDefaultsToOnline(t *testing.T) {
	fx := newBookingFixture(t)
	req := validRequest()
	req.PaymentMode = ""

	conf, err := fx.svc.CreateBooking(10, req)
	require.NoError(t, err)
	assert.Equal(t, db.StatusPaid, conf.Status)
}

func TestCreateBookingRejectsUnknownPaymentMode(t *testing.T) {
	fx := newBookingFixture(t)
	req := validRequest()
	req.PaymentMode = "BARTER"

	_, err := fx.svc.CreateBooking(10, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateBookingOccupiedSlotConflicts(t *testing.T) {
	fx := newBookingFixture(t)

	_, err := fx.svc.CreateBooking(10, validRequest())
	require.NoError(t, err)

	_, err = fx.svc.CreateBooking(11, validRequest())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateBookingTerminalStatusFreesSlot(t *testing.T) {
	fx := newBookingFixture(t)

	conf, err := fx.svc.CreateBooking(10, validRequest())
	require.NoError(t, err)

	changed, err := fx.svc.Reject(1, conf.BookingID)
	require.NoError(t, err)
	require.True(t, changed)

	// The slot is free again after the rejection.
	_, err = fx.svc.CreateBooking(11, validRequest())
	assert.NoError(t, err)
}

func TestCreateBookingConcurrentSameSlotOneWinner(t *testing.T) {
	fx := newBookingFixture(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	clients := []int{10, 11}
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.svc.CreateBooking(clients[i], validRequest())
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, apperrors.ErrConflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}

func TestCreateBookingOutsideWorkingHours(t *testing.T) {
	fx := newBookingFixture(t)
	req := validRequest()
	req.Hour = "19:00"

	_, err := fx.svc.CreateBooking(10, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateBookingOnNonWorkingDay(t *testing.T) {
	fx := newBookingFixture(t)
	req := validRequest()
	req.Date = "2026-09-06" // a Sunday, provider works Mon-Sat

	_, err := fx.svc.CreateBooking(10, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateBookingCatalogProviderMismatch(t *testing.T) {
	fx := newBookingFixture(t)
	fx.providers.providers[2] = &db.Provider{
		ID: 2, UserID: 21, StartHour: "08:00", EndHour: "18:00", WorkingDays: "Mon-Sat",
	}
	req := validRequest()
	req.ProviderID = 2 // catalog item 5 belongs to provider 1

	_, err := fx.svc.CreateBooking(10, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateBookingBadQuantity(t *testing.T) {
	fx := newBookingFixture(t)
	req := validRequest()
	req.Quantity = 0

	_, err := fx.svc.CreateBooking(10, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestConfirmFromRequestedAndPaid(t *testing.T) {
	fx := newBookingFixture(t)
	for _, status := range []string{db.StatusRequested, db.StatusPaid} {
		b := fx.bookings.put(&db.Booking{
			ClientID: 10, ProviderID: 1, Date: "2026-09-07", Hour: "09:00", Status: status,
		})
		changed, err := fx.svc.Confirm(1, b.ID, "supervisor@sunpro.ma")
		require.NoError(t, err, "from %s", status)
		assert.True(t, changed, "from %s", status)
		assert.Equal(t, db.StatusConfirmed, fx.bookings.status(b.ID))

		got, err := fx.bookings.GetByID(b.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ScheduledStart)
		assert.Equal(t, "2026-09-07 09:00", got.ScheduledStart.Format("2006-01-02 15:04"))
	}
}

func TestConfirmRequiresSupervisorContact(t *testing.T) {
	fx := newBookingFixture(t)
	b := fx.bookings.put(&db.Booking{
		ClientID: 10, ProviderID: 1, Date: "2026-09-07", Hour: "09:00", Status: db.StatusRequested,
	})

	_, err := fx.svc.Confirm(1, b.ID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, db.StatusRequested, fx.bookings.status(b.ID))
}

func TestConfirmForeignBookingForbidden(t *testing.T) {
	fx := newBookingFixture(t)
	b := fx.bookings.put(&db.Booking{
		ClientID: 10, ProviderID: 2, Date: "2026-09-07", Hour: "09:00", Status: db.StatusRequested,
	})

	_, err := fx.svc.Confirm(1, b.ID, "supervisor@sunpro.ma")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestConfirmCompletedBookingNoChange(t *testing.T) {
	fx := newBookingFixture(t)
	b := fx.bookings.put(&db.Booking{
		ClientID: 10, ProviderID: 1, Date: "2026-09-07", Hour: "09:00", Status: db.StatusCompleted,
	})

	changed, err := fx.svc.Confirm(1, b.ID, "supervisor@sunpro.ma")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, db.StatusCompleted, fx.bookings.status(b.ID))
}

func TestCancelThenCancelAgainNoChange(t *testing.T) {
	fx := newBookingFixture(t)
	b := fx.bookings.put(&db.Booking{
		ClientID: 10, ProviderID: 1, Date: "2026-09-07", Hour: "09:00", Status: db.StatusRequested,
	})

	changed, err := fx.svc.Cancel(10, b.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, db.StatusCancelledByClient, fx.bookings.status(b.ID))

	changed, err = fx.svc.Cancel(10, b.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, db.StatusCancelledByClient, fx.bookings.status(b.ID))
}

func TestCancelByOtherClientNoChange(t *testing.T) {
	fx := newBookingFixture(t)
	b := fx.bookings.put(&db.Booking{
		ClientID: 10, ProviderID: 1, Date: "2026-09-07", Hour: "09:00", Status: db.StatusRequested,
	})

	changed, err := fx.svc.Cancel(11, b.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, db.StatusRequested, fx.bookings.status(b.ID))
}

func TestCancelConfirmedBookingNoChange(t *testing.T) {
	fx := newBookingFixture(t)
	b := fx.bookings.put(&db.Booking{
		ClientID: 10, ProviderID: 1, Date: "2026-09-07", Hour: "09:00", Status: db.StatusConfirmed,
	})

	changed, err := fx.svc.Cancel(10, b.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCompleteRecordsReport(t *testing.T) {
	fx := newBookingFixture(t)
	b := fx.bookings.put(&db.Booking{
		ClientID: 10, ProviderID: 1, Date: "2026-09-07", Hour: "09:00", Status: db.StatusConfirmed,
	})

	changed, err := fx.svc.Complete(1, b.ID, &entities.ReportRequest{
		Before:  "panels dusty, output at 60%",
		After:   "panels cleaned, output back to 98%",
		Summary: "full cleaning, no damage found",
	})
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := fx.bookings.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusCompleted, got.Status)
	assert.Equal(t, "full cleaning, no damage found", got.ReportSummary)
}

func TestCompleteRequiresFullReport(t *testing.T) {
	fx := newBookingFixture(t)
	b := fx.bookings.put(&db.Booking{
		ClientID: 10, ProviderID: 1, Date: "2026-09-07", Hour: "09:00", Status: db.StatusConfirmed,
	})

	_, err := fx.svc.Complete(1, b.ID, &entities.ReportRequest{Before: "x", After: "y"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, db.StatusConfirmed, fx.bookings.status(b.ID))
}

func TestCompleteRequiresConfirmedStatus(t *testing.T) {
	fx := newBookingFixture(t)
	b := fx.bookings.put(&db.Booking{
		ClientID: 10, ProviderID: 1, Date: "2026-09-07", Hour: "09:00", Status: db.StatusRequested,
	})

	changed, err := fx.svc.Complete(1, b.ID, &entities.ReportRequest{
		Before: "x", After: "y", Summary: "z",
	})
	require.NoError(t, err)
	assert.False(t, changed)
}
