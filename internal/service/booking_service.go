package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"optivolt/internal/db"
	"optivolt/internal/entities"
	apperrors "optivolt/internal/errors"
	"optivolt/internal/repository"
)

// BookingService drives the booking lifecycle. Transition methods return
// whether the stored row actually changed: a guard failure (wrong current
// status, wrong owner) is a reported no-change, not an error, so callers must
// branch on the boolean.
type BookingService struct {
	bookings  repository.BookingRepository
	providers repository.ProviderRepository
	users     repository.UserRepository
	payments  *PaymentService
	sender    *SenderService
	log       *zap.Logger
}

func NewBookingService(
	bookings repository.BookingRepository,
	providers repository.ProviderRepository,
	users repository.UserRepository,
	payments *PaymentService,
	sender *SenderService,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		providers: providers,
		users:     users,
		payments:  payments,
		sender:    sender,
		log:       log,
	}
}

// CreateBooking validates the request, prices it against the client's city,
// checks the slot advisorily, and commits. Slot exclusivity is enforced by
// the storage layer at commit time, so a concurrent request that won the same
// slot surfaces here as ErrConflict even when the advisory check passed.
// Online bookings then auto-pay through the payment simulator.
func (s *BookingService) CreateBooking(clientID int, req *entities.BookingRequest) (*entities.BookingConfirmation, error) {
	mode := strings.ToUpper(strings.TrimSpace(req.PaymentMode))
	if mode == "" {
		mode = db.PaymentOnline
	}
	if mode != db.PaymentOnline && mode != db.PaymentCash {
		return nil, fmt.Errorf("unsupported payment mode %q: %w", req.PaymentMode, apperrors.ErrInvalidInput)
	}

	client, err := s.users.GetByID(clientID)
	if err != nil {
		return nil, err
	}

	item, err := s.providers.GetCatalogItem(req.CatalogID)
	if err != nil {
		return nil, err
	}
	if item.ProviderID != req.ProviderID {
		return nil, fmt.Errorf("catalog item %d does not belong to provider %d: %w",
			req.CatalogID, req.ProviderID, apperrors.ErrInvalidInput)
	}

	price, detail, err := ComputePrice(item.BasePrice, item.PricePerUnit, req.Quantity, client.City)
	if err != nil {
		return nil, err
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", req.Date, apperrors.ErrInvalidInput)
	}
	sched, err := s.providers.GetSchedule(req.ProviderID)
	if err != nil {
		return nil, err
	}
	ws, err := ParseWorkSchedule(sched.StartHour, sched.EndHour, sched.WorkingDays)
	if err != nil {
		return nil, err
	}
	if !ws.IsWorkingDay(day) {
		return nil, fmt.Errorf("%s is not a working day for provider %d: %w",
			req.Date, req.ProviderID, apperrors.ErrInvalidInput)
	}
	if !ws.ContainsTick(req.Hour) {
		return nil, fmt.Errorf("hour %q is outside provider %d working hours: %w",
			req.Hour, req.ProviderID, apperrors.ErrInvalidInput)
	}

	// Advisory only; the insert below is the authoritative claim.
	occupied, err := s.bookings.OccupiedSlots(req.ProviderID, req.Date)
	if err != nil {
		return nil, err
	}
	for _, h := range occupied {
		if h == req.Hour {
			return nil, fmt.Errorf("slot %s %s already booked: %w", req.Date, req.Hour, apperrors.ErrConflict)
		}
	}

	now := time.Now().UTC()
	booking := &db.Booking{
		ClientID:      clientID,
		ProviderID:    req.ProviderID,
		ServiceTypeID: item.ServiceTypeID,
		CatalogID:     req.CatalogID,
		Quantity:      req.Quantity,
		TotalPrice:    price,
		Description:   req.Description,
		Date:          req.Date,
		Hour:          req.Hour,
		PaymentMode:   mode,
		Status:        db.StatusRequested,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.bookings.Create(booking); err != nil {
		return nil, err
	}
	s.log.Info("booking created",
		zap.Int("booking_id", booking.ID),
		zap.Int("client_id", clientID),
		zap.Int("provider_id", req.ProviderID),
		zap.String("date", req.Date),
		zap.String("hour", req.Hour),
		zap.Float64("total_price", price))

	confirmation := &entities.BookingConfirmation{
		BookingID:   booking.ID,
		TotalPrice:  price,
		PriceDetail: detail,
		Status:      booking.Status,
	}

	if mode == db.PaymentOnline {
		ref, err := s.payments.ProcessOnline(booking, client.Email)
		if err != nil {
			// The booking stays REQUESTED; the provider can still confirm it
			// and collect on site.
			s.log.Warn("online payment failed", zap.Int("booking_id", booking.ID), zap.Error(err))
		} else {
			changed, err := s.bookings.MarkPaid(booking.ID)
			if err != nil {
				return nil, err
			}
			if changed {
				confirmation.Status = db.StatusPaid
				confirmation.PaymentRef = ref
			}
		}
	}

	s.notifyClient(booking.ID, client, booking, confirmation.Status)
	return confirmation, nil
}

// Confirm is the provider accepting a request. Requires a supervisor contact
// and sets the scheduled start from the requested date and hour.
func (s *BookingService) Confirm(providerID, bookingID int, supervisorContact string) (bool, error) {
	if strings.TrimSpace(supervisorContact) == "" {
		return false, fmt.Errorf("supervisor contact is required: %w", apperrors.ErrInvalidInput)
	}
	b, err := s.ownedByProvider(providerID, bookingID)
	if err != nil {
		return false, err
	}

	hour := b.Hour
	if hour == "" {
		hour = "08:00"
	}
	scheduledStart, err := time.Parse("2006-01-02 15:04", b.Date+" "+hour)
	if err != nil {
		return false, fmt.Errorf("bad appointment %s %s on booking %d: %w", b.Date, b.Hour, b.ID, apperrors.ErrInvalidInput)
	}

	changed, err := s.bookings.Confirm(bookingID, supervisorContact, scheduledStart)
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Info("booking confirmed", zap.Int("booking_id", bookingID), zap.Int("provider_id", providerID))
		s.notifyClientByID(bookingID, b.ClientID, b, db.StatusConfirmed)
	}
	return changed, nil
}

// Reject is the provider declining a request; terminal.
func (s *BookingService) Reject(providerID, bookingID int) (bool, error) {
	b, err := s.ownedByProvider(providerID, bookingID)
	if err != nil {
		return false, err
	}
	changed, err := s.bookings.Reject(bookingID)
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Info("booking rejected", zap.Int("booking_id", bookingID), zap.Int("provider_id", providerID))
		s.notifyClientByID(bookingID, b.ClientID, b, db.StatusRejected)
	}
	return changed, nil
}

// Cancel is the client withdrawing a request. Allowed only from REQUESTED or
// PAID and only by the owning client; everything else is a no-change.
func (s *BookingService) Cancel(clientID, bookingID int) (bool, error) {
	changed, err := s.bookings.CancelByClient(bookingID, clientID)
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Info("booking cancelled by client", zap.Int("booking_id", bookingID), zap.Int("client_id", clientID))
	}
	return changed, nil
}

// Complete is the provider filing the end-of-job report, which closes the
// booking and opens it for review.
func (s *BookingService) Complete(providerID, bookingID int, report *entities.ReportRequest) (bool, error) {
	if strings.TrimSpace(report.Before) == "" ||
		strings.TrimSpace(report.After) == "" ||
		strings.TrimSpace(report.Summary) == "" {
		return false, fmt.Errorf("before/after notes and summary are required: %w", apperrors.ErrInvalidInput)
	}
	b, err := s.ownedByProvider(providerID, bookingID)
	if err != nil {
		return false, err
	}
	changed, err := s.bookings.Complete(bookingID, report.Before, report.After, report.Summary)
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Info("booking completed", zap.Int("booking_id", bookingID), zap.Int("provider_id", providerID))
		s.notifyClientByID(bookingID, b.ClientID, b, db.StatusCompleted)
	}
	return changed, nil
}

func (s *BookingService) GetBooking(id int) (*db.Booking, error) {
	return s.bookings.GetByID(id)
}

func (s *BookingService) ListForClient(clientID int) ([]entities.BookingSummary, error) {
	return s.bookings.ListByClient(clientID)
}

func (s *BookingService) ListForProvider(providerID int) ([]entities.BookingSummary, error) {
	return s.bookings.ListByProvider(providerID)
}

func (s *BookingService) ownedByProvider(providerID, bookingID int) (*db.Booking, error) {
	b, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if b.ProviderID != providerID {
		return nil, fmt.Errorf("booking %d does not belong to provider %d: %w",
			bookingID, providerID, apperrors.ErrForbidden)
	}
	return b, nil
}

func (s *BookingService) notifyClient(bookingID int, client *db.User, b *db.Booking, status string) {
	data := entities.BookingEmailData{
		BookingID:  bookingID,
		ClientName: client.Name,
		Date:       b.Date,
		Hour:       b.Hour,
		TotalPrice: b.TotalPrice,
		Status:     status,
	}
	s.sender.SendBookingEmail(data, client.Email)
	s.sender.SendBookingSMS(data, client.Phone)
}

func (s *BookingService) notifyClientByID(bookingID, clientID int, b *db.Booking, status string) {
	client, err := s.users.GetByID(clientID)
	if err != nil {
		s.log.Warn("notify: load client failed", zap.Int("client_id", clientID), zap.Error(err))
		return
	}
	s.notifyClient(bookingID, client, b, status)
}
