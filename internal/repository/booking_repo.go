package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"optivolt/internal/db"
	"optivolt/internal/entities"
	apperrors "optivolt/internal/errors"
)

const uniqueViolation = "23505"

// BookingRepository is the storage contract the booking lifecycle runs on.
// Every transition method is a compare-and-set against the stored status and
// reports whether a row actually changed, so two concurrent attempts resolve
// to exactly one winner.
type BookingRepository interface {
	Create(b *db.Booking) error
	GetByID(id int) (*db.Booking, error)
	OccupiedSlots(providerID int, date string) ([]string, error)
	MarkPaid(id int) (bool, error)
	Confirm(id int, supervisorContact string, scheduledStart time.Time) (bool, error)
	Reject(id int) (bool, error)
	CancelByClient(id, clientID int) (bool, error)
	Complete(id int, before, after, summary string) (bool, error)
	ListByClient(clientID int) ([]entities.BookingSummary, error)
	ListByProvider(providerID int) ([]entities.BookingSummary, error)
	ListAll() ([]entities.BookingSummary, error)
	Stats() (*entities.BookingStats, error)
}

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(database *sql.DB) BookingRepository {
	return &bookingRepository{db: database}
}

// Create inserts the booking in its initial status. The partial unique index
// bookings_live_slot_idx makes the insert the authoritative slot claim: the
// loser of a race on the same (provider, date, hour) gets ErrConflict here no
// matter what the advisory free-slot check said.
func (r *bookingRepository) Create(b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(client_id, provider_id, service_type_id, catalog_id, quantity, total_price,
		 description, rdv_date, rdv_hour, payment_mode, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		b.ClientID,
		b.ProviderID,
		b.ServiceTypeID,
		b.CatalogID,
		b.Quantity,
		b.TotalPrice,
		b.Description,
		b.Date,
		b.Hour,
		b.PaymentMode,
		b.Status,
		b.CreatedAt,
		b.UpdatedAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("slot %s %s already booked for provider %d: %w",
				b.Date, b.Hour, b.ProviderID, apperrors.ErrConflict)
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetByID(id int) (*db.Booking, error) {
	var (
		b     db.Booking
		start sql.NullTime
	)
	query := `
		SELECT id, client_id, provider_id, service_type_id, catalog_id, quantity,
		       total_price, COALESCE(description, ''), rdv_date::text, rdv_hour,
		       payment_mode, status, scheduled_start,
		       COALESCE(supervisor_contact, ''),
		       COALESCE(report_before, ''), COALESCE(report_after, ''),
		       COALESCE(report_summary, ''), created_at, updated_at
		FROM bookings WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&b.ID, &b.ClientID, &b.ProviderID, &b.ServiceTypeID, &b.CatalogID,
		&b.Quantity, &b.TotalPrice, &b.Description, &b.Date, &b.Hour,
		&b.PaymentMode, &b.Status, &start, &b.SupervisorContact,
		&b.ReportBefore, &b.ReportAfter, &b.ReportSummary,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	if start.Valid {
		b.ScheduledStart = &start.Time
	}
	return &b, nil
}

// OccupiedSlots returns the taken hours for a provider on a date, read fresh
// on every call. Rejected and client-cancelled bookings free their slot.
func (r *bookingRepository) OccupiedSlots(providerID int, date string) ([]string, error) {
	query := `
		SELECT rdv_hour FROM bookings
		WHERE provider_id = $1 AND rdv_date = $2
		  AND status NOT IN ('REJECTED', 'CANCELLED_BY_CLIENT')
		ORDER BY rdv_hour`
	rows, err := r.db.Query(query, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("query occupied slots: %w", err)
	}
	defer rows.Close()

	var hours []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scan occupied slot: %w", err)
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occupied slots: %w", err)
	}
	return hours, nil
}

func (r *bookingRepository) MarkPaid(id int) (bool, error) {
	res, err := r.db.Exec(
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		db.StatusPaid, id, db.StatusRequested)
	return changedRows(res, err, "mark booking paid")
}

func (r *bookingRepository) Confirm(id int, supervisorContact string, scheduledStart time.Time) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE bookings
		SET status = $1, supervisor_contact = $2, scheduled_start = $3, updated_at = NOW()
		WHERE id = $4 AND status = ANY($5)`,
		db.StatusConfirmed, supervisorContact, scheduledStart, id,
		pq.Array([]string{db.StatusRequested, db.StatusPaid}))
	return changedRows(res, err, "confirm booking")
}

func (r *bookingRepository) Reject(id int) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE bookings SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = ANY($3)`,
		db.StatusRejected, id,
		pq.Array([]string{db.StatusRequested, db.StatusPaid}))
	return changedRows(res, err, "reject booking")
}

func (r *bookingRepository) CancelByClient(id, clientID int) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE bookings SET status = $1, updated_at = NOW()
		WHERE id = $2 AND client_id = $3 AND status = ANY($4)`,
		db.StatusCancelledByClient, id, clientID,
		pq.Array([]string{db.StatusRequested, db.StatusPaid}))
	return changedRows(res, err, "cancel booking")
}

func (r *bookingRepository) Complete(id int, before, after, summary string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE bookings
		SET status = $1, report_before = $2, report_after = $3, report_summary = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6`,
		db.StatusCompleted, before, after, summary, id, db.StatusConfirmed)
	return changedRows(res, err, "complete booking")
}

const bookingSummarySelect = `
	SELECT b.id, u.name, p.name, s.name, b.quantity, b.total_price,
	       b.rdv_date::text, b.rdv_hour, b.payment_mode, b.status, b.scheduled_start
	FROM bookings b
	JOIN users u ON b.client_id = u.id
	JOIN providers p ON b.provider_id = p.id
	JOIN service_types s ON b.service_type_id = s.id`

func (r *bookingRepository) ListByClient(clientID int) ([]entities.BookingSummary, error) {
	return r.listBookings(bookingSummarySelect+` WHERE b.client_id = $1 ORDER BY b.created_at DESC`, clientID)
}

func (r *bookingRepository) ListByProvider(providerID int) ([]entities.BookingSummary, error) {
	return r.listBookings(bookingSummarySelect+` WHERE b.provider_id = $1 ORDER BY b.created_at DESC`, providerID)
}

func (r *bookingRepository) ListAll() ([]entities.BookingSummary, error) {
	return r.listBookings(bookingSummarySelect + ` ORDER BY b.created_at DESC`)
}

func (r *bookingRepository) listBookings(query string, args ...interface{}) ([]entities.BookingSummary, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var list []entities.BookingSummary
	for rows.Next() {
		var (
			s     entities.BookingSummary
			start sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.ClientName, &s.ProviderName, &s.ServiceName,
			&s.Quantity, &s.TotalPrice, &s.Date, &s.Hour, &s.PaymentMode,
			&s.Status, &start); err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		if start.Valid {
			s.ScheduledStart = &start.Time
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}
	return list, nil
}

// Stats computes the admin dashboard counters in a single query.
func (r *bookingRepository) Stats() (*entities.BookingStats, error) {
	var st entities.BookingStats
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'REQUESTED' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'PAID' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'CONFIRMED' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'COMPLETED' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'REJECTED' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'CANCELLED_BY_CLIENT' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'COMPLETED' THEN total_price ELSE 0 END), 0)
		FROM bookings`).Scan(
		&st.Total, &st.Requested, &st.Paid, &st.Confirmed, &st.Completed,
		&st.Rejected, &st.CancelledByClient, &st.Revenue)
	if err != nil {
		return nil, fmt.Errorf("query booking stats: %w", err)
	}
	return &st, nil
}

func changedRows(res sql.Result, err error, op string) (bool, error) {
	if err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, apperrors.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: rows affected: %w: %w", op, apperrors.ErrStorage, err)
	}
	return n > 0, nil
}
