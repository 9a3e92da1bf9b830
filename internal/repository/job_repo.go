package repository

import (
	"database/sql"
	"fmt"

	"optivolt/internal/entities"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// ConfirmedBookingsOn returns confirmed bookings scheduled for the given date
// together with the contact details the reminder needs.
func (r *JobRepository) ConfirmedBookingsOn(date string) ([]entities.ReminderBooking, error) {
	query := `
		SELECT b.id, u.name, u.email, COALESCE(u.phone, ''),
		       p.name, s.name, b.total_price, b.rdv_date::text, b.rdv_hour
		FROM bookings b
		JOIN users u ON b.client_id = u.id
		JOIN providers p ON b.provider_id = p.id
		JOIN service_types s ON b.service_type_id = s.id
		WHERE b.status = 'CONFIRMED' AND b.rdv_date = $1
		ORDER BY b.rdv_hour`
	rows, err := r.DB.Query(query, date)
	if err != nil {
		return nil, fmt.Errorf("query confirmed bookings for %s: %w", date, err)
	}
	defer rows.Close()

	var reminders []entities.ReminderBooking
	for rows.Next() {
		var rb entities.ReminderBooking
		if err := rows.Scan(&rb.BookingID, &rb.ClientName, &rb.ClientEmail, &rb.ClientPhone,
			&rb.ProviderName, &rb.ServiceName, &rb.TotalPrice, &rb.Date, &rb.Hour); err != nil {
			return nil, fmt.Errorf("scan reminder booking: %w", err)
		}
		reminders = append(reminders, rb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminder bookings: %w", err)
	}
	return reminders, nil
}
