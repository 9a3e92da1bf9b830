package entities

import "time"

type BookingSummary struct {
	ID             int        `json:"id"`
	ClientName     string     `json:"client_name"`
	ProviderName   string     `json:"provider_name"`
	ServiceName    string     `json:"service_name"`
	Quantity       int        `json:"quantity"`
	TotalPrice     float64    `json:"total_price"`
	Date           string     `json:"date"`
	Hour           string     `json:"hour"`
	PaymentMode    string     `json:"payment_mode"`
	Status         string     `json:"status"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
}

type BookingStats struct {
	Total             int     `json:"total"`
	Requested         int     `json:"requested"`
	Paid              int     `json:"paid"`
	Confirmed         int     `json:"confirmed"`
	Completed         int     `json:"completed"`
	Rejected          int     `json:"rejected"`
	CancelledByClient int     `json:"cancelled_by_client"`
	Revenue           float64 `json:"revenue"`
}

// ReminderBooking carries the contact details the reminder job needs.
type ReminderBooking struct {
	BookingID    int
	ClientName   string
	ClientEmail  string
	ClientPhone  string
	ProviderName string
	ServiceName  string
	TotalPrice   float64
	Date         string
	Hour         string
}
