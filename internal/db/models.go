package db

import "time"

// Booking statuses. The lifecycle is REQUESTED -> PAID -> CONFIRMED ->
// COMPLETED; REJECTED and CANCELLED_BY_CLIENT are terminal exits reachable
// only from REQUESTED or PAID.
const (
	StatusRequested         = "REQUESTED"
	StatusPaid              = "PAID"
	StatusConfirmed         = "CONFIRMED"
	StatusCompleted         = "COMPLETED"
	StatusRejected          = "REJECTED"
	StatusCancelledByClient = "CANCELLED_BY_CLIENT"
)

const (
	PaymentOnline = "ONLINE"
	PaymentCash   = "CASH"
)

const (
	RoleClient   = "CLIENT"
	RoleProvider = "PROVIDER"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	City         string
	Address      string
	Role         string
	IsBanned     bool
	CreatedAt    time.Time
}

type Provider struct {
	ID           int
	UserID       int
	Name         string
	Description  string
	City         string
	ContactPhone string
	ContactEmail string
	StartHour    string // "08:00"
	EndHour      string // "18:00"
	WorkingDays  string // "Mon-Sat" or "Mon,Wed,Fri"
	IsVerified   bool
}

// ProviderSchedule is the slice of Provider the slot engine reads.
type ProviderSchedule struct {
	StartHour   string
	EndHour     string
	WorkingDays string
}

type ServiceType struct {
	ID          int
	Name        string
	Description string
	Category    string
}

type CatalogItem struct {
	ID                int
	ProviderID        int
	ServiceTypeID     int
	BasePrice         float64
	PricePerUnit      float64
	UnitName          string
	Description       string
	IncludedProducts  string
	EstimatedDuration string
}

type Booking struct {
	ID                int
	ClientID          int
	ProviderID        int
	ServiceTypeID     int
	CatalogID         int
	Quantity          int
	TotalPrice        float64
	Description       string
	Date              string // YYYY-MM-DD
	Hour              string // HH:00
	PaymentMode       string
	Status            string
	ScheduledStart    *time.Time
	SupervisorContact string
	ReportBefore      string
	ReportAfter       string
	ReportSummary     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Review struct {
	ID        int
	BookingID int
	ClientID  int
	Rating    int
	Comment   string
	CreatedAt time.Time
}
