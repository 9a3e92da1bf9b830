package entities

type BookingEmailData struct {
	BookingID  int
	ClientName string
	Date       string
	Hour       string
	TotalPrice float64
	Status     string
}
