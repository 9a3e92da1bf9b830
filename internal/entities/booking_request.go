package entities

type BookingRequest struct {
	ProviderID    int    `json:"provider_id"`
	ServiceTypeID int    `json:"service_type_id"`
	CatalogID     int    `json:"catalog_id"`
	Quantity      int    `json:"quantity"`
	Description   string `json:"description"`
	Date          string `json:"date"` // YYYY-MM-DD
	Hour          string `json:"hour"` // HH:00
	PaymentMode   string `json:"payment_mode"`
}

type BookingConfirmation struct {
	BookingID   int     `json:"booking_id"`
	TotalPrice  float64 `json:"total_price"`
	PriceDetail string  `json:"price_detail"`
	Status      string  `json:"status"`
	PaymentRef  string  `json:"payment_ref,omitempty"`
}

type ConfirmRequest struct {
	SupervisorContact string `json:"supervisor_contact"`
}

type ReportRequest struct {
	Before  string `json:"before"`
	After   string `json:"after"`
	Summary string `json:"summary"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
