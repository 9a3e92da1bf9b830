package entities

// CatalogOffer is a provider's offer joined with its service type.
type CatalogOffer struct {
	ID                int     `json:"id"`
	ServiceTypeID     int     `json:"service_type_id"`
	ServiceName       string  `json:"service_name"`
	Category          string  `json:"category"`
	BasePrice         float64 `json:"base_price"`
	PricePerUnit      float64 `json:"price_per_unit"`
	UnitName          string  `json:"unit_name"`
	Description       string  `json:"description,omitempty"`
	IncludedProducts  string  `json:"included_products,omitempty"`
	EstimatedDuration string  `json:"estimated_duration,omitempty"`
}

type CatalogItemRequest struct {
	ServiceTypeID     int     `json:"service_type_id"`
	BasePrice         float64 `json:"base_price"`
	PricePerUnit      float64 `json:"price_per_unit"`
	UnitName          string  `json:"unit_name"`
	Description       string  `json:"description"`
	IncludedProducts  string  `json:"included_products"`
	EstimatedDuration string  `json:"estimated_duration"`
}

type ProfileRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	City         string `json:"city"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
}

type ScheduleRequest struct {
	StartHour   string `json:"start_hour"`
	EndHour     string `json:"end_hour"`
	WorkingDays string `json:"working_days"`
}
