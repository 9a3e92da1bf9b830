package entities

type SlotsResponse struct {
	ProviderID  int      `json:"provider_id"`
	Date        string   `json:"date"`
	FreeHours   []string `json:"free_hours"`
	BookedHours []string `json:"booked_hours,omitempty"`
}

type CandidateDatesResponse struct {
	ProviderID int      `json:"provider_id"`
	Dates      []string `json:"dates"`
}
