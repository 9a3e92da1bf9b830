package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"optivolt/internal/service"
)

// CatalogHandler serves the public browsing endpoints: service types,
// providers, catalogs, candidate dates and free slots.
type CatalogHandler struct {
	Catalog *service.CatalogService
	Slots   *service.SlotService
}

func NewCatalogHandler(catalog *service.CatalogService, slots *service.SlotService) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Slots: slots}
}

func (h *CatalogHandler) ListServiceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Catalog.GetServiceTypes()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *CatalogHandler) ListProvidersForService(w http.ResponseWriter, r *http.Request) {
	serviceTypeID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	city := r.URL.Query().Get("city")
	providers, err := h.Catalog.ListProvidersForService(serviceTypeID, city)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, providers)
}

func (h *CatalogHandler) GetProviderCatalog(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	offers, err := h.Catalog.GetProviderCatalog(providerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

func (h *CatalogHandler) GetCandidateDates(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	dates, err := h.Slots.CandidateDates(providerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

func (h *CatalogHandler) GetFreeSlots(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date query parameter is required", http.StatusBadRequest)
		return
	}
	slots, err := h.Slots.FreeSlots(providerID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}
