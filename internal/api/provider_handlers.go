package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"optivolt/internal/auth"
	"optivolt/internal/db"
	"optivolt/internal/entities"
	"optivolt/internal/service"
)

type ProviderHandler struct {
	Bookings *service.BookingService
	Catalog  *service.CatalogService
}

func NewProviderHandler(bookings *service.BookingService, catalog *service.CatalogService) *ProviderHandler {
	return &ProviderHandler{Bookings: bookings, Catalog: catalog}
}

// provider resolves the provider profile behind the authenticated user.
func (h *ProviderHandler) provider(r *http.Request) (*db.Provider, error) {
	return h.Catalog.ProviderForUser(auth.UserIDFrom(r.Context()))
}

func (h *ProviderHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	p, err := h.provider(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookings, err := h.Bookings.ListForProvider(p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *ProviderHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req entities.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	p, err := h.provider(r)
	if err != nil {
		writeError(w, err)
		return
	}
	changed, err := h.Bookings.Confirm(p.ID, bookingID, req.SupervisorContact)
	if err != nil {
		writeError(w, err)
		return
	}
	if !changed {
		writeNoChange(w, "booking cannot be confirmed in its current state")
		return
	}
	writeMessage(w, http.StatusOK, "Booking confirmed")
}

func (h *ProviderHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	p, err := h.provider(r)
	if err != nil {
		writeError(w, err)
		return
	}
	changed, err := h.Bookings.Reject(p.ID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !changed {
		writeNoChange(w, "booking cannot be rejected in its current state")
		return
	}
	writeMessage(w, http.StatusOK, "Booking rejected")
}

func (h *ProviderHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req entities.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	p, err := h.provider(r)
	if err != nil {
		writeError(w, err)
		return
	}
	changed, err := h.Bookings.Complete(p.ID, bookingID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	if !changed {
		writeNoChange(w, "report can only be submitted for a confirmed booking")
		return
	}
	writeMessage(w, http.StatusOK, "Report submitted, booking completed")
}

func (h *ProviderHandler) AddCatalogItem(w http.ResponseWriter, r *http.Request) {
	var req entities.CatalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	p, err := h.provider(r)
	if err != nil {
		writeError(w, err)
		return
	}
	offer, err := h.Catalog.AddCatalogItem(p.ID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

func (h *ProviderHandler) RemoveCatalogItem(w http.ResponseWriter, r *http.Request) {
	catalogID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	p, err := h.provider(r)
	if err != nil {
		writeError(w, err)
		return
	}
	changed, err := h.Catalog.RemoveCatalogItem(p.ID, catalogID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !changed {
		http.Error(w, "Catalog item not found", http.StatusNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Catalog item removed")
}

func (h *ProviderHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req entities.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	p, err := h.provider(r)
	if err != nil {
		writeError(w, err)
		return
	}
	changed, err := h.Catalog.UpdateProfile(p.ID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	if !changed {
		http.Error(w, "Provider not found", http.StatusNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Profile updated")
}

func (h *ProviderHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req entities.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	p, err := h.provider(r)
	if err != nil {
		writeError(w, err)
		return
	}
	changed, err := h.Catalog.UpdateSchedule(p.ID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	if !changed {
		http.Error(w, "Provider not found", http.StatusNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Schedule updated")
}
