package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"optivolt/internal/service"
)

type AdminHandler struct {
	Admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{Admin: admin}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Admin.ListAllBookings()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Admin.GetStats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) VerifyProvider(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	changed, err := h.Admin.VerifyProvider(providerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !changed {
		http.Error(w, "Provider not found", http.StatusNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Provider verified")
}

func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, true, "User banned")
}

func (h *AdminHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, false, "User unbanned")
}

func (h *AdminHandler) setBanned(w http.ResponseWriter, r *http.Request, banned bool, msg string) {
	userID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	changed, err := h.Admin.SetUserBanned(userID, banned)
	if err != nil {
		writeError(w, err)
		return
	}
	if !changed {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}
