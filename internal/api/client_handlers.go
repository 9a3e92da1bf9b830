package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"optivolt/internal/auth"
	"optivolt/internal/entities"
	"optivolt/internal/service"
)

type ClientHandler struct {
	Bookings *service.BookingService
	Reviews  *service.ReviewService
}

func NewClientHandler(bookings *service.BookingService, reviews *service.ReviewService) *ClientHandler {
	return &ClientHandler{Bookings: bookings, Reviews: reviews}
}

func (h *ClientHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	clientID := auth.UserIDFrom(r.Context())
	confirmation, err := h.Bookings.CreateBooking(clientID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, confirmation)
}

func (h *ClientHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	clientID := auth.UserIDFrom(r.Context())
	bookings, err := h.Bookings.ListForClient(clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *ClientHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	clientID := auth.UserIDFrom(r.Context())
	changed, err := h.Bookings.Cancel(clientID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !changed {
		writeNoChange(w, "booking cannot be cancelled in its current state")
		return
	}
	writeMessage(w, http.StatusOK, "Booking cancelled")
}

func (h *ClientHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req entities.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	clientID := auth.UserIDFrom(r.Context())
	review, err := h.Reviews.SubmitReview(clientID, bookingID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"review_id": review.ID,
		"message":   "Thank you for your review!",
	})
}
