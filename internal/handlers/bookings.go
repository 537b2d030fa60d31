package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental/internal/booking"
	"github.com/ukydev/fleet-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingHandler handles reservation requests
type BookingHandler struct {
	validator *booking.Validator
	manager   *booking.Manager
	query     *booking.Query
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(validator *booking.Validator, manager *booking.Manager, query *booking.Query) *BookingHandler {
	return &BookingHandler{
		validator: validator,
		manager:   manager,
		query:     query,
	}
}

// Create handles POST /api/bookings: validate, price, commit.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	intent, err := h.validator.Validate(r.Context(), req)
	if err != nil {
		writeBookingError(w, err)
		return
	}

	created, err := h.manager.Commit(r.Context(), intent)
	if err != nil {
		writeBookingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// ListForUser handles GET /api/bookings/user/{userId}.
func (h *BookingHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/api/bookings/user/")
	if userID == "" || strings.Contains(userID, "/") {
		http.Error(w, "User ID required", http.StatusBadRequest)
		return
	}
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	bookings, err := h.query.ListForSubject(r.Context(), userID)
	if err != nil {
		writeBookingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}

// Transition handles POST /api/bookings/{id}/cancel and
// /api/bookings/{id}/complete. Both routes are admin only; the same manager
// operations back the periodic sweep.
func (h *BookingHandler) Transition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/bookings/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.Error(w, "Booking ID and action required", http.StatusBadRequest)
		return
	}
	id, action := parts[0], parts[1]

	var (
		updated *models.Booking
		err     error
	)
	switch action {
	case "cancel":
		updated, err = h.manager.Cancel(r.Context(), id)
	case "complete":
		updated, err = h.manager.MarkCompleted(r.Context(), id)
	default:
		http.Error(w, "Unknown action", http.StatusNotFound)
		return
	}
	if err != nil {
		writeBookingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// writeBookingError maps the rejection taxonomy onto HTTP status codes.
// Persistence details are logged server side, never sent to the client.
func writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrMissingField),
		errors.Is(err, booking.ErrInvalidDate),
		errors.Is(err, booking.ErrInvalidRange),
		errors.Is(err, booking.ErrVehicleUnavailable):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, booking.ErrVehicleNotFound),
		errors.Is(err, booking.ErrBookingNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, booking.ErrDateConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, booking.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, booking.ErrCostComputation):
		log.WithError(err).Error("Cost computation failed")
		http.Error(w, booking.ErrCostComputation.Error(), http.StatusInternalServerError)
	default:
		log.WithError(err).Error("Booking request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
