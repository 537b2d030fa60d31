package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental/internal/cache"
	"github.com/ukydev/fleet-rental/internal/db"
	"github.com/ukydev/fleet-rental/internal/middleware"
	"github.com/ukydev/fleet-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// CarHandler handles vehicle catalog requests
type CarHandler struct {
	vehicles db.VehicleCollection
	cache    *cache.VehicleCache
}

// NewCarHandler creates a new vehicle catalog handler
func NewCarHandler(vehicles db.VehicleCollection, vehicleCache *cache.VehicleCache) *CarHandler {
	return &CarHandler{
		vehicles: vehicles,
		cache:    vehicleCache,
	}
}

// Collection handles /api/cars: GET lists the catalog, POST creates a vehicle.
func (h *CarHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles /api/cars/{id}: GET, PUT and DELETE on a single vehicle.
func (h *CarHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/cars/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Vehicle ID required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CarHandler) list(w http.ResponseWriter, r *http.Request) {
	cursor, err := h.vehicles.FindVehicles(r.Context(), bson.M{})
	if err != nil {
		log.WithError(err).Error("Failed to list vehicles")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	vehicles := make([]models.Vehicle, 0)
	if err := cursor.All(r.Context(), &vehicles); err != nil {
		log.WithError(err).Error("Failed to decode vehicles")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicles)
}

func (h *CarHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Car not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to load vehicle")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

func (h *CarHandler) create(w http.ResponseWriter, r *http.Request) {
	if !middleware.HasPermission(r.Context(), "manage_cars") {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	// A new car is bookable unless the request says otherwise.
	vehicle := models.Vehicle{Availability: true}
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := vehicle.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Pre-insert lookup for a clean conflict response; the unique index on
	// number still backs this up under concurrency.
	if _, err := h.vehicles.FindVehicleByNumber(r.Context(), vehicle.Number); err == nil {
		http.Error(w, "Vehicle number already registered", http.StatusConflict)
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		log.WithError(err).Error("Failed to check vehicle number")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	created, err := h.vehicles.InsertVehicle(r.Context(), vehicle)
	if err != nil {
		log.WithError(err).Error("Failed to create vehicle")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *CarHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	if !middleware.HasPermission(r.Context(), "manage_cars") {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	var vehicle models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := vehicle.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if existing, err := h.vehicles.FindVehicleByNumber(r.Context(), vehicle.Number); err == nil && existing.ID.Hex() != id {
		http.Error(w, "Vehicle number already registered", http.StatusConflict)
		return
	}

	if err := h.vehicles.UpdateVehicle(r.Context(), id, vehicle); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Car not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to update vehicle")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.cache.Invalidate(id)

	updated, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		log.WithError(err).Error("Failed to reload vehicle")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *CarHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if !middleware.HasPermission(r.Context(), "manage_cars") {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	if err := h.vehicles.DeleteVehicle(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Car not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to delete vehicle")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.cache.Invalidate(id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Car deleted successfully"})
}
