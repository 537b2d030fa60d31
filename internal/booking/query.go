package booking

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental/internal/cache"
	"github.com/ukydev/fleet-rental/internal/db"
	"github.com/ukydev/fleet-rental/internal/models"
)

// Query is the read side of the engine: listings of a subject's bookings
// joined with vehicle attributes for display. It never writes.
type Query struct {
	bookings db.BookingCollection
	vehicles *cache.VehicleCache
}

// NewQuery creates a new booking query surface.
func NewQuery(bookings db.BookingCollection, vehicles *cache.VehicleCache) *Query {
	return &Query{bookings: bookings, vehicles: vehicles}
}

// ListForSubject returns every booking of a user, oldest first (insertion
// order via created_at, see FindBookingsByUser), each joined with its
// vehicle's attributes. A user without bookings gets an empty slice. A
// vehicle that has since left the catalog leaves Car nil instead of failing
// the whole listing.
func (q *Query) ListForSubject(ctx context.Context, userID string) ([]models.BookingWithVehicle, error) {
	bookings, err := q.bookings.FindBookingsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: bookings lookup: %v", ErrPersistence, err)
	}

	result := make([]models.BookingWithVehicle, 0, len(bookings))
	for _, b := range bookings {
		row := models.BookingWithVehicle{Booking: b}
		vehicle, err := q.vehicles.Get(ctx, b.CarID.Hex())
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"booking_id": b.ID.Hex(),
				"car_id":     b.CarID.Hex(),
			}).Warn("Vehicle lookup failed for booking listing")
		} else {
			row.Car = vehicle
		}
		result = append(result, row)
	}
	return result, nil
}
