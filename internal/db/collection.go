package db

import (
	"context"
	"time"

	"github.com/ukydev/fleet-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VehicleCollection defines the interface for the vehicle directory.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error)
	FindVehicles(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (VehicleCursor, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindVehicleByNumber(ctx context.Context, number string) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error
	UpdateAvailability(ctx context.Context, id string, available bool) error
	DeleteVehicle(ctx context.Context, id string) error
}

// VehicleCursor defines the interface for vehicle cursor operations.
type VehicleCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// BookingCollection defines the interface for the booking ledger.
type BookingCollection interface {
	InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)
	FindBookingByID(ctx context.Context, id string) (*models.Booking, error)
	FindBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	FindActiveOverlapping(ctx context.Context, carID primitive.ObjectID, from, to time.Time) ([]models.Booking, error)
	FindExpiredActive(ctx context.Context, now time.Time) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error
}
