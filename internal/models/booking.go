package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the lifecycle state of a reservation.
type BookingStatus string

const (
	StatusBooked    BookingStatus = "booked"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// allowedTransitions is the directed graph of legal status changes. Both
// cancelled and completed are terminal; a booking is never deleted, only
// moved into one of them.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusBooked:    {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to BookingStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsValidBookingStatus checks if a status value is known.
func IsValidBookingStatus(s BookingStatus) bool {
	switch s {
	case StatusBooked, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// Booking represents a committed reservation of a vehicle for a date range.
// TotalCost is fixed at booking time from the vehicle's daily rate; later
// catalog price changes do not touch existing bookings.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	CarID     primitive.ObjectID `bson:"car_id" json:"carId"`
	FromDate  time.Time          `bson:"from_date" json:"fromDate"`
	ToDate    time.Time          `bson:"to_date" json:"toDate"`
	TotalCost float64            `bson:"total_cost" json:"totalCost"`
	Status    BookingStatus      `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsActive reports whether the booking still occupies its date window.
func (b *Booking) IsActive() bool {
	return b.Status == StatusBooked
}

// BookingRequest is the raw client payload for creating a booking. Dates are
// strings on the wire (RFC 3339 or plain YYYY-MM-DD) and are parsed exactly
// once, at the validator boundary.
type BookingRequest struct {
	UserID   string `json:"userId"`
	CarID    string `json:"carId"`
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

// BookingWithVehicle is the read-side shape for listing a user's bookings:
// the booking joined with its vehicle's descriptive attributes. Car is nil
// when the vehicle has since been removed from the catalog.
type BookingWithVehicle struct {
	Booking `bson:",inline"`
	Car     *Vehicle `json:"car,omitempty"`
}
