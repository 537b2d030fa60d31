package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleType classifies a rentable vehicle.
type VehicleType string

const (
	TypeSedan     VehicleType = "sedan"
	TypeSUV       VehicleType = "suv"
	TypeHatchback VehicleType = "hatchback"
	TypeSport     VehicleType = "sport"
	TypeCoupe     VehicleType = "coupe"
)

// Transmission is the gearbox kind of a vehicle.
type Transmission string

const (
	TransmissionManual    Transmission = "manual"
	TransmissionAutomatic Transmission = "automatic"
)

// Vehicle represents a rentable fleet vehicle. PricePerDay and Availability are
// the only fields the reservation engine reads; Availability is the one field
// it is allowed to change.
type Vehicle struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Number         string             `bson:"number" json:"number"` // license plate, unique
	Type           VehicleType        `bson:"type" json:"type"`
	PricePerDay    float64            `bson:"price_per_day" json:"pricePerDay"`
	PersonCapacity int                `bson:"person_capacity" json:"personCapacity"`
	FuelCapacity   float64            `bson:"fuel_capacity" json:"fuelCapacity"`
	Transmission   Transmission       `bson:"transmission" json:"transmission"`
	Availability   bool               `bson:"availability" json:"availability"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsValidVehicleType checks if a vehicle type is one of the known kinds.
func IsValidVehicleType(t VehicleType) bool {
	switch t {
	case TypeSedan, TypeSUV, TypeHatchback, TypeSport, TypeCoupe:
		return true
	default:
		return false
	}
}

// IsValidTransmission checks if a transmission value is known.
func IsValidTransmission(t Transmission) bool {
	switch t {
	case TransmissionManual, TransmissionAutomatic:
		return true
	default:
		return false
	}
}

// Validate checks the catalog invariants before a vehicle is created or updated.
// A non-positive daily rate is rejected here; the validator guards against it
// again at booking time in case older records slipped through.
func (v *Vehicle) Validate() error {
	if v.Name == "" {
		return errors.New("vehicle name is required")
	}
	if v.Number == "" {
		return errors.New("vehicle number is required")
	}
	if !IsValidVehicleType(v.Type) {
		return errors.New("invalid vehicle type")
	}
	if !IsValidTransmission(v.Transmission) {
		return errors.New("invalid transmission")
	}
	if v.PricePerDay <= 0 {
		return errors.New("price per day must be positive")
	}
	if v.PersonCapacity <= 0 {
		return errors.New("person capacity must be positive")
	}
	if v.FuelCapacity < 0 {
		return errors.New("fuel capacity cannot be negative")
	}
	return nil
}
