package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ukydev/fleet-rental/internal/db"
	"github.com/ukydev/fleet-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dateFormats are the accepted wire formats for fromDate/toDate.
var dateFormats = []string{time.RFC3339, "2006-01-02"}

// PricedIntent is the validator's output: a reservation that passed every
// check, with normalized UTC dates and the cost fixed from the vehicle's
// current daily rate. Treated as immutable once returned.
type PricedIntent struct {
	UserID    primitive.ObjectID
	CarID     primitive.ObjectID
	FromDate  time.Time
	ToDate    time.Time
	Days      int
	TotalCost float64
}

// Validator turns a raw booking request into a PricedIntent or a rejection.
// It reads the vehicle directory but never writes anything.
type Validator struct {
	vehicles db.VehicleCollection
}

// NewValidator creates a new reservation validator
func NewValidator(vehicles db.VehicleCollection) *Validator {
	return &Validator{vehicles: vehicles}
}

// Validate runs the full validation pipeline: required fields, date parsing,
// range check, vehicle lookup, availability, and cost computation. Billing is
// per started day: a day and a half is charged as two days.
func (v *Validator) Validate(ctx context.Context, req models.BookingRequest) (*PricedIntent, error) {
	if req.UserID == "" || req.CarID == "" || req.FromDate == "" || req.ToDate == "" {
		return nil, fmt.Errorf("%w: userId, carId, fromDate and toDate are required", ErrMissingField)
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: userId is not a valid id", ErrMissingField)
	}

	from, err := parseDate(req.FromDate)
	if err != nil {
		return nil, fmt.Errorf("%w: fromDate %q", ErrInvalidDate, req.FromDate)
	}
	to, err := parseDate(req.ToDate)
	if err != nil {
		return nil, fmt.Errorf("%w: toDate %q", ErrInvalidDate, req.ToDate)
	}

	days := billableDays(from, to)
	if days <= 0 {
		return nil, ErrInvalidRange
	}

	vehicle, err := v.vehicles.FindVehicleByID(ctx, req.CarID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("%w: vehicle lookup: %v", ErrPersistence, err)
	}

	if !vehicle.Availability {
		return nil, ErrVehicleUnavailable
	}

	totalCost := float64(days) * vehicle.PricePerDay
	if math.IsNaN(totalCost) || math.IsInf(totalCost, 0) || totalCost <= 0 {
		return nil, fmt.Errorf("%w: %d days at rate %v", ErrCostComputation, days, vehicle.PricePerDay)
	}

	return &PricedIntent{
		UserID:    userID,
		CarID:     vehicle.ID,
		FromDate:  from,
		ToDate:    to,
		Days:      days,
		TotalCost: totalCost,
	}, nil
}

// billableDays is the number of started 24h periods between from and to.
func billableDays(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", value)
}
