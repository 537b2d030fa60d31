package booking

import "errors"

// Rejection taxonomy of the reservation engine. Everything except
// ErrPersistence means the caller can fix the request and retry; a persistence
// failure is surfaced without storage internals.
var (
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidDate        = errors.New("invalid date format")
	ErrInvalidRange       = errors.New("invalid date range: fromDate must be before toDate")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrVehicleUnavailable = errors.New("vehicle is not available")
	ErrDateConflict       = errors.New("vehicle is already booked for an overlapping period")
	ErrCostComputation    = errors.New("failed to compute total cost")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrPersistence        = errors.New("storage operation failed")
)
