package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     BookingStatus
		to       BookingStatus
		expected bool
	}{
		{"booked to cancelled", StatusBooked, StatusCancelled, true},
		{"booked to completed", StatusBooked, StatusCompleted, true},
		{"cancelled is terminal", StatusCancelled, StatusBooked, false},
		{"cancelled to completed", StatusCancelled, StatusCompleted, false},
		{"completed is terminal", StatusCompleted, StatusBooked, false},
		{"completed to cancelled", StatusCompleted, StatusCancelled, false},
		{"booked to booked", StatusBooked, StatusBooked, false},
		{"unknown status", BookingStatus("pending"), StatusBooked, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestIsValidBookingStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   BookingStatus
		expected bool
	}{
		{"booked", StatusBooked, true},
		{"cancelled", StatusCancelled, true},
		{"completed", StatusCompleted, true},
		{"unknown", "pending", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidBookingStatus(tt.status)
			if result != tt.expected {
				t.Errorf("IsValidBookingStatus(%s) = %v, want %v", tt.status, result, tt.expected)
			}
		})
	}
}

func TestBooking_IsActive(t *testing.T) {
	booking := &Booking{
		ID:       primitive.NewObjectID(),
		FromDate: time.Now(),
		ToDate:   time.Now().Add(48 * time.Hour),
		Status:   StatusBooked,
	}
	if !booking.IsActive() {
		t.Error("expected booked reservation to be active")
	}

	booking.Status = StatusCancelled
	if booking.IsActive() {
		t.Error("expected cancelled reservation to be inactive")
	}

	booking.Status = StatusCompleted
	if booking.IsActive() {
		t.Error("expected completed reservation to be inactive")
	}
}
