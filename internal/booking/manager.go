package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental/internal/db"
	"github.com/ukydev/fleet-rental/internal/events"
	"github.com/ukydev/fleet-rental/internal/models"
)

// Manager owns booking records: it commits validated intents and applies
// status transitions. The conflict check and the insert run under a single
// mutex, which serializes commits within one server process. A multi-writer
// deployment would need to move the check-and-insert into a Mongo
// transaction instead.
type Manager struct {
	bookings db.BookingCollection
	events   *events.Publisher

	mu sync.Mutex
}

// NewManager creates a new booking lifecycle manager. publisher may be nil.
func NewManager(bookings db.BookingCollection, publisher *events.Publisher) *Manager {
	return &Manager{bookings: bookings, events: publisher}
}

// Commit persists a PricedIntent as a booked reservation. The vehicle's
// calendar of active bookings is checked first and a window overlap rejects
// the commit, so two reservations can never hold the same vehicle for
// intersecting dates. The availability flag is not touched here; it remains a
// coarse operator switch.
func (m *Manager) Commit(ctx context.Context, intent *PricedIntent) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	overlapping, err := m.bookings.FindActiveOverlapping(ctx, intent.CarID, intent.FromDate, intent.ToDate)
	if err != nil {
		return nil, fmt.Errorf("%w: overlap check: %v", ErrPersistence, err)
	}
	if len(overlapping) > 0 {
		return nil, ErrDateConflict
	}

	booking, err := m.bookings.InsertBooking(ctx, models.Booking{
		UserID:    intent.UserID,
		CarID:     intent.CarID,
		FromDate:  intent.FromDate,
		ToDate:    intent.ToDate,
		TotalCost: intent.TotalCost,
		Status:    models.StatusBooked,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: insert booking: %v", ErrPersistence, err)
	}

	log.WithFields(log.Fields{
		"booking_id": booking.ID.Hex(),
		"car_id":     booking.CarID.Hex(),
		"user_id":    booking.UserID.Hex(),
		"days":       intent.Days,
		"total_cost": booking.TotalCost,
	}).Info("Booking committed")

	m.events.BookingCreated(booking)
	return booking, nil
}

// Cancel moves a booking from booked to cancelled.
func (m *Manager) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	return m.transition(ctx, id, models.StatusCancelled)
}

// MarkCompleted moves a booking from booked to completed. The periodic sweep
// calls this once the booking's toDate has passed; it is also exposed to
// operators directly.
func (m *Manager) MarkCompleted(ctx context.Context, id string) (*models.Booking, error) {
	return m.transition(ctx, id, models.StatusCompleted)
}

// CompleteExpired marks every booked reservation whose toDate is before now
// as completed and returns how many were transitioned.
func (m *Manager) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := m.bookings.FindExpiredActive(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("%w: expired lookup: %v", ErrPersistence, err)
	}

	completed := 0
	for _, b := range expired {
		if _, err := m.MarkCompleted(ctx, b.ID.Hex()); err != nil {
			log.WithError(err).WithField("booking_id", b.ID.Hex()).Warn("Failed to complete expired booking")
			continue
		}
		completed++
	}
	return completed, nil
}

func (m *Manager) transition(ctx context.Context, id string, to models.BookingStatus) (*models.Booking, error) {
	booking, err := m.bookings.FindBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: booking lookup: %v", ErrPersistence, err)
	}

	if !models.CanTransition(booking.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
	}

	if err := m.bookings.UpdateBookingStatus(ctx, id, to); err != nil {
		return nil, fmt.Errorf("%w: status update: %v", ErrPersistence, err)
	}
	booking.Status = to

	log.WithFields(log.Fields{
		"booking_id": booking.ID.Hex(),
		"status":     to,
	}).Info("Booking status changed")

	switch to {
	case models.StatusCancelled:
		m.events.BookingCancelled(booking)
	case models.StatusCompleted:
		m.events.BookingCompleted(booking)
	}
	return booking, nil
}
