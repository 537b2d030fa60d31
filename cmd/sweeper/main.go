// Command sweeper periodically transitions booked reservations whose end date
// has passed to completed. The engine exposes the transition; this binary is
// the scheduler around it, kept out of process so the API server stays
// request-scoped.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental/internal/booking"
	"github.com/ukydev/fleet-rental/internal/db"
	"github.com/ukydev/fleet-rental/internal/events"
)

func sweepInterval() time.Duration {
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			return parsed
		}
		log.WithField("value", raw).Warn("Invalid SWEEP_INTERVAL, using default")
	}
	return time.Hour
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	bookings := &db.MongoBookingCollection{
		Collection: client.Database(db.DatabaseName()).Collection("bookings"),
	}

	publisher, err := events.NewPublisher(os.Getenv("MQTT_BROKER"), "fleet-rental-sweeper")
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MQTT broker")
	}
	defer publisher.Close()

	manager := booking.NewManager(bookings, publisher)
	interval := sweepInterval()
	log.WithField("interval", interval).Info("Booking sweeper started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		count, err := manager.CompleteExpired(ctx, time.Now().UTC())
		if err != nil {
			log.WithError(err).Error("Sweep failed")
			return
		}
		log.WithField("completed", count).Info("Sweep finished")
	}

	sweep()
	for {
		select {
		case <-ticker.C:
			sweep()
		case sig := <-stop:
			log.WithField("signal", sig.String()).Info("Booking sweeper stopping")
			return
		}
	}
}
