package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental/internal/auth"
	"github.com/ukydev/fleet-rental/internal/booking"
	"github.com/ukydev/fleet-rental/internal/cache"
	"github.com/ukydev/fleet-rental/internal/db"
	"github.com/ukydev/fleet-rental/internal/events"
	"github.com/ukydev/fleet-rental/internal/handlers"
	"github.com/ukydev/fleet-rental/internal/middleware"
	"github.com/ukydev/fleet-rental/internal/models"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	log.Info("Connected to MongoDB")

	database := client.Database(db.DatabaseName())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		cancel()
		log.WithError(err).Fatal("Failed to create indexes")
	}
	cancel()

	vehicles := &db.MongoVehicleCollection{Collection: database.Collection("cars")}
	bookings := &db.MongoBookingCollection{Collection: database.Collection("bookings")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	publisher, err := events.NewPublisher(os.Getenv("MQTT_BROKER"), "fleet-rental-server")
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MQTT broker")
	}
	defer publisher.Close()
	if publisher == nil {
		log.Info("MQTT_BROKER not set, booking events disabled")
	}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	vehicleCache := cache.NewVehicleCache(vehicles)
	validator := booking.NewValidator(vehicles)
	manager := booking.NewManager(bookings, publisher)
	query := booking.NewQuery(bookings, vehicleCache)

	authHandler := handlers.NewAuthHandler(authService, users)
	carHandler := handlers.NewCarHandler(vehicles, vehicleCache)
	bookingHandler := handlers.NewBookingHandler(validator, manager, query)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()
	adminOnly := authMiddleware.RequireRole(models.RoleAdmin)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/api/auth/signup", authHandler.Signup)
	mux.HandleFunc("/api/auth/signin", authHandler.Signin)
	mux.HandleFunc("/api/auth/profile", authHandler.Profile)
	mux.HandleFunc("/api/cars", carHandler.Collection)
	mux.HandleFunc("/api/cars/", carHandler.Item)
	mux.HandleFunc("/api/bookings", bookingHandler.Create)
	mux.HandleFunc("/api/bookings/user/", bookingHandler.ListForUser)
	mux.Handle("/api/bookings/", adminOnly(http.HandlerFunc(bookingHandler.Transition)))

	handler := rateLimiter.RateLimit(100, 60)(authMiddleware.Authenticate(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
