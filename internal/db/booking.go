package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/fleet-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingCollection implements BookingCollection for MongoDB.
type MongoBookingCollection struct {
	Collection *mongo.Collection
}

// InsertBooking inserts a booking record and returns it with its assigned ID.
func (c *MongoBookingCollection) InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()
	result, err := c.Collection.InsertOne(ctx, booking)
	if err != nil {
		return nil, err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = id
	}
	return &booking, nil
}

// FindBookingByID finds a booking by its ID.
func (c *MongoBookingCollection) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID %q: %w", id, ErrNotFound)
	}
	var booking models.Booking
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// FindBookingsByUser returns all bookings of a user in insertion order.
// The ascending created_at sort keeps the listing stable for the UI.
func (c *MongoBookingCollection) FindBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID %q: %w", userID, ErrNotFound)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := c.Collection.Find(ctx, bson.M{"user_id": objectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	bookings := make([]models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindActiveOverlapping returns the booked reservations of a vehicle whose
// [from_date, to_date) window intersects [from, to). This is the calendar
// index the conflict check runs against.
func (c *MongoBookingCollection) FindActiveOverlapping(ctx context.Context, carID primitive.ObjectID, from, to time.Time) ([]models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	filter := bson.M{
		"car_id":    carID,
		"status":    models.StatusBooked,
		"from_date": bson.M{"$lt": to},
		"to_date":   bson.M{"$gt": from},
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	bookings := make([]models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindExpiredActive returns booked reservations whose to_date has passed.
func (c *MongoBookingCollection) FindExpiredActive(ctx context.Context, now time.Time) ([]models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	filter := bson.M{
		"status":  models.StatusBooked,
		"to_date": bson.M{"$lt": now},
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	bookings := make([]models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateBookingStatus sets the status of a booking.
func (c *MongoBookingCollection) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid booking ID %q: %w", id, ErrNotFound)
	}
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
