package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-rental/internal/cache"
	"github.com/ukydev/fleet-rental/internal/db"
	"github.com/ukydev/fleet-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestQuery_ListForSubject_Empty(t *testing.T) {
	mockBookings := new(MockBookingCollection)
	mockVehicles := new(MockVehicleCollection)
	query := NewQuery(mockBookings, cache.NewVehicleCache(mockVehicles))

	userID := primitive.NewObjectID().Hex()
	mockBookings.On("FindBookingsByUser", mock.Anything, userID).
		Return([]models.Booking{}, nil)

	result, err := query.ListForSubject(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestQuery_ListForSubject_JoinsVehicle(t *testing.T) {
	mockBookings := new(MockBookingCollection)
	mockVehicles := new(MockVehicleCollection)
	query := NewQuery(mockBookings, cache.NewVehicleCache(mockVehicles))

	userID := primitive.NewObjectID()
	vehicle := availableVehicle(60)
	booked := models.Booking{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		CarID:     vehicle.ID,
		FromDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		ToDate:    time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC),
		TotalCost: 180,
		Status:    models.StatusBooked,
	}

	mockBookings.On("FindBookingsByUser", mock.Anything, userID.Hex()).
		Return([]models.Booking{booked}, nil)
	mockVehicles.On("FindVehicleByID", mock.Anything, vehicle.ID.Hex()).
		Return(vehicle, nil)

	result, err := query.ListForSubject(context.Background(), userID.Hex())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, booked.ID, result[0].ID)
	assert.Equal(t, booked.TotalCost, result[0].TotalCost)
	require.NotNil(t, result[0].Car)
	assert.Equal(t, vehicle.Name, result[0].Car.Name)
	assert.Equal(t, vehicle.Number, result[0].Car.Number)
}

func TestQuery_ListForSubject_MissingVehicleTolerated(t *testing.T) {
	mockBookings := new(MockBookingCollection)
	mockVehicles := new(MockVehicleCollection)
	query := NewQuery(mockBookings, cache.NewVehicleCache(mockVehicles))

	userID := primitive.NewObjectID()
	booked := models.Booking{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		CarID:  primitive.NewObjectID(),
		Status: models.StatusCompleted,
	}

	mockBookings.On("FindBookingsByUser", mock.Anything, userID.Hex()).
		Return([]models.Booking{booked}, nil)
	mockVehicles.On("FindVehicleByID", mock.Anything, booked.CarID.Hex()).
		Return(nil, db.ErrNotFound)

	result, err := query.ListForSubject(context.Background(), userID.Hex())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Nil(t, result[0].Car)
}

func TestQuery_ListForSubject_StoreFailure(t *testing.T) {
	mockBookings := new(MockBookingCollection)
	mockVehicles := new(MockVehicleCollection)
	query := NewQuery(mockBookings, cache.NewVehicleCache(mockVehicles))

	userID := primitive.NewObjectID().Hex()
	mockBookings.On("FindBookingsByUser", mock.Anything, userID).
		Return(nil, errors.New("connection refused"))

	_, err := query.ListForSubject(context.Background(), userID)
	assert.ErrorIs(t, err, ErrPersistence)
}
