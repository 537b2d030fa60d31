package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMongoVehicleCollection_NilCollection(t *testing.T) {
	coll := &MongoVehicleCollection{Collection: nil}

	_, err := coll.InsertVehicle(context.Background(), models.Vehicle{})
	assert.Error(t, err)

	_, err = coll.FindVehicles(context.Background(), bson.M{})
	assert.Error(t, err)

	_, err = coll.FindVehicleByID(context.Background(), primitive.NewObjectID().Hex())
	assert.Error(t, err)

	err = coll.DeleteVehicle(context.Background(), primitive.NewObjectID().Hex())
	assert.Error(t, err)
}

// Integration tests (require running MongoDB)

func setupVehicleCollection(t *testing.T) *MongoVehicleCollection {
	t.Helper()
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	collection := client.Database("test_rental").Collection("cars")
	collection.Drop(context.Background())
	return &MongoVehicleCollection{Collection: collection}
}

func TestMongoVehicleCollection_RoundTrip(t *testing.T) {
	coll := setupVehicleCollection(t)

	car := models.Vehicle{
		Name:           "Coast Cruiser",
		Number:         "CC19 XYZ",
		Type:           models.TypeSUV,
		PricePerDay:    80,
		PersonCapacity: 7,
		FuelCapacity:   65,
		Transmission:   models.TransmissionAutomatic,
		Availability:   true,
	}

	created, err := coll.InsertVehicle(context.Background(), car)
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())

	found, err := coll.FindVehicleByID(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, car.Number, found.Number)
	assert.Equal(t, car.PricePerDay, found.PricePerDay)

	byPlate, err := coll.FindVehicleByNumber(context.Background(), car.Number)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPlate.ID)

	err = coll.UpdateAvailability(context.Background(), created.ID.Hex(), false)
	require.NoError(t, err)
	found, err = coll.FindVehicleByID(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.False(t, found.Availability)

	err = coll.DeleteVehicle(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	_, err = coll.FindVehicleByID(context.Background(), created.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoVehicleCollection_UpdateKeepsCreatedAt(t *testing.T) {
	coll := setupVehicleCollection(t)

	created, err := coll.InsertVehicle(context.Background(), models.Vehicle{
		Name:           "City Runner",
		Number:         "KX21 ABC",
		Type:           models.TypeHatchback,
		PricePerDay:    45,
		PersonCapacity: 5,
		FuelCapacity:   42,
		Transmission:   models.TransmissionManual,
		Availability:   true,
	})
	require.NoError(t, err)

	stored, err := coll.FindVehicleByID(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	require.False(t, stored.CreatedAt.IsZero())

	update := *stored
	update.PricePerDay = 95
	require.NoError(t, coll.UpdateVehicle(context.Background(), created.ID.Hex(), update))

	after, err := coll.FindVehicleByID(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 95.0, after.PricePerDay)
	assert.True(t, after.CreatedAt.Equal(stored.CreatedAt))
}

func TestMongoVehicleCollection_MissingRecord(t *testing.T) {
	coll := setupVehicleCollection(t)

	// An unparsable ID reports the same way as a missing record.
	_, err := coll.FindVehicleByID(context.Background(), "not-a-hex-id")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = coll.FindVehicleByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = coll.FindVehicleByNumber(context.Background(), "ZZ99 ZZZ")
	assert.ErrorIs(t, err, ErrNotFound)

	err = coll.DeleteVehicle(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}
