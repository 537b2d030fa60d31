package cache

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/ukydev/fleet-rental/internal/db"
	"github.com/ukydev/fleet-rental/internal/models"
)

const defaultTTL = 5 * time.Minute

// VehicleCache is a small in-process read-through cache in front of the
// vehicle directory. The booking listing joins every row with its vehicle, so
// repeated lookups of the same handful of cars dominate that path. Mutating
// handlers must Invalidate on update and delete.
type VehicleCache struct {
	vehicles db.VehicleCollection
	cache    *ccache.Cache[*models.Vehicle]
	ttl      time.Duration
}

// NewVehicleCache creates a cache over the given directory.
func NewVehicleCache(vehicles db.VehicleCollection) *VehicleCache {
	return &VehicleCache{
		vehicles: vehicles,
		cache:    ccache.New(ccache.Configure[*models.Vehicle]().MaxSize(1000)),
		ttl:      defaultTTL,
	}
}

// Get returns the vehicle with the given ID, from cache when fresh.
func (c *VehicleCache) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	if item := c.cache.Get(id); item != nil && !item.Expired() {
		return item.Value(), nil
	}
	vehicle, err := c.vehicles.FindVehicleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Set(id, vehicle, c.ttl)
	return vehicle, nil
}

// Invalidate drops a vehicle from the cache.
func (c *VehicleCache) Invalidate(id string) {
	c.cache.Delete(id)
}
