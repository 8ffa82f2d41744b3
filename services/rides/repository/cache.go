package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/riopardo/rides/internal/pkg/constants"
	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
)

// putIfNewer replaces the cached entry only when it holds an older version,
// so a delayed put can never roll the projection back
var putIfNewer = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current then
	local ok, entry = pcall(cjson.decode, current)
	if ok and type(entry) == 'table' and tonumber(entry.version) and tonumber(entry.version) >= tonumber(ARGV[2]) then
		return 0
	end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// cacheEntry is the redis value. The write id is kept so a cached ride is
// identical to the stored one.
type cacheEntry struct {
	Version int64              `json:"version"`
	WriteID string             `json:"write_id"`
	Ride    models.RideRequest `json:"ride"`
}

// CachedRideRepo keeps a redis projection of single rides in front of the
// authoritative store. Redis is never written unless the store write succeeded,
// an older version never replaces a newer one, and an unavailable redis only
// costs a store round trip.
type CachedRideRepo struct {
	store rides.RideRepo
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedRideRepo wraps store with a read-through redis projection
func NewCachedRideRepo(store rides.RideRepo, client *redis.Client, ttl time.Duration) *CachedRideRepo {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedRideRepo{store: store, redis: client, ttl: ttl}
}

func rideKey(id string) string {
	return fmt.Sprintf(constants.KeyRideRequest, id)
}

// Create writes through to the store and caches the new request
func (c *CachedRideRepo) Create(ctx context.Context, ride *models.RideRequest) error {
	if err := c.store.Create(ctx, ride); err != nil {
		return err
	}
	c.put(ctx, ride)
	return nil
}

// Update writes through to the store; a version conflict evicts the cached copy
func (c *CachedRideRepo) Update(ctx context.Context, ride *models.RideRequest, expectedVersion int64) error {
	if err := c.store.Update(ctx, ride, expectedVersion); err != nil {
		c.evict(ctx, ride.ID)
		return err
	}
	c.put(ctx, ride)
	return nil
}

// LoadByID serves from redis when possible and falls back to the store
func (c *CachedRideRepo) LoadByID(ctx context.Context, id string) (*models.RideRequest, error) {
	data, err := c.redis.Get(ctx, rideKey(id)).Bytes()
	switch {
	case err == nil:
		var entry cacheEntry
		jsonErr := json.Unmarshal(data, &entry)
		if jsonErr == nil && entry.Ride.ID == id {
			ride := entry.Ride
			ride.WriteID = entry.WriteID
			return &ride, nil
		}
		if jsonErr == nil {
			jsonErr = fmt.Errorf("entry holds ride %q", entry.Ride.ID)
		}
		logger.WarnCtx(ctx, "Discarding undecodable cached ride",
			logger.String("ride_id", id),
			logger.Err(jsonErr))
	case errors.Is(err, redis.Nil):
	default:
		logger.WarnCtx(ctx, "Ride cache unavailable, reading from store",
			logger.String("ride_id", id),
			logger.Err(err))
	}

	ride, err := c.store.LoadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(ctx, ride)
	return ride, nil
}

// FindActiveByPassenger always reads the store
func (c *CachedRideRepo) FindActiveByPassenger(ctx context.Context, passengerID string) (*models.RideRequest, error) {
	return c.store.FindActiveByPassenger(ctx, passengerID)
}

// FindActiveByDriver always reads the store
func (c *CachedRideRepo) FindActiveByDriver(ctx context.Context, driverID string) ([]*models.RideRequest, error) {
	return c.store.FindActiveByDriver(ctx, driverID)
}

// List always reads the store
func (c *CachedRideRepo) List(ctx context.Context, filter models.RideFilter) ([]*models.RideRequest, error) {
	return c.store.List(ctx, filter)
}

// ListStale always reads the store
func (c *CachedRideRepo) ListStale(ctx context.Context, statuses []models.RideStatus, before time.Time) ([]*models.RideRequest, error) {
	return c.store.ListStale(ctx, statuses, before)
}

func (c *CachedRideRepo) put(ctx context.Context, ride *models.RideRequest) {
	data, err := json.Marshal(cacheEntry{Version: ride.Version, WriteID: ride.WriteID, Ride: *ride})
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to encode ride for cache",
			logger.String("ride_id", ride.ID),
			logger.Err(err))
		return
	}
	err = putIfNewer.Run(ctx, c.redis, []string{rideKey(ride.ID)},
		data, ride.Version, c.ttl.Milliseconds()).Err()
	if err != nil {
		logger.WarnCtx(ctx, "Failed to cache ride",
			logger.String("ride_id", ride.ID),
			logger.Err(err))
	}
}

func (c *CachedRideRepo) evict(ctx context.Context, id string) {
	if err := c.redis.Del(ctx, rideKey(id)).Err(); err != nil {
		logger.WarnCtx(ctx, "Failed to evict cached ride",
			logger.String("ride_id", id),
			logger.Err(err))
	}
}
