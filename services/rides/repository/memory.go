package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
)

// MemoryRideRepo is an in-process ride store with the same semantics as the
// postgres repository. Values are copied on the way in and out.
type MemoryRideRepo struct {
	mu    sync.RWMutex
	rides map[string]models.RideRequest
}

// NewMemoryRideRepo creates an empty in-memory ride store
func NewMemoryRideRepo() *MemoryRideRepo {
	return &MemoryRideRepo{rides: make(map[string]models.RideRequest)}
}

// Create stores a new ride request
func (m *MemoryRideRepo) Create(ctx context.Context, ride *models.RideRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.rides[ride.ID]; ok {
		if existing.PassengerID == ride.PassengerID && sameWrite(&existing, ride) {
			return nil
		}
		return fmt.Errorf("%w: ride %s already exists at version %d", rides.ErrVersionConflict, ride.ID, existing.Version)
	}
	if ride.Status.IsActive() {
		if active := m.activeForPassenger(ride.PassengerID); active != nil {
			return &rides.ConflictError{PassengerID: ride.PassengerID, ActiveRideID: active.ID}
		}
	}

	m.rides[ride.ID] = ride.Clone()
	return nil
}

// Update replaces the stored request if it is still at expectedVersion
func (m *MemoryRideRepo) Update(ctx context.Context, ride *models.RideRequest, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.rides[ride.ID]
	if !ok {
		return rides.NotFoundError(ride.ID)
	}
	if current.Version != expectedVersion {
		if sameWrite(&current, ride) {
			return nil
		}
		return fmt.Errorf("%w: ride %s is at version %d, expected %d",
			rides.ErrVersionConflict, ride.ID, current.Version, expectedVersion)
	}

	m.rides[ride.ID] = ride.Clone()
	return nil
}

// LoadByID retrieves a ride request by id
func (m *MemoryRideRepo) LoadByID(ctx context.Context, id string) (*models.RideRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rides[id]
	if !ok {
		return nil, rides.NotFoundError(id)
	}
	c := r.Clone()
	return &c, nil
}

// FindActiveByPassenger returns the passenger's non-terminal request, or nil when there is none
func (m *MemoryRideRepo) FindActiveByPassenger(ctx context.Context, passengerID string) (*models.RideRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	active := m.activeForPassenger(passengerID)
	if active == nil {
		return nil, nil
	}
	c := active.Clone()
	return &c, nil
}

// FindActiveByDriver returns every non-terminal request targeted at the driver, oldest first
func (m *MemoryRideRepo) FindActiveByDriver(ctx context.Context, driverID string) ([]*models.RideRequest, error) {
	return m.collect(func(r models.RideRequest) bool {
		return r.DriverID == driverID && r.Status.IsActive()
	}, true, 0), nil
}

// List returns requests matching filter, newest first
func (m *MemoryRideRepo) List(ctx context.Context, filter models.RideFilter) ([]*models.RideRequest, error) {
	return m.collect(func(r models.RideRequest) bool {
		if filter.PassengerID != "" && r.PassengerID != filter.PassengerID {
			return false
		}
		if filter.DriverID != "" && r.DriverID != filter.DriverID {
			return false
		}
		return len(filter.Statuses) == 0 || hasStatus(filter.Statuses, r.Status)
	}, false, filter.Limit), nil
}

// ListStale returns requests in one of statuses untouched since before
func (m *MemoryRideRepo) ListStale(ctx context.Context, statuses []models.RideStatus, before time.Time) ([]*models.RideRequest, error) {
	out := m.collect(func(r models.RideRequest) bool {
		return hasStatus(statuses, r.Status) && r.UpdatedAt.Before(before)
	}, true, 0)
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

func (m *MemoryRideRepo) activeForPassenger(passengerID string) *models.RideRequest {
	for _, r := range m.rides {
		if r.PassengerID == passengerID && r.Status.IsActive() {
			r := r
			return &r
		}
	}
	return nil
}

func (m *MemoryRideRepo) collect(match func(models.RideRequest) bool, oldestFirst bool, limit int) []*models.RideRequest {
	m.mu.RLock()
	out := make([]*models.RideRequest, 0)
	for _, r := range m.rides {
		if match(r) {
			c := r.Clone()
			out = append(out, &c)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		if oldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func hasStatus(statuses []models.RideStatus, s models.RideStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}
