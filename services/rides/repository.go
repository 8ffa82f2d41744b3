package rides

import (
	"context"
	"time"

	"github.com/riopardo/rides/internal/pkg/models"
)

// RideRepo defines the interface for ride request persistence.
//
// Create and Update are idempotent: repeating a write that already committed
// succeeds. Update fails with ErrVersionConflict when the stored version is
// neither expectedVersion nor the ride's own version.
// go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/riopardo/rides/services/rides RideRepo
type RideRepo interface {
	Create(ctx context.Context, ride *models.RideRequest) error
	Update(ctx context.Context, ride *models.RideRequest, expectedVersion int64) error
	LoadByID(ctx context.Context, id string) (*models.RideRequest, error)
	// FindActiveByPassenger returns nil, nil when the passenger has no active request
	FindActiveByPassenger(ctx context.Context, passengerID string) (*models.RideRequest, error)
	FindActiveByDriver(ctx context.Context, driverID string) ([]*models.RideRequest, error)
	List(ctx context.Context, filter models.RideFilter) ([]*models.RideRequest, error)
	ListStale(ctx context.Context, statuses []models.RideStatus, before time.Time) ([]*models.RideRequest, error)
}
