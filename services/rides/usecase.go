package rides

import (
	"context"

	"github.com/riopardo/rides/internal/pkg/models"
)

// RideUC defines the interface for ride lifecycle business logic
// go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/riopardo/rides/services/rides RideUC
type RideUC interface {
	RequestRide(ctx context.Context, actor models.Actor, req models.CreateRideRequest) (*models.RideRequest, error)
	ProposePrice(ctx context.Context, rideID string, actor models.Actor, price float64) (*models.RideRequest, error)
	AcceptPrice(ctx context.Context, rideID string, actor models.Actor, paymentMethod string) (*models.RideRequest, error)
	RejectPrice(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error)
	AssignDriver(ctx context.Context, rideID string, actor models.Actor, driverID string) (*models.RideRequest, error)
	DeclineRequest(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error)
	StartRide(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error)
	CompleteRide(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error)
	Cancel(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error)

	GetRide(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error)
	GetActiveRide(ctx context.Context, actor models.Actor) (*models.RideRequest, error)
	ListRides(ctx context.Context, actor models.Actor, filter models.RideFilter) ([]*models.RideRequest, error)
	ListDriverInbox(ctx context.Context, actor models.Actor) ([]*models.RideRequest, error)

	// ExpireStale cancels every unanswered request older than the price timeout
	ExpireStale(ctx context.Context) (int, error)
	// RunExpiry calls ExpireStale on every tick until ctx is done
	RunExpiry(ctx context.Context) error
}
