package rides

import (
	"context"

	"github.com/riopardo/rides/internal/pkg/models"
)

// EventHandler receives ride transition events
type EventHandler func(ctx context.Context, event models.RideEvent)

// RideGW defines the interface for publishing ride transitions
// go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/riopardo/rides/services/rides RideGW
type RideGW interface {
	PublishTransition(ctx context.Context, event models.RideEvent) error
}

// RideStream delivers transition events to subscribers
type RideStream interface {
	// Subscribe registers handler for events matching filter. The returned
	// function stops delivery.
	Subscribe(filter models.EventFilter, handler EventHandler) (func(), error)
}
