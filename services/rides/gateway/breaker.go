package gateway

import (
	"context"

	"github.com/riopardo/rides/internal/pkg/circuitbreaker"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
)

// GuardedGW stops publishing to a broker that keeps failing. While the
// circuit is open transitions are committed without a publish attempt.
type GuardedGW struct {
	next    rides.RideGW
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedGW wraps next with breaker
func NewGuardedGW(next rides.RideGW, breaker *circuitbreaker.CircuitBreaker) *GuardedGW {
	return &GuardedGW{next: next, breaker: breaker}
}

// PublishTransition forwards event unless the circuit is open
func (g *GuardedGW) PublishTransition(ctx context.Context, event models.RideEvent) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.PublishTransition(ctx, event)
	})
}

// GuardedMessageGW is GuardedGW for chat messages. Sharing one breaker with
// the transition gateway trips both when the broker is down.
type GuardedMessageGW struct {
	next    rides.MessageGW
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedMessageGW wraps next with breaker
func NewGuardedMessageGW(next rides.MessageGW, breaker *circuitbreaker.CircuitBreaker) *GuardedMessageGW {
	return &GuardedMessageGW{next: next, breaker: breaker}
}

// PublishMessage forwards msg unless the circuit is open
func (g *GuardedMessageGW) PublishMessage(ctx context.Context, msg models.RideMessage) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.PublishMessage(ctx, msg)
	})
}
