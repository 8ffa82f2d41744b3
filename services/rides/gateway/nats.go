package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/riopardo/rides/internal/pkg/constants"
	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"

	natspkg "github.com/riopardo/rides/internal/pkg/nats"
)

// NATSGateway publishes every transition on ride.status.<newStatus>
type NATSGateway struct {
	nc *natspkg.Client
}

// NewNATSGateway creates a ride gateway over an established NATS client
func NewNATSGateway(nc *natspkg.Client) *NATSGateway {
	return &NATSGateway{nc: nc}
}

// PublishTransition sends event on the subject of its new status
func (g *NATSGateway) PublishTransition(ctx context.Context, event models.RideEvent) error {
	subject := constants.RideStatusSubject(string(event.NewStatus))
	if err := g.nc.PublishJSON(subject, event); err != nil {
		return fmt.Errorf("failed to publish %s for ride %s: %w", subject, event.RequestID, err)
	}
	return nil
}

// Subscribe listens on the subjects selected by filter. Without a status
// filter it listens on every ride status subject.
func (g *NATSGateway) Subscribe(filter models.EventFilter, handler rides.EventHandler) (func(), error) {
	deliver := Monotonic(filter, handler)
	msgHandler := func(msg *nats.Msg) {
		var event models.RideEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to decode ride event",
				logger.String("subject", msg.Subject),
				logger.Err(err))
			return
		}
		deliver(context.Background(), event)
	}

	subjects := []string{constants.SubjectRideStatusAll}
	if len(filter.Statuses) > 0 {
		subjects = subjects[:0]
		for _, s := range filter.Statuses {
			subjects = append(subjects, constants.RideStatusSubject(string(s)))
		}
	}

	subs := make([]*nats.Subscription, 0, len(subjects))
	unsubscribe := func() {
		for _, sub := range subs {
			if err := sub.Unsubscribe(); err != nil {
				logger.Warn("Failed to unsubscribe", logger.String("subject", sub.Subject), logger.Err(err))
			}
		}
	}
	for _, subject := range subjects {
		sub, err := g.nc.Subscribe(subject, msgHandler)
		if err != nil {
			unsubscribe()
			return nil, err
		}
		subs = append(subs, sub)
	}
	return unsubscribe, nil
}

// PublishMessage sends msg on the ride message subject
func (g *NATSGateway) PublishMessage(ctx context.Context, msg models.RideMessage) error {
	if err := g.nc.PublishJSON(constants.SubjectRideMessage, msg); err != nil {
		return fmt.Errorf("failed to publish message %s for ride %s: %w", msg.ID, msg.RideID, err)
	}
	return nil
}

// SubscribeMessages listens on the ride message subject and keeps the
// messages userID sent or receives
func (g *NATSGateway) SubscribeMessages(userID string, handler rides.MessageHandler) (func(), error) {
	sub, err := g.nc.Subscribe(constants.SubjectRideMessage, func(m *nats.Msg) {
		var msg models.RideMessage
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			logger.Error("Failed to decode ride message",
				logger.String("subject", m.Subject),
				logger.Err(err))
			return
		}
		if msg.Involves(userID) {
			handler(context.Background(), msg)
		}
	})
	if err != nil {
		return nil, err
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", logger.String("subject", sub.Subject), logger.Err(err))
		}
	}, nil
}
