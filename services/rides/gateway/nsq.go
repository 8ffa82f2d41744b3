package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/riopardo/rides/internal/pkg/constants"
	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"

	nsqpkg "github.com/riopardo/rides/internal/pkg/nsq"
)

// Publisher is the part of an NSQ producer the gateway needs
type Publisher interface {
	Publish(topic string, message interface{}) error
}

// NSQGateway publishes every transition on the ride_status topic and chat on
// ride_message. Each subscriber reads from its own ephemeral channel, so all
// of them see every event.
type NSQGateway struct {
	producer Publisher
	cfg      models.NSQConfig
}

// NewNSQGateway creates a ride gateway over an NSQ producer
func NewNSQGateway(producer Publisher, cfg models.NSQConfig) *NSQGateway {
	return &NSQGateway{producer: producer, cfg: cfg}
}

// PublishTransition sends event to the ride_status topic
func (g *NSQGateway) PublishTransition(ctx context.Context, event models.RideEvent) error {
	if err := g.producer.Publish(constants.TopicRideStatus, event); err != nil {
		return fmt.Errorf("failed to publish ride %s transition to nsq: %w", event.RequestID, err)
	}
	return nil
}

// Subscribe starts a consumer on a fresh ephemeral channel
func (g *NSQGateway) Subscribe(filter models.EventFilter, handler rides.EventHandler) (func(), error) {
	consumer, err := nsqpkg.NewConsumer(constants.TopicRideStatus, ephemeralChannel(),
		g.cfg.NSQDAddress, g.cfg.LookupAddresses, decodeNSQ(Monotonic(filter, handler)))
	if err != nil {
		return nil, err
	}
	return consumer.Stop, nil
}

// decodeNSQ turns raw message bodies into events. Undecodable bodies are
// logged and acknowledged so they are not redelivered forever.
func decodeNSQ(handler rides.EventHandler) nsqpkg.MessageHandler {
	return func(body []byte) error {
		var event models.RideEvent
		if err := nsqpkg.UnmarshalMessage(body, &event); err != nil {
			logger.Error("Failed to decode ride event", logger.String("topic", constants.TopicRideStatus), logger.Err(err))
			return nil
		}
		handler(context.Background(), event)
		return nil
	}
}

// PublishMessage sends msg to the ride_message topic
func (g *NSQGateway) PublishMessage(ctx context.Context, msg models.RideMessage) error {
	if err := g.producer.Publish(constants.TopicRideMessage, msg); err != nil {
		return fmt.Errorf("failed to publish message %s for ride %s to nsq: %w", msg.ID, msg.RideID, err)
	}
	return nil
}

// SubscribeMessages starts a consumer on a fresh ephemeral channel of the
// ride_message topic and keeps the messages userID sent or receives
func (g *NSQGateway) SubscribeMessages(userID string, handler rides.MessageHandler) (func(), error) {
	consumer, err := nsqpkg.NewConsumer(constants.TopicRideMessage, ephemeralChannel(),
		g.cfg.NSQDAddress, g.cfg.LookupAddresses, decodeNSQMessage(userID, handler))
	if err != nil {
		return nil, err
	}
	return consumer.Stop, nil
}

func decodeNSQMessage(userID string, handler rides.MessageHandler) nsqpkg.MessageHandler {
	return func(body []byte) error {
		var msg models.RideMessage
		if err := nsqpkg.UnmarshalMessage(body, &msg); err != nil {
			logger.Error("Failed to decode ride message", logger.String("topic", constants.TopicRideMessage), logger.Err(err))
			return nil
		}
		if msg.Involves(userID) {
			handler(context.Background(), msg)
		}
		return nil
	}
}

func ephemeralChannel() string {
	return constants.ChannelRideStatusPrefix +
		strings.ReplaceAll(uuid.NewString(), "-", "")[:12] +
		constants.ChannelEphemeralSuffix
}
