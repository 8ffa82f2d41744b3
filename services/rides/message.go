package rides

import (
	"context"

	"github.com/riopardo/rides/internal/pkg/models"
)

// MessageHandler receives chat messages
type MessageHandler func(ctx context.Context, msg models.RideMessage)

// MessageUC defines the chat between a ride's passenger and driver
// go:generate mockgen -destination=mocks/mock_message.go -package=mocks github.com/riopardo/rides/services/rides MessageUC,MessageRepo,MessageGW
type MessageUC interface {
	// SendMessage stores content from actor to the ride's other participant
	SendMessage(ctx context.Context, rideID string, actor models.Actor, content string) (*models.RideMessage, error)
	// ListMessages returns the ride's messages, oldest first
	ListMessages(ctx context.Context, rideID string, actor models.Actor, limit int) ([]*models.RideMessage, error)
}

// MessageRepo persists chat messages
type MessageRepo interface {
	// Create inserts msg; inserting the same id twice succeeds
	Create(ctx context.Context, msg *models.RideMessage) error
	ListByRide(ctx context.Context, rideID string, limit int) ([]*models.RideMessage, error)
}

// MessageGW publishes stored chat messages
type MessageGW interface {
	PublishMessage(ctx context.Context, msg models.RideMessage) error
}

// MessageStream delivers chat messages to subscribers
type MessageStream interface {
	// SubscribeMessages registers handler for messages userID sent or
	// receives. The returned function stops delivery.
	SubscribeMessages(userID string, handler MessageHandler) (func(), error)
}
