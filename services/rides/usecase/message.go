package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/internal/pkg/retry"
	"github.com/riopardo/rides/services/rides"
)

const (
	defaultMessageLimit = 100
	maxMessageLimit     = 500
)

// messageUC implements the rides.MessageUC interface
type messageUC struct {
	rideRepo rides.RideRepo
	messages rides.MessageRepo
	gw       rides.MessageGW
	retrier  *retry.Retrier
	newID    func() string
	now      func() time.Time
}

// NewMessageUC creates the ride chat use case
func NewMessageUC(
	cfg *models.Config,
	rideRepo rides.RideRepo,
	messageRepo rides.MessageRepo,
	messageGW rides.MessageGW,
) (rides.MessageUC, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if rideRepo == nil || messageRepo == nil {
		return nil, errors.New("ride and message repositories are required")
	}
	if messageGW == nil {
		return nil, errors.New("message gateway is required")
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.Rides.MaxWriteRetries
	retryCfg.IsRetryable = retry.Unless(rides.IsDomainError)

	return &messageUC{
		rideRepo: rideRepo,
		messages: messageRepo,
		gw:       messageGW,
		retrier:  retry.New(retryCfg, logger.GetGlobalLogger()),
		newID:    uuid.NewString,
		now:      models.Now,
	}, nil
}

// SendMessage stores content for the ride's other participant and pushes it
// to both sides
func (uc *messageUC) SendMessage(ctx context.Context, rideID string, actor models.Actor, content string) (*models.RideMessage, error) {
	content = strings.TrimSpace(content)
	switch {
	case content == "":
		return nil, &rides.ValidationError{Operation: models.OpSendMessage, Field: "content", Reason: "is required"}
	case utf8.RuneCountInString(content) > models.MaxMessageLength:
		return nil, &rides.ValidationError{Operation: models.OpSendMessage, Field: "content", Reason: "is too long"}
	}

	ride, err := uc.participantRide(ctx, rideID, models.OpSendMessage, actor)
	if err != nil {
		return nil, err
	}

	receiver := ride.DriverID
	if actor.Role == models.RoleDriver {
		receiver = ride.PassengerID
	}
	if receiver == "" {
		return nil, &rides.ValidationError{Operation: models.OpSendMessage, Field: "ride_id", Reason: "has no driver to talk to"}
	}

	msg := &models.RideMessage{
		ID:         uc.newID(),
		RideID:     ride.ID,
		SenderID:   actor.ID,
		SenderRole: actor.Role,
		ReceiverID: receiver,
		Content:    content,
		CreatedAt:  uc.now(),
	}
	err = uc.retrier.Execute(ctx, "send message", func(ctx context.Context) error {
		return uc.messages.Create(ctx, msg)
	})
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to store ride message",
			logger.String("ride_id", ride.ID),
			logger.String("sender_id", actor.ID),
			logger.Err(err))
		return nil, err
	}

	if err := uc.gw.PublishMessage(ctx, *msg); err != nil {
		logger.WarnCtx(ctx, "Failed to publish ride message",
			logger.String("ride_id", ride.ID),
			logger.String("message_id", msg.ID),
			logger.Err(err))
	}
	return msg, nil
}

// ListMessages returns the latest messages of a ride the actor takes part in
func (uc *messageUC) ListMessages(ctx context.Context, rideID string, actor models.Actor, limit int) ([]*models.RideMessage, error) {
	ride, err := uc.participantRide(ctx, rideID, models.OpRead, actor)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	var list []*models.RideMessage
	err = uc.retrier.Execute(ctx, "list messages", func(ctx context.Context) error {
		var listErr error
		list, listErr = uc.messages.ListByRide(ctx, ride.ID, limit)
		return listErr
	})
	return list, err
}

// participantRide loads the ride and checks actor is its passenger or driver
func (uc *messageUC) participantRide(ctx context.Context, rideID string, op models.Operation, actor models.Actor) (*models.RideRequest, error) {
	rideID = strings.TrimSpace(rideID)
	if rideID == "" {
		return nil, &rides.ValidationError{Operation: op, Field: "ride_id", Reason: "is required"}
	}

	var ride *models.RideRequest
	err := uc.retrier.Execute(ctx, "load ride", func(ctx context.Context) error {
		var loadErr error
		ride, loadErr = uc.rideRepo.LoadByID(ctx, rideID)
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleSystem || !ride.IsParticipant(actor) {
		return nil, &rides.ForbiddenError{RideID: rideID, Operation: op, Actor: actor}
	}
	return ride, nil
}
