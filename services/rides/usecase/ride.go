package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riopardo/rides/internal/pkg/keylock"
	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/internal/pkg/retry"
	"github.com/riopardo/rides/services/rides"
	"github.com/riopardo/rides/services/rides/lifecycle"
)

const (
	// maxConflictAttempts bounds how often a transition is re-applied after
	// losing an optimistic concurrency race against another instance
	maxConflictAttempts = 3

	defaultListLimit = 50
	maxListLimit     = 200
)

type transitionFunc func(r models.RideRequest) (models.RideRequest, models.RideEvent, error)

// rideUC implements the rides.RideUC interface
type rideUC struct {
	cfg     *models.Config
	repo    rides.RideRepo
	gw      rides.RideGW
	machine *lifecycle.Machine
	locks   *keylock.Locker
	retrier *retry.Retrier
	now     func() time.Time
}

// Option customizes the use case
type Option func(*rideUC)

// WithMachine replaces the state machine built from configuration
func WithMachine(m *lifecycle.Machine) Option {
	return func(uc *rideUC) { uc.machine = m }
}

// WithClock overrides the clock used to find stale requests
func WithClock(now func() time.Time) Option {
	return func(uc *rideUC) { uc.now = now }
}

// WithRetrier overrides the store retry policy
func WithRetrier(r *retry.Retrier) Option {
	return func(uc *rideUC) { uc.retrier = r }
}

// NewRideUC creates a new ride use case
func NewRideUC(
	cfg *models.Config,
	rideRepo rides.RideRepo,
	rideGW rides.RideGW,
	opts ...Option,
) (rides.RideUC, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if rideRepo == nil {
		return nil, errors.New("ride repository is required")
	}
	if rideGW == nil {
		return nil, errors.New("ride gateway is required")
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.Rides.MaxWriteRetries
	retryCfg.IsRetryable = retry.Unless(rides.IsDomainError)

	uc := &rideUC{
		cfg:  cfg,
		repo: rideRepo,
		gw:   rideGW,
		machine: lifecycle.New(
			lifecycle.WithRejectPolicy(cfg.Rides.RejectPolicy),
			lifecycle.WithGeohashPrecision(cfg.Rides.GeohashPrecision),
		),
		locks:   keylock.New(),
		retrier: retry.New(retryCfg, logger.GetGlobalLogger()),
		now:     models.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc, nil
}

// RequestRide opens a request from the passenger to one driver
func (uc *rideUC) RequestRide(ctx context.Context, actor models.Actor, req models.CreateRideRequest) (*models.RideRequest, error) {
	ride, event, err := uc.machine.Create(actor, req)
	if err != nil {
		logger.WarnCtx(ctx, "Rejected ride request",
			logger.String("passenger_id", actor.ID),
			logger.Err(err))
		return nil, err
	}

	// one passenger creating twice at once must not slip past the active check
	unlock, err := uc.locks.Lock(ctx, "passenger:"+actor.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var active *models.RideRequest
	err = uc.retrier.Execute(ctx, "find active ride", func(ctx context.Context) error {
		var findErr error
		active, findErr = uc.repo.FindActiveByPassenger(ctx, actor.ID)
		return findErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check active rides: %w", err)
	}
	if active != nil {
		return nil, &rides.ConflictError{PassengerID: actor.ID, ActiveRideID: active.ID}
	}

	ride.WriteID = uuid.NewString()
	err = uc.retrier.Execute(ctx, "create ride", func(ctx context.Context) error {
		return uc.repo.Create(ctx, &ride)
	})
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to create ride",
			logger.String("ride_id", ride.ID),
			logger.String("passenger_id", actor.ID),
			logger.Err(err))
		return nil, err
	}

	logger.InfoCtx(ctx, "Ride requested",
		logger.String("ride_id", ride.ID),
		logger.String("passenger_id", ride.PassengerID),
		logger.String("driver_id", ride.DriverID))
	uc.publish(ctx, event)
	return &ride, nil
}

// ProposePrice records the driver's offer
func (uc *rideUC) ProposePrice(ctx context.Context, rideID string, actor models.Actor, price float64) (*models.RideRequest, error) {
	return uc.apply(ctx, rideID, models.OpProposePrice, func(r models.RideRequest) (models.RideRequest, models.RideEvent, error) {
		return uc.machine.ProposePrice(r, actor, price)
	})
}

// AcceptPrice locks in the proposed price
func (uc *rideUC) AcceptPrice(ctx context.Context, rideID string, actor models.Actor, paymentMethod string) (*models.RideRequest, error) {
	return uc.apply(ctx, rideID, models.OpAcceptPrice, func(r models.RideRequest) (models.RideRequest, models.RideEvent, error) {
		return uc.machine.AcceptPrice(r, actor, paymentMethod)
	})
}

// RejectPrice sends the request back to waitingPrice
func (uc *rideUC) RejectPrice(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error) {
	return uc.apply(ctx, rideID, models.OpRejectPrice, func(r models.RideRequest) (models.RideRequest, models.RideEvent, error) {
		return uc.machine.RejectPrice(r, actor)
	})
}

// AssignDriver targets a driverless request at a new driver
func (uc *rideUC) AssignDriver(ctx context.Context, rideID string, actor models.Actor, driverID string) (*models.RideRequest, error) {
	return uc.apply(ctx, rideID, models.OpAssignDriver, func(r models.RideRequest) (models.RideRequest, models.RideEvent, error) {
		return uc.machine.AssignDriver(r, actor, driverID)
	})
}

// DeclineRequest is the driver turning the request down
func (uc *rideUC) DeclineRequest(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error) {
	return uc.apply(ctx, rideID, models.OpDeclineRequest, func(r models.RideRequest) (models.RideRequest, models.RideEvent, error) {
		return uc.machine.DeclineRequest(r, actor)
	})
}

// StartRide marks the passenger as picked up
func (uc *rideUC) StartRide(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error) {
	return uc.apply(ctx, rideID, models.OpStartRide, func(r models.RideRequest) (models.RideRequest, models.RideEvent, error) {
		return uc.machine.StartRide(r, actor)
	})
}

// CompleteRide ends the trip
func (uc *rideUC) CompleteRide(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error) {
	return uc.apply(ctx, rideID, models.OpCompleteRide, func(r models.RideRequest) (models.RideRequest, models.RideEvent, error) {
		return uc.machine.CompleteRide(r, actor)
	})
}

// Cancel terminates a request that has not started yet
func (uc *rideUC) Cancel(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error) {
	return uc.apply(ctx, rideID, models.OpCancel, func(r models.RideRequest) (models.RideRequest, models.RideEvent, error) {
		return uc.machine.Cancel(r, actor)
	})
}

// apply runs one transition on the stored request. Transitions on the same id
// are serialized in process by the key lock and across processes by the
// version check in the store; a lost race reloads and re-applies. Each write
// is stamped with a fresh write id so the store can tell a retry of our own
// committed write from another instance's write at the same version.
func (uc *rideUC) apply(ctx context.Context, rideID string, op models.Operation, fn transitionFunc) (*models.RideRequest, error) {
	rideID = strings.TrimSpace(rideID)
	if rideID == "" {
		return nil, &rides.ValidationError{Operation: op, Field: "ride_id", Reason: "is required"}
	}

	unlock, err := uc.locks.Lock(ctx, rideID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 1; ; attempt++ {
		current, err := uc.load(ctx, rideID)
		if err != nil {
			return nil, err
		}

		next, event, err := fn(*current)
		if err != nil {
			logger.WarnCtx(ctx, "Rejected ride transition",
				logger.String("ride_id", rideID),
				logger.String("operation", string(op)),
				logger.String("status", string(current.Status)),
				logger.Err(err))
			return nil, err
		}

		// retries of this attempt reuse the id, a re-applied attempt gets a new one
		next.WriteID = uuid.NewString()
		err = uc.retrier.Execute(ctx, string(op), func(ctx context.Context) error {
			return uc.repo.Update(ctx, &next, current.Version)
		})
		if errors.Is(err, rides.ErrVersionConflict) && attempt < maxConflictAttempts {
			logger.WarnCtx(ctx, "Ride changed concurrently, re-applying",
				logger.String("ride_id", rideID),
				logger.String("operation", string(op)),
				logger.Int("attempt", attempt))
			continue
		}
		if err != nil {
			logger.ErrorCtx(ctx, "Failed to save ride transition",
				logger.String("ride_id", rideID),
				logger.String("operation", string(op)),
				logger.Err(err))
			return nil, err
		}

		logger.InfoCtx(ctx, "Ride transitioned",
			logger.String("ride_id", rideID),
			logger.String("operation", string(op)),
			logger.String("old_status", string(event.OldStatus)),
			logger.String("new_status", string(event.NewStatus)),
			logger.Int64("version", next.Version))
		uc.publish(ctx, event)
		return &next, nil
	}
}

func (uc *rideUC) load(ctx context.Context, rideID string) (*models.RideRequest, error) {
	var ride *models.RideRequest
	err := uc.retrier.Execute(ctx, "load ride", func(ctx context.Context) error {
		var loadErr error
		ride, loadErr = uc.repo.LoadByID(ctx, rideID)
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	return ride, nil
}

// publish is fire-and-forget: the transition is already durable
func (uc *rideUC) publish(ctx context.Context, event models.RideEvent) {
	if err := uc.gw.PublishTransition(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish ride transition",
			logger.String("ride_id", event.RequestID),
			logger.String("new_status", string(event.NewStatus)),
			logger.Err(err))
	}
}

// GetRide returns the ride if the actor takes part in it
func (uc *rideUC) GetRide(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error) {
	ride, err := uc.load(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleSystem || !ride.IsParticipant(actor) {
		return nil, &rides.ForbiddenError{RideID: rideID, Operation: models.OpRead, Actor: actor}
	}
	return ride, nil
}

// GetActiveRide returns the actor's current ride. For a driver an accepted or
// in-progress ride wins over pending requests.
func (uc *rideUC) GetActiveRide(ctx context.Context, actor models.Actor) (*models.RideRequest, error) {
	switch actor.Role {
	case models.RolePassenger:
		var ride *models.RideRequest
		err := uc.retrier.Execute(ctx, "find active ride", func(ctx context.Context) error {
			var findErr error
			ride, findErr = uc.repo.FindActiveByPassenger(ctx, actor.ID)
			return findErr
		})
		if err != nil {
			return nil, err
		}
		if ride == nil {
			return nil, fmt.Errorf("%w: no active ride for passenger %s", rides.ErrNotFound, actor.ID)
		}
		return ride, nil

	case models.RoleDriver:
		list, err := uc.findActiveByDriver(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range list {
			if r.Status == models.RideStatusAccepted || r.Status == models.RideStatusInProgress {
				return r, nil
			}
		}
		if len(list) > 0 {
			return list[0], nil
		}
		return nil, fmt.Errorf("%w: no active ride for driver %s", rides.ErrNotFound, actor.ID)
	}
	return nil, &rides.ValidationError{Operation: models.OpRead, Field: "role", Reason: "must be passenger or driver"}
}

// ListRides returns the actor's own rides matching filter
func (uc *rideUC) ListRides(ctx context.Context, actor models.Actor, filter models.RideFilter) ([]*models.RideRequest, error) {
	switch actor.Role {
	case models.RolePassenger:
		filter.PassengerID = actor.ID
	case models.RoleDriver:
		filter.DriverID = actor.ID
	default:
		return nil, &rides.ValidationError{Operation: models.OpRead, Field: "role", Reason: "must be passenger or driver"}
	}
	for _, s := range filter.Statuses {
		if !s.Valid() || s == models.RideStatusRequesting {
			return nil, &rides.ValidationError{Operation: models.OpRead, Field: "status", Reason: fmt.Sprintf("unknown status %q", s)}
		}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	var list []*models.RideRequest
	err := uc.retrier.Execute(ctx, "list rides", func(ctx context.Context) error {
		var listErr error
		list, listErr = uc.repo.List(ctx, filter)
		return listErr
	})
	return list, err
}

// ListDriverInbox returns the requests waiting on the driver's price
func (uc *rideUC) ListDriverInbox(ctx context.Context, actor models.Actor) ([]*models.RideRequest, error) {
	if actor.Role != models.RoleDriver {
		return nil, &rides.ForbiddenError{Operation: models.OpRead, Actor: actor}
	}
	list, err := uc.findActiveByDriver(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	inbox := make([]*models.RideRequest, 0, len(list))
	for _, r := range list {
		if r.Status == models.RideStatusWaitingPrice {
			inbox = append(inbox, r)
		}
	}
	return inbox, nil
}

func (uc *rideUC) findActiveByDriver(ctx context.Context, driverID string) ([]*models.RideRequest, error) {
	var list []*models.RideRequest
	err := uc.retrier.Execute(ctx, "find driver rides", func(ctx context.Context) error {
		var findErr error
		list, findErr = uc.repo.FindActiveByDriver(ctx, driverID)
		return findErr
	})
	return list, err
}
