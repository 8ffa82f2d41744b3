// Package lifecycle implements the ride request state machine.
//
// Every operation receives the current request by value and returns the next
// request together with the transition event. The input is never modified, so
// a failed call leaves the caller's copy exactly as it was.
package lifecycle

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
)

type rule struct {
	roles []models.Role
	from  []models.RideStatus
	to    models.RideStatus
}

var transitions = map[models.Operation]rule{
	models.OpCreate: {
		roles: []models.Role{models.RolePassenger},
		from:  []models.RideStatus{models.RideStatusRequesting},
		to:    models.RideStatusWaitingPrice,
	},
	models.OpProposePrice: {
		roles: []models.Role{models.RoleDriver},
		from:  []models.RideStatus{models.RideStatusWaitingPrice},
		to:    models.RideStatusPriceProposed,
	},
	models.OpAcceptPrice: {
		roles: []models.Role{models.RolePassenger},
		from:  []models.RideStatus{models.RideStatusPriceProposed},
		to:    models.RideStatusAccepted,
	},
	models.OpRejectPrice: {
		roles: []models.Role{models.RolePassenger},
		from:  []models.RideStatus{models.RideStatusPriceProposed},
		to:    models.RideStatusWaitingPrice,
	},
	models.OpAssignDriver: {
		roles: []models.Role{models.RolePassenger},
		from:  []models.RideStatus{models.RideStatusWaitingPrice},
		to:    models.RideStatusWaitingPrice,
	},
	models.OpDeclineRequest: {
		roles: []models.Role{models.RoleDriver},
		from:  []models.RideStatus{models.RideStatusWaitingPrice},
		to:    models.RideStatusRejected,
	},
	models.OpStartRide: {
		roles: []models.Role{models.RoleDriver},
		from:  []models.RideStatus{models.RideStatusAccepted},
		to:    models.RideStatusInProgress,
	},
	models.OpCompleteRide: {
		roles: []models.Role{models.RoleDriver},
		from:  []models.RideStatus{models.RideStatusInProgress},
		to:    models.RideStatusCompleted,
	},
	models.OpCancel: {
		roles: []models.Role{models.RolePassenger, models.RoleDriver},
		from:  []models.RideStatus{models.RideStatusWaitingPrice, models.RideStatusPriceProposed, models.RideStatusAccepted},
		to:    models.RideStatusCancelled,
	},
	models.OpExpire: {
		roles: []models.Role{models.RoleSystem},
		from:  []models.RideStatus{models.RideStatusWaitingPrice, models.RideStatusPriceProposed},
		to:    models.RideStatusCancelled,
	},
}

// Allowed reports whether role may run op while the request is in status
func Allowed(op models.Operation, role models.Role, status models.RideStatus) bool {
	r, ok := transitions[op]
	if !ok {
		return false
	}
	return containsRole(r.roles, role) && containsStatus(r.from, status)
}

// Target returns the status op leads to, or false for an unknown operation
func Target(op models.Operation) (models.RideStatus, bool) {
	r, ok := transitions[op]
	return r.to, ok
}

// Machine applies transitions under a configurable policy
type Machine struct {
	rejectPolicy models.RejectPolicy
	precision    uint
	now          func() time.Time
	newID        func() string
}

// Option configures a Machine
type Option func(*Machine)

// WithRejectPolicy sets what rejectPrice does with the driver
func WithRejectPolicy(p models.RejectPolicy) Option {
	return func(m *Machine) {
		if p != "" {
			m.rejectPolicy = p
		}
	}
}

// WithGeohashPrecision sets the cell size used to compare coordinate places
func WithGeohashPrecision(precision uint) Option {
	return func(m *Machine) {
		if precision > 0 {
			m.precision = precision
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithIDGenerator overrides how new request ids are assigned
func WithIDGenerator(gen func() string) Option {
	return func(m *Machine) { m.newID = gen }
}

// New creates a Machine. The default policy keeps the driver on rejectPrice.
func New(opts ...Option) *Machine {
	m := &Machine{
		rejectPolicy: models.RejectPolicyKeepDriver,
		precision:    models.DefaultGeohashPrecision,
		now:          models.Now,
		newID:        func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RejectPolicy returns the configured reject policy
func (m *Machine) RejectPolicy() models.RejectPolicy {
	return m.rejectPolicy
}

// Create opens a new request targeted at one driver, in status waitingPrice
func (m *Machine) Create(actor models.Actor, req models.CreateRideRequest) (models.RideRequest, models.RideEvent, error) {
	if !Allowed(models.OpCreate, actor.Role, models.RideStatusRequesting) {
		return models.RideRequest{}, models.RideEvent{}, &rides.TransitionError{
			Operation: models.OpCreate,
			Status:    models.RideStatusRequesting,
			Role:      actor.Role,
		}
	}
	if strings.TrimSpace(actor.ID) == "" {
		return models.RideRequest{}, models.RideEvent{}, invalid(models.OpCreate, "passenger_id", "is required")
	}
	if err := m.validatePlaces(req.Origin, req.Destination); err != nil {
		return models.RideRequest{}, models.RideEvent{}, err
	}
	driverID := strings.TrimSpace(req.DriverID)
	if driverID == "" {
		return models.RideRequest{}, models.RideEvent{}, invalid(models.OpCreate, "driver_id", "is required")
	}
	if driverID == actor.ID {
		return models.RideRequest{}, models.RideEvent{}, invalid(models.OpCreate, "driver_id", "must differ from passenger")
	}

	now := m.now()
	ride := models.RideRequest{
		ID:          m.newID(),
		PassengerID: actor.ID,
		DriverID:    driverID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Status:      models.RideStatusWaitingPrice,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ride = ride.Clone()

	return ride, m.event(models.RideStatusRequesting, ride, models.OpCreate, actor), nil
}

// ProposePrice records the driver's price offer
func (m *Machine) ProposePrice(r models.RideRequest, actor models.Actor, price float64) (models.RideRequest, models.RideEvent, error) {
	next, err := m.begin(r, models.OpProposePrice, actor)
	if err != nil {
		return r, models.RideEvent{}, err
	}
	amount, err := models.NewMoney(price)
	if err != nil {
		return r, models.RideEvent{}, invalid(models.OpProposePrice, "price", err.Error())
	}
	next.ProposedPrice = models.MoneyPtr(amount)
	return m.commit(r, next, models.OpProposePrice, actor)
}

// AcceptPrice locks in the proposed price and the passenger's payment method
func (m *Machine) AcceptPrice(r models.RideRequest, actor models.Actor, method string) (models.RideRequest, models.RideEvent, error) {
	next, err := m.begin(r, models.OpAcceptPrice, actor)
	if err != nil {
		return r, models.RideEvent{}, err
	}
	pm, ok := models.ParsePaymentMethod(method)
	if !ok {
		return r, models.RideEvent{}, invalid(models.OpAcceptPrice, "payment_method", "must be one of pix, cash")
	}
	if next.ProposedPrice == nil {
		// unreachable while invariants hold; never accept a missing price
		return r, models.RideEvent{}, m.transitionError(r, models.OpAcceptPrice, actor)
	}
	next.AcceptedPrice = models.MoneyPtr(*next.ProposedPrice)
	next.PaymentMethod = &pm
	return m.commit(r, next, models.OpAcceptPrice, actor)
}

// RejectPrice sends the request back to waitingPrice
func (m *Machine) RejectPrice(r models.RideRequest, actor models.Actor) (models.RideRequest, models.RideEvent, error) {
	next, err := m.begin(r, models.OpRejectPrice, actor)
	if err != nil {
		return r, models.RideEvent{}, err
	}
	next.ProposedPrice = nil
	if m.rejectPolicy == models.RejectPolicyClearDriver {
		next.DriverID = ""
	}
	return m.commit(r, next, models.OpRejectPrice, actor)
}

// AssignDriver targets a driverless waitingPrice request at a new driver
func (m *Machine) AssignDriver(r models.RideRequest, actor models.Actor, driverID string) (models.RideRequest, models.RideEvent, error) {
	next, err := m.begin(r, models.OpAssignDriver, actor)
	if err != nil {
		return r, models.RideEvent{}, err
	}
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return r, models.RideEvent{}, invalid(models.OpAssignDriver, "driver_id", "is required")
	}
	if driverID == r.PassengerID {
		return r, models.RideEvent{}, invalid(models.OpAssignDriver, "driver_id", "must differ from passenger")
	}
	next.DriverID = driverID
	return m.commit(r, next, models.OpAssignDriver, actor)
}

// DeclineRequest is the driver turning the request down
func (m *Machine) DeclineRequest(r models.RideRequest, actor models.Actor) (models.RideRequest, models.RideEvent, error) {
	next, err := m.begin(r, models.OpDeclineRequest, actor)
	if err != nil {
		return r, models.RideEvent{}, err
	}
	return m.commit(r, next, models.OpDeclineRequest, actor)
}

// StartRide marks the passenger as picked up
func (m *Machine) StartRide(r models.RideRequest, actor models.Actor) (models.RideRequest, models.RideEvent, error) {
	next, err := m.begin(r, models.OpStartRide, actor)
	if err != nil {
		return r, models.RideEvent{}, err
	}
	return m.commit(r, next, models.OpStartRide, actor)
}

// CompleteRide ends the trip; the event carries what fare settlement needs
func (m *Machine) CompleteRide(r models.RideRequest, actor models.Actor) (models.RideRequest, models.RideEvent, error) {
	next, err := m.begin(r, models.OpCompleteRide, actor)
	if err != nil {
		return r, models.RideEvent{}, err
	}
	return m.commit(r, next, models.OpCompleteRide, actor)
}

// Cancel terminates a request that has not started yet
func (m *Machine) Cancel(r models.RideRequest, actor models.Actor) (models.RideRequest, models.RideEvent, error) {
	return m.terminate(r, models.OpCancel, actor)
}

// Expire cancels a request whose driver never answered in time
func (m *Machine) Expire(r models.RideRequest) (models.RideRequest, models.RideEvent, error) {
	return m.terminate(r, models.OpExpire, models.System)
}

func (m *Machine) terminate(r models.RideRequest, op models.Operation, actor models.Actor) (models.RideRequest, models.RideEvent, error) {
	next, err := m.begin(r, op, actor)
	if err != nil {
		return r, models.RideEvent{}, err
	}
	// prices only survive along the accepted branch
	next.ProposedPrice = nil
	next.AcceptedPrice = nil
	role := actor.Role
	next.CancelledBy = &role
	return m.commit(r, next, op, actor)
}

// begin checks the transition table, the operation's guards and the actor's
// participation, and returns a private copy to mutate.
func (m *Machine) begin(r models.RideRequest, op models.Operation, actor models.Actor) (models.RideRequest, error) {
	if !Allowed(op, actor.Role, r.Status) {
		return r, m.transitionError(r, op, actor)
	}
	switch op {
	case models.OpAssignDriver:
		if r.DriverID != "" {
			return r, m.transitionError(r, op, actor)
		}
	case models.OpProposePrice, models.OpDeclineRequest:
		if r.DriverID == "" {
			return r, m.transitionError(r, op, actor)
		}
	}
	if !r.IsParticipant(actor) {
		return r, &rides.ForbiddenError{RideID: r.ID, Operation: op, Actor: actor}
	}
	return r.Clone(), nil
}

func (m *Machine) commit(prev, next models.RideRequest, op models.Operation, actor models.Actor) (models.RideRequest, models.RideEvent, error) {
	next.Status = transitions[op].to
	next.Version = prev.Version + 1
	next.UpdatedAt = m.now()
	return next, m.event(prev.Status, next, op, actor), nil
}

func (m *Machine) event(old models.RideStatus, r models.RideRequest, op models.Operation, actor models.Actor) models.RideEvent {
	e := models.RideEvent{
		RequestID:   r.ID,
		PassengerID: r.PassengerID,
		DriverID:    r.DriverID,
		Operation:   op,
		Actor:       actor,
		OldStatus:   old,
		NewStatus:   r.Status,
		Version:     r.Version,
		Timestamp:   r.UpdatedAt,
	}
	if r.AcceptedPrice != nil {
		e.AcceptedPrice = models.MoneyPtr(*r.AcceptedPrice)
	}
	if r.PaymentMethod != nil {
		pm := *r.PaymentMethod
		e.PaymentMethod = &pm
	}
	return e
}

func (m *Machine) transitionError(r models.RideRequest, op models.Operation, actor models.Actor) error {
	return &rides.TransitionError{RideID: r.ID, Operation: op, Status: r.Status, Role: actor.Role}
}

func (m *Machine) validatePlaces(origin, destination models.Place) error {
	if origin.IsEmpty() {
		return invalid(models.OpCreate, "origin", "is required")
	}
	if destination.IsEmpty() {
		return invalid(models.OpCreate, "destination", "is required")
	}
	if origin.Coordinates != nil && !origin.Coordinates.Valid() {
		return invalid(models.OpCreate, "origin", "coordinates out of range")
	}
	if destination.Coordinates != nil && !destination.Coordinates.Valid() {
		return invalid(models.OpCreate, "destination", "coordinates out of range")
	}
	if models.SamePlace(origin, destination, m.precision) {
		return invalid(models.OpCreate, "destination", "must differ from origin")
	}
	return nil
}

func invalid(op models.Operation, field, reason string) error {
	return &rides.ValidationError{Operation: op, Field: field, Reason: reason}
}

func containsRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func containsStatus(statuses []models.RideStatus, status models.RideStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
