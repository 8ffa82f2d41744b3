package models

import (
	"time"
)

// RideStatus represents the status of a ride request
type RideStatus string

const (
	RideStatusRequesting    RideStatus = "requesting"
	RideStatusWaitingPrice  RideStatus = "waitingPrice"
	RideStatusPriceProposed RideStatus = "priceProposed"
	RideStatusAccepted      RideStatus = "accepted"
	RideStatusInProgress    RideStatus = "inProgress"
	RideStatusCompleted     RideStatus = "completed"
	RideStatusRejected      RideStatus = "rejected"
	RideStatusCancelled     RideStatus = "cancelled"
)

// ActiveRideStatuses lists every non-terminal status a stored request can hold
var ActiveRideStatuses = []RideStatus{
	RideStatusWaitingPrice,
	RideStatusPriceProposed,
	RideStatusAccepted,
	RideStatusInProgress,
}

// IsTerminal reports whether no further transition is possible from s
func (s RideStatus) IsTerminal() bool {
	switch s {
	case RideStatusCompleted, RideStatusRejected, RideStatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether s is a stored, non-terminal status
func (s RideStatus) IsActive() bool {
	for _, st := range ActiveRideStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known statuses
func (s RideStatus) Valid() bool {
	return s == RideStatusRequesting || s.IsActive() || s.IsTerminal()
}

// Role identifies which party invokes an operation
type Role string

const (
	RolePassenger Role = "passenger"
	RoleDriver    Role = "driver"
	RoleSystem    Role = "system"
)

// Actor is the caller-asserted identity attached to every operation
type Actor struct {
	Role Role   `json:"role"`
	ID   string `json:"id"`
}

// Passenger returns a passenger actor
func Passenger(id string) Actor {
	return Actor{Role: RolePassenger, ID: id}
}

// Driver returns a driver actor
func Driver(id string) Actor {
	return Actor{Role: RoleDriver, ID: id}
}

// System is the actor used for timeout-driven transitions
var System = Actor{Role: RoleSystem, ID: "system"}

// PaymentMethod is how the passenger settles the fare
type PaymentMethod string

const (
	PaymentMethodPix  PaymentMethod = "pix"
	PaymentMethodCash PaymentMethod = "cash"
)

// ParsePaymentMethod returns the payment method named by s, or false if unsupported
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentMethodPix, PaymentMethodCash:
		return PaymentMethod(s), true
	}
	return "", false
}

// RideRequest is the aggregate tracking one passenger's negotiation with one driver
type RideRequest struct {
	ID            string         `json:"id" db:"id"`
	PassengerID   string         `json:"passenger_id" db:"passenger_id"`
	DriverID      string         `json:"driver_id,omitempty" db:"driver_id"`
	Origin        Place          `json:"origin"`
	Destination   Place          `json:"destination"`
	Status        RideStatus     `json:"status" db:"status"`
	ProposedPrice *Money         `json:"proposed_price,omitempty"`
	AcceptedPrice *Money         `json:"accepted_price,omitempty"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	CancelledBy   *Role          `json:"cancelled_by,omitempty"`
	Version       int64          `json:"version" db:"version"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
	// WriteID names the write that produced Version. A retried write carries
	// the same id, a competing write at the same version does not.
	WriteID       string         `json:"-" db:"write_id"`
}

// Clone returns a deep copy of the ride request
func (r RideRequest) Clone() RideRequest {
	c := r
	if r.ProposedPrice != nil {
		p := *r.ProposedPrice
		c.ProposedPrice = &p
	}
	if r.AcceptedPrice != nil {
		p := *r.AcceptedPrice
		c.AcceptedPrice = &p
	}
	if r.PaymentMethod != nil {
		m := *r.PaymentMethod
		c.PaymentMethod = &m
	}
	if r.CancelledBy != nil {
		role := *r.CancelledBy
		c.CancelledBy = &role
	}
	if r.Origin.Coordinates != nil {
		coords := *r.Origin.Coordinates
		c.Origin.Coordinates = &coords
	}
	if r.Destination.Coordinates != nil {
		coords := *r.Destination.Coordinates
		c.Destination.Coordinates = &coords
	}
	return c
}

// IsParticipant reports whether the actor is the ride's passenger or driver
func (r RideRequest) IsParticipant(a Actor) bool {
	switch a.Role {
	case RolePassenger:
		return a.ID != "" && a.ID == r.PassengerID
	case RoleDriver:
		return a.ID != "" && a.ID == r.DriverID
	case RoleSystem:
		return true
	}
	return false
}

// RideFilter narrows ride listings
type RideFilter struct {
	PassengerID string       `query:"passenger_id"`
	DriverID    string       `query:"driver_id"`
	Statuses    []RideStatus `query:"status"`
	Limit       int          `query:"limit"`
}

// CreateRideRequest is the payload a passenger sends to open a ride request
type CreateRideRequest struct {
	Origin      Place  `json:"origin"`
	Destination Place  `json:"destination"`
	DriverID    string `json:"driver_id"`
}

// ProposePriceRequest is the driver's price offer
type ProposePriceRequest struct {
	Price float64 `json:"price"`
}

// AcceptPriceRequest is the passenger's acceptance payload
type AcceptPriceRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// AssignDriverRequest re-targets a request at another driver
type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
}
