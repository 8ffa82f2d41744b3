package models

import "time"

// Operation names a lifecycle transition
type Operation string

const (
	OpCreate         Operation = "create"
	OpProposePrice   Operation = "proposePrice"
	OpAcceptPrice    Operation = "acceptPrice"
	OpRejectPrice    Operation = "rejectPrice"
	OpAssignDriver   Operation = "assignDriver"
	OpDeclineRequest Operation = "declineRequest"
	OpStartRide      Operation = "startRide"
	OpCompleteRide   Operation = "completeRide"
	OpCancel         Operation = "cancel"
	OpExpire         Operation = "expire"

	// OpRead names read access in authorization errors; it is not a transition
	OpRead Operation = "read"
	// OpSendMessage names chat writes in errors; it is not a transition
	OpSendMessage Operation = "sendMessage"
)

// RideEvent is emitted after every successful transition
type RideEvent struct {
	RequestID   string     `json:"request_id"`
	PassengerID string     `json:"passenger_id"`
	DriverID    string     `json:"driver_id,omitempty"`
	Operation   Operation  `json:"operation"`
	Actor       Actor      `json:"actor"`
	OldStatus   RideStatus `json:"old_status,omitempty"`
	NewStatus   RideStatus `json:"new_status"`
	Version     int64      `json:"version"`
	Timestamp   time.Time  `json:"timestamp"`
	// AcceptedPrice is set on completion so fare settlement can consume it
	AcceptedPrice *Money         `json:"accepted_price,omitempty"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
}

// EventFilter selects which events a subscriber receives; zero values match everything
type EventFilter struct {
	Statuses    []RideStatus
	PassengerID string
	DriverID    string
}

// Match reports whether the event passes the filter
func (f EventFilter) Match(e RideEvent) bool {
	if f.PassengerID != "" && f.PassengerID != e.PassengerID {
		return false
	}
	if f.DriverID != "" && f.DriverID != e.DriverID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if s == e.NewStatus {
			return true
		}
	}
	return false
}
