package rides

import (
	"errors"
	"fmt"

	"github.com/riopardo/rides/internal/pkg/models"
)

var (
	// ErrInvalidTransition means the operation is not legal from the current state for the actor
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrValidation means the caller supplied malformed input
	ErrValidation = errors.New("validation error")
	// ErrConflictingRequest means the passenger already holds a non-terminal request
	ErrConflictingRequest = errors.New("conflicting ride request")
	// ErrNotFound means no ride request exists with the given id
	ErrNotFound = errors.New("ride request not found")
	// ErrForbidden means the actor is not the ride's passenger or driver
	ErrForbidden = errors.New("actor is not a participant of the ride")
	// ErrVersionConflict means the stored request changed since it was loaded
	ErrVersionConflict = errors.New("ride request was modified concurrently")
)

// TransitionError describes an operation attempted from a state that does not allow it
type TransitionError struct {
	RideID    string            `json:"ride_id,omitempty"`
	Operation models.Operation  `json:"operation"`
	Status    models.RideStatus `json:"status"`
	Role      models.Role       `json:"role"`
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s by %s not allowed from status %s", e.Operation, e.Role, e.Status)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ValidationError describes a malformed input field
type ValidationError struct {
	Operation models.Operation `json:"operation"`
	Field     string           `json:"field"`
	Reason    string           `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s %s", e.Operation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError reports the request already active for the passenger
type ConflictError struct {
	PassengerID  string `json:"passenger_id"`
	ActiveRideID string `json:"active_ride_id,omitempty"`
}

func (e *ConflictError) Error() string {
	if e.ActiveRideID == "" {
		return fmt.Sprintf("conflicting ride request: passenger %s already has an active request", e.PassengerID)
	}
	return fmt.Sprintf("conflicting ride request: passenger %s already has active request %s", e.PassengerID, e.ActiveRideID)
}

func (e *ConflictError) Unwrap() error { return ErrConflictingRequest }

// ForbiddenError reports an actor acting on a ride it does not take part in
type ForbiddenError struct {
	RideID    string           `json:"ride_id"`
	Operation models.Operation `json:"operation"`
	Actor     models.Actor     `json:"actor"`
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s %s is not a participant of ride %s (operation %s)", e.Actor.Role, e.Actor.ID, e.RideID, e.Operation)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// NotFoundError wraps ErrNotFound with the missing id
func NotFoundError(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// IsDomainError reports whether err is deterministic and must never be retried
func IsDomainError(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflictingRequest) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrVersionConflict)
}
