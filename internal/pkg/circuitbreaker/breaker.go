package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/riopardo/rides/internal/pkg/logger"
)

// State represents the circuit breaker state
type State int

const (
	// StateClosed allows calls to pass through
	StateClosed State = iota
	// StateOpen rejects calls immediately
	StateOpen
	// StateHalfOpen lets a single trial call through
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpen is returned while the circuit rejects calls
var ErrOpen = errors.New("circuit breaker is open")

// Config holds circuit breaker configuration
type Config struct {
	Name             string        // used in logs
	FailureThreshold uint32        // consecutive failures that open the circuit
	Timeout          time.Duration // time spent open before a trial call is allowed
}

// DefaultConfig returns a default circuit breaker configuration
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
	}
}

// CircuitBreaker stops calling a failing dependency for a while
type CircuitBreaker struct {
	config Config
	now    func() time.Time

	mu            sync.Mutex
	state         State
	failures      uint32
	openedAt      time.Time
	trialInFlight bool
}

// New creates a new circuit breaker
func New(config Config) *CircuitBreaker {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &CircuitBreaker{config: config, now: time.Now}
}

// Execute runs fn unless the circuit is open, in which case it returns ErrOpen
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.before(); err != nil {
		return err
	}
	err := fn(ctx)
	cb.after(err)
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.config.Timeout {
			return ErrOpen
		}
		cb.setState(StateHalfOpen)
		cb.trialInFlight = true
	case StateHalfOpen:
		if cb.trialInFlight {
			return ErrOpen
		}
		cb.trialInFlight = true
	}
	return nil
}

func (cb *CircuitBreaker) after(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.trialInFlight = false
		if err != nil {
			cb.open()
			return
		}
		cb.failures = 0
		cb.setState(StateClosed)
		return
	}

	if err == nil {
		cb.failures = 0
		return
	}
	cb.failures++
	if cb.failures >= cb.config.FailureThreshold {
		cb.open()
	}
}

func (cb *CircuitBreaker) open() {
	cb.openedAt = cb.now()
	cb.setState(StateOpen)
}

func (cb *CircuitBreaker) setState(state State) {
	if cb.state == state {
		return
	}
	prev := cb.state
	cb.state = state

	logger.Info("Circuit breaker state changed",
		logger.String("name", cb.config.Name),
		logger.String("from", prev.String()),
		logger.String("to", state.String()),
		logger.Int64("consecutive_failures", int64(cb.failures)))
}

// State returns the current state of the circuit breaker
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Name returns the circuit breaker name
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}
