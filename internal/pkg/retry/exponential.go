package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/riopardo/rides/internal/pkg/logger"
)

// RetryableFunc represents a function that can be retried
type RetryableFunc func(ctx context.Context) error

// Config holds retry configuration
type Config struct {
	MaxRetries  int              // Maximum number of retry attempts after the first call
	BaseDelay   time.Duration    // Base delay between retries
	MaxDelay    time.Duration    // Maximum delay between retries
	Multiplier  float64          // Exponential backoff multiplier
	Jitter      bool             // Add up to 10% randomization to each delay
	IsRetryable func(error) bool // Decides whether an error is worth another attempt
}

// DefaultConfig returns a default retry configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  50 * time.Millisecond,
		MaxDelay:   2 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
		IsRetryable: func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		},
	}
}

// Unless returns a predicate retrying every error for which permanent is false
func Unless(permanent func(error) bool) func(error) bool {
	return func(err error) bool {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		return !permanent(err)
	}
}

// Retrier handles retry logic with exponential backoff
type Retrier struct {
	config Config
	logger *logger.ZapLogger
}

// New creates a new retrier with the given configuration
func New(config Config, l *logger.ZapLogger) *Retrier {
	if config.Multiplier < 1 {
		config.Multiplier = 1
	}
	if config.IsRetryable == nil {
		config.IsRetryable = DefaultConfig().IsRetryable
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Retrier{config: config, logger: l}
}

// NewWithDefaults creates a new retrier with default configuration
func NewWithDefaults(l *logger.ZapLogger) *Retrier {
	return New(DefaultConfig(), l)
}

// Execute runs fn until it succeeds, returns a non-retryable error, the
// attempts run out or ctx is done. Non-retryable errors are returned as is.
func (r *Retrier) Execute(ctx context.Context, operation string, fn RetryableFunc) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				r.logger.Info("Operation succeeded after retries",
					logger.String("operation", operation),
					logger.Int("attempts", attempt+1))
			}
			return nil
		}
		lastErr = err

		if !r.config.IsRetryable(err) {
			return err
		}
		if attempt == r.config.MaxRetries {
			break
		}

		delay := r.calculateDelay(attempt)
		r.logger.Warn("Operation failed, retrying",
			logger.String("operation", operation),
			logger.Err(err),
			logger.Int("attempt", attempt+1),
			logger.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	r.logger.Error("Operation failed after all retries",
		logger.String("operation", operation),
		logger.Err(lastErr),
		logger.Int("attempts", r.config.MaxRetries+1))

	return fmt.Errorf("retry limit exceeded after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}

// calculateDelay calculates the delay for the given attempt number
func (r *Retrier) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.MaxDelay > 0 && delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}
	if r.config.Jitter {
		delay += delay * 0.1 * rand.Float64()
	}
	return time.Duration(delay)
}
