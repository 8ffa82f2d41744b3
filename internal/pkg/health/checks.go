package health

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/riopardo/rides/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	defaultCheckTimeout = 3 * time.Second
)

// Checker reports whether one dependency is usable
type Checker interface {
	CheckHealth(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker
type CheckerFunc func(ctx context.Context) error

// CheckHealth calls f
func (f CheckerFunc) CheckHealth(ctx context.Context) error {
	return f(ctx)
}

// ConnectedChecker adapts a connection state getter such as nats.Client.IsConnected
func ConnectedChecker(name string, isConnected func() bool) Checker {
	return CheckerFunc(func(context.Context) error {
		if !isConnected() {
			return errors.New(name + " not connected")
		}
		return nil
	})
}

// Response is the body of the readiness endpoint
type Response struct {
	Status       string                    `json:"status"`
	Timestamp    time.Time                 `json:"timestamp"`
	Service      string                    `json:"service"`
	Version      string                    `json:"version,omitempty"`
	Dependencies map[string]DependencyInfo `json:"dependencies"`
}

// DependencyInfo represents health info for a dependency
type DependencyInfo struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// Service runs the registered dependency checks
type Service struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	timeout  time.Duration
}

// NewService creates a health service; timeout bounds each check
func NewService(timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	return &Service{
		checkers: make(map[string]Checker),
		timeout:  timeout,
	}
}

// AddChecker registers a health checker for a dependency
func (s *Service) AddChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
}

// Names returns the registered dependency names, sorted
func (s *Service) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.checkers))
	for name := range s.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckAll runs every check concurrently and aggregates the result
func (s *Service) CheckAll(ctx context.Context) Response {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for name, c := range s.checkers {
		checkers[name] = c
	}
	s.mu.RUnlock()

	response := Response{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyInfo, len(checkers)),
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	for name, checker := range checkers {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			start := time.Now()
			err := checker.CheckHealth(checkCtx)
			info := DependencyInfo{Status: StatusHealthy, Latency: time.Since(start).String()}
			if err != nil {
				logger.WarnCtx(ctx, "Health check failed",
					logger.String("dependency", name),
					logger.Err(err))
				info.Status = StatusUnhealthy
				info.Error = err.Error()
			}

			mu.Lock()
			response.Dependencies[name] = info
			if err != nil {
				response.Status = StatusUnhealthy
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return response
}
