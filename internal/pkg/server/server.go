package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/riopardo/rides/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 30 * time.Second

// Job is a background loop that runs alongside the HTTP server and must
// return once ctx is done
type Job func(ctx context.Context) error

// GracefulServer runs an Echo server together with background jobs and
// shuts both down when the context passed to Run ends
type GracefulServer struct {
	echo            *echo.Echo
	addr            string
	shutdownTimeout time.Duration
	jobs            []Job
}

// NewGracefulServer creates a new server listening on addr
func NewGracefulServer(e *echo.Echo, addr string, shutdownTimeout time.Duration) *GracefulServer {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &GracefulServer{
		echo:            e,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
	}
}

// AddJob registers a background job. Jobs must be added before Run.
func (s *GracefulServer) AddJob(job Job) {
	s.jobs = append(s.jobs, job)
}

// Run serves until ctx is done or the server or a job fails, then shuts the
// server down within the shutdown timeout
func (s *GracefulServer) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", logger.String("address", s.addr))
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	for _, job := range s.jobs {
		g.Go(func() error {
			return job(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *GracefulServer) shutdown() error {
	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.Err(err))
		return err
	}

	logger.Info("Server shutdown completed")
	return nil
}
