package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	return e
}

func waitForListener(t *testing.T, e *echo.Echo) string {
	t.Helper()
	var addr string
	require.Eventually(t, func() bool {
		if a := e.ListenerAddr(); a != nil {
			addr = a.String()
			return true
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
	return addr
}

func TestGracefulServer_ServesUntilCancelled(t *testing.T) {
	e := newEcho()
	s := NewGracefulServer(e, "127.0.0.1:0", time.Second)

	jobStopped := make(chan struct{})
	s.AddJob(func(ctx context.Context) error {
		<-ctx.Done()
		close(jobStopped)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	addr := waitForListener(t, e)
	resp, err := http.Get("http://" + addr + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
	<-jobStopped
}

func TestGracefulServer_FailingJobStopsServer(t *testing.T) {
	e := newEcho()
	s := NewGracefulServer(e, "127.0.0.1:0", time.Second)
	errJob := errors.New("expiry failed")
	s.AddJob(func(ctx context.Context) error {
		for e.ListenerAddr() == nil {
			time.Sleep(10 * time.Millisecond)
		}
		return errJob
	})

	err := s.Run(context.Background())

	assert.ErrorIs(t, err, errJob)
}

func TestNewGracefulServer_DefaultTimeout(t *testing.T) {
	s := NewGracefulServer(echo.New(), ":0", 0)

	assert.Equal(t, defaultShutdownTimeout, s.shutdownTimeout)
}
