package handler

import (
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/riopardo/rides/internal/pkg/middleware"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
	httpHandler "github.com/riopardo/rides/services/rides/handler/http"

	echomw "github.com/labstack/echo/v4/middleware"
)

// Stream delivers ride transitions and chat messages to the push endpoints
type Stream interface {
	rides.RideStream
	rides.MessageStream
}

// Handler combines all handlers for the rides service
type Handler struct {
	ridesHTTP    *httpHandler.RidesHandler
	messagesHTTP *httpHandler.MessagesHandler
	cfg          *models.Config
	redisClient  *redis.Client
}

// NewHandler creates a new combined handler. redisClient backs the creation
// rate limiter and may be nil.
func NewHandler(
	ridesUC rides.RideUC,
	messageUC rides.MessageUC,
	stream Stream,
	cfg *models.Config,
	redisClient *redis.Client,
) *Handler {
	return &Handler{
		ridesHTTP:    httpHandler.NewRidesHandler(ridesUC, stream).WithMessageStream(stream),
		messagesHTTP: httpHandler.NewMessagesHandler(messageUC),
		cfg:          cfg,
		redisClient:  redisClient,
	}
}

// RegisterRoutes registers all authenticated API routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1",
		middleware.JWTAuthMiddleware(h.cfg.JWT),
		requestTimeout(time.Duration(h.cfg.Server.WriteTimeout)*time.Second))

	createLimiter := middleware.UserRateLimiter(h.cfg.Server.RateLimit, h.cfg.Server.RateLimitWindow, h.redisClient)
	h.ridesHTTP.RegisterRoutes(api, createLimiter)
	h.messagesHTTP.RegisterRoutes(api)
}

// requestTimeout bounds every request except the long lived event streams.
// A zero timeout disables it.
func requestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	if timeout <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
		Skipper: isStreamRoute,
		Timeout: timeout,
	})
}

func isStreamRoute(c echo.Context) bool {
	path := c.Path()
	return strings.HasSuffix(path, "/rides/events") || strings.HasSuffix(path, "/rides/ws")
}
