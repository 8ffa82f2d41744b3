package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/riopardo/rides/internal/pkg/jwt"
	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWT = models.JWTConfig{Secret: "middleware-secret", Expiration: 5, Issuer: "test"}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware(t *testing.T) {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		actor, ok := ActorFromContext(c)
		require.True(t, ok)
		return c.String(http.StatusOK, string(actor.Role)+":"+actor.ID)
	}, JWTAuthMiddleware(testJWT))

	token, _, err := jwtpkg.GenerateToken("P1", models.RolePassenger, testJWT)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedBody   string
	}{
		{"Missing header", "", http.StatusUnauthorized, ""},
		{"Wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"Garbage token", "Bearer abc", http.StatusUnauthorized, ""},
		{"Valid token", "Bearer " + token, http.StatusOK, "passenger:P1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}

			rec := serve(e, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestJWTAuthMiddleware_WebsocketQueryToken(t *testing.T) {
	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		actor, _ := ActorFromContext(c)
		return c.String(http.StatusOK, actor.ID)
	}, JWTAuthMiddleware(testJWT))

	token, _, err := jwtpkg.GenerateToken("D1", models.RoleDriver, testJWT)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws?access_token="+token, nil)
	req.Header.Set(echo.HeaderUpgrade, "websocket")
	rec := serve(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "D1", rec.Body.String())

	// plain requests must use the header
	rec = serve(e, httptest.NewRequest(http.MethodGet, "/ws?access_token="+token, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, logger.RequestIDFromContext(c.Request().Context()))
	})

	t.Run("generates an id", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(echo.HeaderXRequestID)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRequestID, "req-42")

		rec := serve(e, req)

		assert.Equal(t, "req-42", rec.Header().Get(echo.HeaderXRequestID))
		assert.Equal(t, "req-42", rec.Body.String())
	})
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware(), PanicRecoveryMiddleware(logger.NewNopLogger()))
	e.GET("/boom", func(c echo.Context) error {
		panic("boom")
	})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), rec.Header().Get(echo.HeaderXRequestID))
}

func newLimitedEcho(client *redis.Client, limit int) *echo.Echo {
	e := echo.New()
	e.POST("/rides", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			SetActor(c, models.Passenger("P1"))
			return next(c)
		}
	}, UserRateLimiter(limit, time.Minute, client))
	return e
}

func TestUserRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	e := newLimitedEcho(client, 2)

	for i := 0; i < 2; i++ {
		rec := serve(e, httptest.NewRequest(http.MethodPost, "/rides", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := serve(e, httptest.NewRequest(http.MethodPost, "/rides", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// a new window starts once the key expires
	mr.FastForward(time.Minute + time.Second)
	rec = serve(e, httptest.NewRequest(http.MethodPost, "/rides", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUserRateLimiter_RedisDownAllows(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()
	e := newLimitedEcho(client, 1)

	for i := 0; i < 3; i++ {
		rec := serve(e, httptest.NewRequest(http.MethodPost, "/rides", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)
	}
}

func TestUserRateLimiter_Disabled(t *testing.T) {
	e := newLimitedEcho(nil, 0)

	rec := serve(e, httptest.NewRequest(http.MethodPost, "/rides", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}
