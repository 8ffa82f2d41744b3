package logger

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
)

// ZapEchoMiddleware creates request logging middleware for Echo using Zap
func ZapEchoMiddleware(logger *ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			path := c.Request().URL.Path
			raw := c.Request().URL.RawQuery

			err := next(c)
			if err != nil {
				// let echo write the response so the logged status is accurate
				c.Error(err)
			}

			latency := time.Since(start)
			if raw != "" {
				path = path + "?" + raw
			}

			userIDStr := "anonymous"
			if userID := c.Get("user_id"); userID != nil {
				userIDStr = fmt.Sprintf("%v", userID)
			}

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			logger.LogHTTPRequest(c.Request().Method, path, c.RealIP(), userIDStr, requestID, c.Response().Status, latency, err)

			return nil
		}
	}
}
