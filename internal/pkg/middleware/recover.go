package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/riopardo/rides/internal/pkg/logger"
)

// PanicRecoveryMiddleware recovers from handler panics, logs them with the
// stack trace and answers 500
func PanicRecoveryMiddleware(zapLogger *logger.ZapLogger) echo.MiddlewareFunc {
	if zapLogger == nil {
		zapLogger = logger.GetGlobalLogger()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					handlePanic(c, r, zapLogger)
				}
			}()

			return next(c)
		}
	}
}

func handlePanic(c echo.Context, r interface{}, zapLogger *logger.ZapLogger) {
	requestID := getRequestID(c)

	userID := "anonymous"
	if uid := c.Get("user_id"); uid != nil {
		userID = fmt.Sprintf("%v", uid)
	}

	zapLogger.Error("Panic recovered",
		logger.Any("panic_value", r),
		logger.String("panic_type", fmt.Sprintf("%T", r)),
		logger.String("stack_trace", string(debug.Stack())),
		logger.String("method", c.Request().Method),
		logger.String("path", c.Request().URL.Path),
		logger.String("client_ip", c.RealIP()),
		logger.String("user_id", userID),
		logger.String("request_id", requestID))

	sendPanicResponse(c, requestID)
}

func getRequestID(c echo.Context) string {
	if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
		return requestID
	}
	if requestID := c.Request().Header.Get(echo.HeaderXRequestID); requestID != "" {
		return requestID
	}
	if requestID := c.Get("request_id"); requestID != nil {
		return fmt.Sprintf("%v", requestID)
	}
	return ""
}

func sendPanicResponse(c echo.Context, requestID string) {
	if c.Response().Committed {
		return
	}

	response := map[string]interface{}{
		"success": false,
		"error":   "An unexpected error occurred while processing your request",
		"code":    http.StatusInternalServerError,
	}
	if requestID != "" {
		response["request_id"] = requestID
	}

	if err := c.JSON(http.StatusInternalServerError, response); err != nil {
		_ = c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}
