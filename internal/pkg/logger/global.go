package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

var (
	// globalLogger holds the singleton logger instance
	globalLogger *ZapLogger
	// once ensures the fallback logger is initialized only once
	once sync.Once
	// mu protects access to the global logger
	mu sync.RWMutex
)

type ctxKey struct{}

// SetGlobalLogger sets the global logger instance.
// This should be called once during application startup.
func SetGlobalLogger(logger *ZapLogger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance, or a production default if none is set
func GetGlobalLogger() *ZapLogger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	once.Do(func() {
		defaultLogger, _ := zap.NewProduction()
		mu.Lock()
		if globalLogger == nil {
			globalLogger = &ZapLogger{
				Logger: defaultLogger,
				sugar:  defaultLogger.Sugar(),
			}
		}
		mu.Unlock()
	})

	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	GetGlobalLogger().Info(msg, fields...)
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	GetGlobalLogger().Warn(msg, fields...)
}

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	GetGlobalLogger().Debug(msg, fields...)
}

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) {
	GetGlobalLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits using the global logger
func Fatal(msg string, fields ...Field) {
	GetGlobalLogger().Fatal(msg, fields...)
}

// WithFields returns a logger with additional fields using the global logger
func WithFields(fields map[string]interface{}) *zap.Logger {
	return GetGlobalLogger().WithFields(fields)
}

// ContextWithRequestID stores the request id so context-aware logging can attach it
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestIDFromContext returns the request id stored by ContextWithRequestID
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func withContext(ctx context.Context, fields []Field) []Field {
	if id := RequestIDFromContext(ctx); id != "" {
		return append(fields, String("request_id", id))
	}
	return fields
}

// InfoCtx logs an info message with the request id from ctx
func InfoCtx(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Info(msg, withContext(ctx, fields)...)
}

// WarnCtx logs a warning message with the request id from ctx
func WarnCtx(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Warn(msg, withContext(ctx, fields)...)
}

// ErrorCtx logs an error message with the request id from ctx
func ErrorCtx(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Error(msg, withContext(ctx, fields)...)
}

// DebugCtx logs a debug message with the request id from ctx
func DebugCtx(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Debug(msg, withContext(ctx, fields)...)
}
