package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/riopardo/rides/internal/pkg/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger is our Zap logger that writes JSON to stdout and optionally a file
type ZapLogger struct {
	*zap.Logger
	sugar    *zap.SugaredLogger
	service  string
	filePath string
	file     *os.File
}

// ZapConfig holds Zap logger configuration
type ZapConfig struct {
	Level       string `json:"level" mapstructure:"level"`
	FilePath    string `json:"file_path" mapstructure:"file_path"`
	ServiceName string `json:"service_name" mapstructure:"service_name"`
}

// NewZapLogger creates a new Zap application logger
func NewZapLogger(config ZapConfig) (*ZapLogger, error) {
	// Parse log level
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(config.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)}

	zapLogger := &ZapLogger{
		service:  config.ServiceName,
		filePath: config.FilePath,
	}

	if config.FilePath != "" {
		if err := zapLogger.setupFileOutput(config.FilePath); err != nil {
			return nil, fmt.Errorf("failed to setup file output: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(zapLogger.file), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	if config.ServiceName != "" {
		logger = logger.With(zap.String("service", config.ServiceName))
	}

	zapLogger.Logger = logger
	zapLogger.sugar = logger.Sugar()

	return zapLogger, nil
}

// NewNopLogger returns a logger that discards everything, for tests
func NewNopLogger() *ZapLogger {
	l := zap.NewNop()
	return &ZapLogger{Logger: l, sugar: l.Sugar()}
}

// setupFileOutput configures file output for the logger
func (zl *ZapLogger) setupFileOutput(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	zl.file = file
	return nil
}

// Close syncs the logger and closes the log file
func (zl *ZapLogger) Close() error {
	_ = zl.Logger.Sync()
	_ = zl.sugar.Sync()

	if zl.file != nil {
		return zl.file.Close()
	}
	return nil
}

// WithRequestContext adds request context fields
func (zl *ZapLogger) WithRequestContext(requestID, userID, method, path string) *zap.Logger {
	return zl.Logger.With(
		zap.String("request_id", requestID),
		zap.String("user_id", userID),
		zap.String("method", method),
		zap.String("path", path),
	)
}

// WithFields adds custom fields to log entry
func (zl *ZapLogger) WithFields(fields map[string]interface{}) *zap.Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		zapFields = append(zapFields, zap.Any(key, value))
	}
	return zl.Logger.With(zapFields...)
}

// LogHTTPRequest logs HTTP request with all relevant context
func (zl *ZapLogger) LogHTTPRequest(method, path, clientIP, userID, requestID string, statusCode int, latency time.Duration, err error) {
	logger := zl.Logger.With(
		zap.Int("status", statusCode),
		zap.String("latency", latency.String()),
		zap.Int64("latency_ms", latency.Milliseconds()),
		zap.String("client_ip", clientIP),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("user_id", userID),
		zap.String("request_id", requestID),
	)

	switch {
	case statusCode >= 500:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
		} else {
			logger.Error("Server error")
		}
	case statusCode >= 400:
		logger.Warn("Client error")
	default:
		logger.Info("Request processed")
	}
}

// Sugar returns the sugared logger for easier use
func (zl *ZapLogger) Sugar() *zap.SugaredLogger {
	return zl.sugar
}

// InitZapLoggerFromConfig initializes Zap logger directly from config models
func InitZapLoggerFromConfig(configs *models.Config) (*ZapLogger, error) {
	zapConfig := ZapConfig{
		Level:       configs.Logger.Level,
		ServiceName: configs.App.Name,
	}
	if configs.Logger.Type == "file" {
		zapConfig.FilePath = configs.Logger.FilePath
	}
	return NewZapLogger(zapConfig)
}

// Info logs an info message with optional fields
func (zl *ZapLogger) Info(msg string, fields ...zap.Field) {
	zl.Logger.Info(msg, fields...)
}

// Error logs an error message with optional fields
func (zl *ZapLogger) Error(msg string, fields ...zap.Field) {
	zl.Logger.Error(msg, fields...)
}

// Warn logs a warning message with optional fields
func (zl *ZapLogger) Warn(msg string, fields ...zap.Field) {
	zl.Logger.Warn(msg, fields...)
}

// Debug logs a debug message with optional fields
func (zl *ZapLogger) Debug(msg string, fields ...zap.Field) {
	zl.Logger.Debug(msg, fields...)
}

// Fatal logs a fatal message and exits
func (zl *ZapLogger) Fatal(msg string, fields ...zap.Field) {
	zl.Logger.Fatal(msg, fields...)
}
