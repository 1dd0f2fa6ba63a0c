package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production.
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// GetDefault returns the shared logger instance
func GetDefault() *Logger {
	once.Do(func() {
		defaultLogger = New()
	})
	return defaultLogger
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithSessionID adds a selection session id to logger context
func (l *Logger) WithSessionID(sessionID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("session_id", sessionID))}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
	)
}

// Hold lifecycle logging

// LogHoldPlaced logs a successful seat hold
func (l *Logger) LogHoldPlaced(ctx context.Context, eventID, seatID, sessionID string, reservedUntil time.Time) {
	l.Logger.InfoContext(ctx,
		"Seat Hold Placed",
		slog.String("event_id", eventID),
		slog.String("seat_id", seatID),
		slog.String("session_id", sessionID),
		slog.Time("reserved_until", reservedUntil),
	)
}

// LogHoldReleased logs a released seat hold
func (l *Logger) LogHoldReleased(ctx context.Context, eventID, seatID, sessionID string) {
	l.Logger.InfoContext(ctx,
		"Seat Hold Released",
		slog.String("event_id", eventID),
		slog.String("seat_id", seatID),
		slog.String("session_id", sessionID),
	)
}

// LogHoldExpired logs a hold evicted by the expiry monitor
func (l *Logger) LogHoldExpired(ctx context.Context, seatID, sessionID string) {
	l.Logger.InfoContext(ctx,
		"Seat Hold Expired",
		slog.String("seat_id", seatID),
		slog.String("session_id", sessionID),
	)
}

// LogCheckoutCompleted logs a committed selection
func (l *Logger) LogCheckoutCompleted(ctx context.Context, bookingID, eventID, sessionID string, totalPrice float64) {
	l.Logger.InfoContext(ctx,
		"Checkout Completed",
		slog.String("booking_id", bookingID),
		slog.String("event_id", eventID),
		slog.String("session_id", sessionID),
		slog.Float64("total_price", totalPrice),
	)
}

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}
