// Package context carries the request ID and its logger across the API, the
// worker and the scheduler.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// KeyRequestID stores the request ID in both echo and standard contexts.
	KeyRequestID ContextKey = "request_id"

	// KeyLogger stores the request-scoped logger.
	KeyLogger ContextKey = "logger"

	// HeaderXRequestID is the HTTP header carrying the request ID.
	HeaderXRequestID = "X-Request-Id"

	maxRequestIDLength = 128
)

// NormalizeRequestID accepts caller-supplied IDs of printable token characters
// only, so a forwarded header cannot smuggle newlines or quotes into log lines.
func NormalizeRequestID(raw string) (string, bool) {
	if raw == "" || len(raw) > maxRequestIDLength {
		return "", false
	}
	for i := range len(raw) {
		c := raw[i]
		isAlnum := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
		if !isAlnum && c != '-' && c != '_' && c != '.' && c != ':' {
			return "", false
		}
	}

	return raw, true
}

// FirstRequestID returns the first valid candidate or a fresh UUID.
func FirstRequestID(candidates ...string) string {
	for _, candidate := range candidates {
		if id, ok := NormalizeRequestID(candidate); ok {
			return id
		}
	}

	return uuid.NewString()
}

// Attach stores requestID and a logger tagged with it on ctx.
func Attach(ctx context.Context, base *slog.Logger, requestID string) (context.Context, *slog.Logger) {
	logger := base.With(slog.String("request_id", requestID))
	ctx = context.WithValue(ctx, KeyRequestID, requestID)

	return context.WithValue(ctx, KeyLogger, logger), logger
}

// GetRequestID returns the request ID set by the middleware, or a fresh one.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.NewString()
}

// GetRequestIDFromContext returns "" when no request ID is attached.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)

	return id
}

// LoggerFrom returns the request-scoped logger, or fallback when none is attached.
func LoggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}
