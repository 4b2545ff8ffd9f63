package middleware

import (
	"context"
	"log/slog"
)

// contextKey is the type for values stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey    = contextKey("logger")
	requestIDCtxKey = contextKey("requestID")
)

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetRequestIDFromCtx retrieves the request ID assigned by StructuredLoggingMiddleware.
// It returns the ID and a boolean indicating if it was found.
func GetRequestIDFromCtx(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDCtxKey).(string)
	if !ok || requestID == "" {
		return "", false
	}
	return requestID, true
}
