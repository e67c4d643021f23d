package logger

import (
	"context"
	"log/slog"
)

// contextKey is an unexported type to avoid context key collisions.
type contextKey struct{}

var loggerKey = contextKey{}

// WithLogger returns a new context carrying the given logger. Handlers and
// middleware attach request-scoped attributes (trace ID, user ID) to the
// logger before storing it.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext retrieves the logger from the context, falling back to the
// process default logger when none was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger from the context, falling back
// to the provided default. It is used by components that carry their own
// component-scoped logger.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok && log != nil {
		return log
	}
	if def != nil {
		return def
	}
	return slog.Default()
}
