package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"time"
)

// ContextKey is the key type for request context values.
type ContextKey string

// TraceIDKey is the key for the trace ID in the request context.
const TraceIDKey ContextKey = "traceID"

// traceIDLength is the number of random bytes in a trace ID (32 hex chars).
const traceIDLength = 16

// SetTraceID adds a freshly generated trace ID to the context for
// correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or an empty string if
// none is set.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID creates a random 32-character hex trace ID. If crypto/rand
// fails it falls back to a time-derived value so requests still get a unique
// ID.
func generateTraceID() string {
	b := make([]byte, traceIDLength)
	n, err := rand.Read(b)
	if err != nil || n != traceIDLength {
		slog.Error("failed to generate random trace ID",
			slog.Any("error", err),
			slog.Int("bytes_read", n))
		return fallbackTraceID()
	}

	return hex.EncodeToString(b)
}

// fallbackTraceID derives a trace ID from timestamps when the random source
// is unavailable.
func fallbackTraceID() string {
	b := make([]byte, traceIDLength)
	binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], uint32(time.Now().Nanosecond()))
	binary.BigEndian.PutUint32(b[12:16], uint32(time.Now().Unix()))
	return hex.EncodeToString(b)
}
