package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// ContextKey namespaces values this package stores on a request context.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated learner's ID.
	UserIDContextKey ContextKey = "userID"

	// RolesContextKey holds the caller's role claims.
	RolesContextKey ContextKey = "roles"

	// TraceIDKey holds the ID that ties log lines to an error response.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the trace ID size in bytes; it renders as twice as many hex digits.
	TraceIDLength = 16
)

// fallbackSeq keeps fallback trace IDs distinct within one nanosecond.
var fallbackSeq atomic.Uint64

// SetTraceID stores a freshly generated trace ID in ctx.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, newTraceID(rand.Reader))
}

// WithTraceID stores an existing trace ID, such as a router request ID,
// in the context. An empty id generates a new one.
func WithTraceID(ctx context.Context, id string) context.Context {
	if id == "" {
		return SetTraceID(ctx)
	}
	return context.WithValue(ctx, TraceIDKey, id)
}

// GetRoles returns the role claims stored by the auth middleware.
func GetRoles(ctx context.Context) []string {
	roles, _ := ctx.Value(RolesContextKey).([]string)
	return roles
}

// GetTraceID returns the request's trace ID, or "" when none is set.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// newTraceID reads TraceIDLength random bytes from src. A failed or short
// read falls back to a clock and counter based ID.
func newTraceID(src io.Reader) string {
	b := make([]byte, TraceIDLength)
	if n, err := io.ReadFull(src, b); err != nil {
		slog.Error("failed to read random trace ID, using fallback",
			slog.Int("bytes_read", n),
			slog.String("error", err.Error()))
		return fallbackTraceID()
	}
	return hex.EncodeToString(b)
}

func fallbackTraceID() string {
	b := make([]byte, TraceIDLength)
	binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint64(b[8:], fallbackSeq.Add(1))
	return hex.EncodeToString(b)
}
