package contextutil

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is unexported so keys cannot collide with other packages.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	memberIDKey  contextKey = "member_id"
	loggerKey    contextKey = "logger"
)

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// GetRequestID returns the trace id set by the request id middleware, or
// an empty string outside an HTTP request.
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

func WithMemberID(ctx context.Context, mid string) context.Context {
	return context.WithValue(ctx, memberIDKey, mid)
}

func GetMemberID(ctx context.Context) string {
	if mid, ok := ctx.Value(memberIDKey).(string); ok {
		return mid
	}
	return ""
}

// WithLogger stores a request-scoped logger, usually already decorated
// with the request id and member id fields.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, the given fallback, or a
// nop logger so callers never receive nil.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	if defaultLogger != nil {
		return defaultLogger
	}
	return zap.NewNop()
}

// Metadata bundles the tracing fields for manual log statements.
type Metadata struct {
	RequestID string
	MemberID  string
}

func ExtractMetadata(ctx context.Context) Metadata {
	return Metadata{
		RequestID: GetRequestID(ctx),
		MemberID:  GetMemberID(ctx),
	}
}
