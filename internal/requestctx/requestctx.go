// Package requestctx carries per-request values through context.Context.
package requestctx

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// Logger tags base with the request id stored in ctx, if any.
func Logger(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	if reqID := GetRequestID(ctx); reqID != "" {
		return base.With().Str("requestId", reqID).Logger()
	}
	return base
}
