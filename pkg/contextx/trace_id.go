package contextx

import (
	"context"
)

// TraceID ties request logs to the supportId returned in error bodies.
type TraceID string

type contextKeyTraceID struct{}

func (t TraceID) String() string {
	return string(t)
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	return valueFrom[TraceID](ctx, contextKeyTraceID{}, "trace id")
}
