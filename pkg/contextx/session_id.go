package contextx

import (
	"context"
)

// SessionID is the negotiation session a request is scoped to.
type SessionID string

type contextKeySessionID struct{}

func (s SessionID) String() string {
	return string(s)
}

func WithSessionID(ctx context.Context, sessionID SessionID) context.Context {
	return context.WithValue(ctx, contextKeySessionID{}, sessionID)
}

func SessionIDFromContext(ctx context.Context) (SessionID, error) {
	return valueFrom[SessionID](ctx, contextKeySessionID{}, "session id")
}
