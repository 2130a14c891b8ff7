package contextx_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"bargain/pkg/contextx"
)

func TestContextValues(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		put     func(context.Context) context.Context
		read    func(context.Context) (string, error)
		want    string
		errText string
	}{
		{
			name: "Trace id",
			put: func(ctx context.Context) context.Context {
				return contextx.WithTraceID(ctx, "cs8k4r3lkd3aks8fqlk0")
			},
			read: func(ctx context.Context) (string, error) {
				traceID, err := contextx.TraceIDFromContext(ctx)
				return traceID.String(), err
			},
			want:    "cs8k4r3lkd3aks8fqlk0",
			errText: "trace id: no value in context",
		},
		{
			name: "Session id",
			put: func(ctx context.Context) context.Context {
				return contextx.WithSessionID(ctx, "01J9Z6T0J1Q6W1M4S5T8V2X3Y4")
			},
			read: func(ctx context.Context) (string, error) {
				sessionID, err := contextx.SessionIDFromContext(ctx)
				return sessionID.String(), err
			},
			want:    "01J9Z6T0J1Q6W1M4S5T8V2X3Y4",
			errText: "session id: no value in context",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			value, err := tc.read(context.Background())
			rq.Empty(value)
			rq.ErrorIs(err, contextx.ErrNoValue)
			rq.EqualError(err, tc.errText)

			value, err = tc.read(tc.put(context.Background()))
			rq.NoError(err)
			rq.Equal(tc.want, value)
		})
	}
}

func TestLogger(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	logger, err := contextx.LoggerFromContext(ctx)
	rq.Nil(logger)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.EqualError(err, "logger: no value in context")
	rq.Same(slog.Default(), contextx.LoggerFromContextOrDefault(ctx))

	sessionLogger := slog.New(slog.NewTextHandler(io.Discard, nil)).With(slog.String("session-id", "01J9"))
	ctx = contextx.WithLogger(ctx, sessionLogger)

	logger, err = contextx.LoggerFromContext(ctx)
	rq.NoError(err)
	rq.Same(sessionLogger, logger)
	rq.Same(sessionLogger, contextx.LoggerFromContextOrDefault(ctx))
}
