package logx_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"bargain/pkg/logx"
)

func TestParseLevel(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name  string
		input string
		level slog.Level
	}{
		{name: "Debug", input: "debug", level: slog.LevelDebug},
		{name: "Warn upper case", input: "WARN", level: slog.LevelWarn},
		{name: "Garbage falls back to info", input: "loud", level: slog.LevelInfo},
		{name: "Empty falls back to info", input: "", level: slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.level, logx.ParseLevel(tc.input))
		})
	}
}

func TestNewLogger(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	logger := logx.NewLogger(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("offer settled", slog.String(logx.FieldSessionID, "s-1"), logx.Error(errors.New("boom")))

	out := buf.String()
	rq.NotContains(out, "hidden")
	rq.Contains(out, "offer settled")
	rq.Contains(out, "s-1")
	rq.Contains(out, "boom")
}

func TestTruncate(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		maxLen int
		output string
	}{
		{name: "Shorter than limit", maxLen: 64, output: "POST /v1/negotiations"},
		{name: "Cut", maxLen: 4, output: "POST"},
		{name: "Disabled", maxLen: 0, output: "POST /v1/negotiations"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.output, string(logx.Truncate([]byte("POST /v1/negotiations"), tc.maxLen)))
		})
	}
}
