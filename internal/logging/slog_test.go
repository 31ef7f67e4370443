package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlog(slog.New(handler))

	logger.Debug("assigning", "submission", 10)
	logger.Info("assigned", "reviewers", 3)
	logger.Warn("pool small", "size", 1)
	logger.Error("store failed", "error", "boom")

	out := buf.String()
	require.Contains(t, out, "assigning")
	require.Contains(t, out, "submission=10")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "level=ERROR")
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()

	// All levels, including Fatal, must be safe no-ops.
	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")
	logger.Fatal("f")
}
