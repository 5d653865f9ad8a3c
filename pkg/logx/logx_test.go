package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_RequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := slog.New(&Chain{
		Middleware: []Middleware{RequestID},
		Handler:    slog.NewJSONHandler(buf, nil),
	})

	ctx := ContextWithRequestID(context.Background(), "req-1")
	lg.With(slog.String("prefix", "test")).InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "test", rec["prefix"])
	assert.Equal(t, "hello", rec["msg"])
}

func TestChain_NoRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := slog.New(&Chain{
		Middleware: []Middleware{RequestID},
		Handler:    slog.NewJSONHandler(buf, nil),
	})

	lg.Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	_, ok := rec["request_id"]
	assert.False(t, ok)
}

func TestNoOp(t *testing.T) {
	lg := slog.New(NoOp())
	assert.False(t, lg.Enabled(context.Background(), slog.LevelError))
	lg.With("a", 1).WithGroup("g").Error("discarded")
}
