package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNew_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "json")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	log.InfoContext(ctx, "cart loaded", "items", 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "cart loaded", record["msg"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", record["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", record["span_id"])
}

func TestNew_NoSpanNoTraceAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", "json").With("component", "cart")

	log.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "trace_id")
	assert.Equal(t, "cart", record["component"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}
