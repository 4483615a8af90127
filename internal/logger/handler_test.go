package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func TestHandlerAddsRequestIdAndSource(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler(&buf, slog.LevelInfo, FormatJson, "/nonexistent", ctxKey{})
	require.NoError(t, err)

	l := slog.New(h).With(slog.String("component", "test"))
	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	l.InfoContext(ctx, "hello")
	l.DebugContext(ctx, "dropped")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "test", rec["component"])
	assert.Contains(t, rec, slog.SourceKey)
}

func TestNewHandlerRejectsUnknownFormat(t *testing.T) {
	_, err := NewHandler(&bytes.Buffer{}, slog.LevelInfo, "xml", "/", nil)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestPGXLevel(t *testing.T) {
	cases := []struct {
		in    tracelog.LogLevel
		want  slog.Level
		known bool
	}{
		{tracelog.LogLevelTrace, slog.LevelDebug, true},
		{tracelog.LogLevelInfo, slog.LevelDebug, true},
		{tracelog.LogLevelWarn, slog.LevelWarn, true},
		{tracelog.LogLevelError, slog.LevelError, true},
		{tracelog.LogLevel(42), slog.LevelError, false},
	}

	for _, tt := range cases {
		lvl, known := pgxLevel(tt.in)
		assert.Equal(t, tt.want, lvl)
		assert.Equal(t, tt.known, known)
	}
}
