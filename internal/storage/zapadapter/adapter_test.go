package zapadapter

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID(t *testing.T) {
	_, ok := RequestID(context.Background())
	require.False(t, ok)

	_, ok = RequestID(WithRequestID(context.Background(), ""))
	require.False(t, ok)

	id, ok := RequestID(WithRequestID(context.Background(), "abc"))
	require.True(t, ok)
	require.Equal(t, "abc", id)
}

func TestLogWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogger(zap.New(core))

	ctx := WithRequestID(context.Background(), "req-1")
	l.Log(ctx, pgx.LogLevelInfo, "Query", map[string]interface{}{"sql": "select 1"})

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, "Query", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal(t, "req-1", fields["request_id"])
	require.Equal(t, "select 1", fields["sql"])
}

func TestLogLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogger(zap.New(core))

	l.Log(context.Background(), pgx.LogLevelTrace, "trace", nil)
	l.Log(context.Background(), pgx.LogLevelDebug, "debug", nil)
	l.Log(context.Background(), pgx.LogLevelWarn, "warn", nil)
	l.Log(context.Background(), pgx.LogLevelError, "error", nil)

	entries := logs.All()
	require.Len(t, entries, 4)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Contains(t, entries[0].ContextMap(), "PGX_LOG_LEVEL")
	require.Equal(t, zapcore.DebugLevel, entries[1].Level)
	require.NotContains(t, entries[1].ContextMap(), "request_id")
	require.Equal(t, zapcore.WarnLevel, entries[2].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}
