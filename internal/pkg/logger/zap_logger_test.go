package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zap.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zap.InfoLevel, ParseLevel("chatty"))
	assert.Equal(t, zap.InfoLevel, ParseLevel(""))
}

func TestErrorPromotesErrorField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := newWithCore(core)

	l.Error("SQL_AGENT", "Execution failed", map[string]interface{}{"error": "no such column"})
	l.Info("ROUTER", "Routed", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "SQL_AGENT", ctx["module"])
	assert.Equal(t, "no such column", ctx["error_ref"])
	assert.NotContains(t, entries[1].ContextMap(), "error_ref")
	assert.Equal(t, map[string]interface{}{}, entries[1].ContextMap()["details"])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	// never split a multi-byte rune
	assert.Equal(t, "a...", Truncate("aé", 2))
}
