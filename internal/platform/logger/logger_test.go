package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        Info,
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"bogus":   Info,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("console"))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestZapLogger_WithMergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	child := l.With(map[string]any{"request_id": "abc"})
	child.Info("pet created", map[string]any{"pet_id": "p-1", "": "ignored"})
	child.Error("boom", map[string]any{"err": errors.New("bad")})

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "abc", first["request_id"])
	assert.Equal(t, "p-1", first["pet_id"])
	assert.NotContains(t, first, "")

	second := entries[1].ContextMap()
	assert.Equal(t, "bad", second["err"])
}

func TestNewNop_DoesNotPanic(t *testing.T) {
	l := NewNop()
	l.With(nil).Debug("x", nil)
	l.Warn("y", map[string]any{"k": 1})
}
