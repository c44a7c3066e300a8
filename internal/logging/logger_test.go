package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrNopHandlesTypedNilPointers(t *testing.T) {
	var typed *slogLogger
	var logger Logger = typed
	require.True(t, isNil(logger))

	safe := OrNop(logger)
	require.False(t, isNil(safe))
	assert.Equal(t, Nop(), safe)
	safe.Info("hello %s", "world")
}

func TestNewFormatsMessages(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Format: "text", Output: buf})

	logger.Info("bound %s", "syllabus")
	logger.Debug("hidden %d", 1)

	assert.Contains(t, buf.String(), "bound syllabus")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestWithComponentAddsAttribute(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := WithComponent(New(Config{Level: "debug", Format: "json", Output: buf}), "upload")

	logger.Debug("change on %s", "notes")

	assert.Contains(t, buf.String(), `"component":"upload"`)
	assert.Contains(t, buf.String(), `"msg":"change on notes"`)
}

func TestWithComponentKeepsForeignLoggers(t *testing.T) {
	assert.Equal(t, Nop(), WithComponent(Nop(), "x"))
	assert.Equal(t, Nop(), WithComponent(nil, "x"))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}
