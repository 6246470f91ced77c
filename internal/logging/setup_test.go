package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupHandlerText(t *testing.T) {
	tests := []struct {
		level    string
		expected log.Level
	}{
		{"trace", log.DebugLevel},
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"ERROR", log.ErrorLevel},
		{"unknown", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			h := SetupHandlerText(tt.level, &bytes.Buffer{})
			logger, ok := h.(*log.Logger)
			require.True(t, ok)
			assert.Equal(t, tt.expected, logger.GetLevel())
		})
	}
}

func TestSetupHandlerText_Filtering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(SetupHandlerText("warn", &buf))

	logger.Info("hidden")
	logger.Warn("shown", "file", "js/app.js")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "js/app.js")
}

func TestSetupHandlerJSON(t *testing.T) {
	ctx := context.Background()
	for level, expected := range map[string]slog.Level{
		"trace": slog.LevelDebug,
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	} {
		h := SetupHandlerJSON(level, &bytes.Buffer{})
		assert.True(t, h.Enabled(ctx, expected), level)
		if expected > slog.LevelDebug {
			assert.False(t, h.Enabled(ctx, expected-4), level)
		}
	}

	var buf bytes.Buffer
	slog.New(SetupHandlerJSON("info", &buf)).Info("compiled", "count", 2)
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "compiled", record["msg"])
	assert.InDelta(t, 2, record["count"], 0)
}

func TestSetupHandler_NilWriter(t *testing.T) {
	assert.NotNil(t, SetupHandlerText("info", nil))
	assert.NotNil(t, SetupHandlerJSON("info", nil))
}

func TestNewHandler(t *testing.T) {
	_, ok := NewHandler("json", "info", &bytes.Buffer{}).(*slog.JSONHandler)
	assert.True(t, ok)
	_, ok = NewHandler("JSON", "info", &bytes.Buffer{}).(*slog.JSONHandler)
	assert.True(t, ok)
	_, ok = NewHandler("text", "info", &bytes.Buffer{}).(*log.Logger)
	assert.True(t, ok)
	_, ok = NewHandler("", "info", &bytes.Buffer{}).(*log.Logger)
	assert.True(t, ok)
}

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	handler, closer, err := SetupLogger("json", "debug", "stderr")
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	assert.Same(t, handler, slog.Default().Handler())
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	_, _, err = SetupLogger("text", "info", "syslog://localhost")
	require.Error(t, err)
}
