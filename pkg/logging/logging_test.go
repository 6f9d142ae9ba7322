package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},

		{"DEBUG", LevelDebug},
		{"WARNING", LevelWarn},
		{"Error", LevelError},
		{" dEbUg ", LevelDebug},

		{"", LevelInfo},
		{"trace", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel(""))
	assert.True(t, ValidLevel("Warn"))
	assert.False(t, ValidLevel("trace"))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFormat(tt.input))
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Debug("hidden")
	logger.Info("call completed", "operation", "CheckStatus")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "call completed", entry["msg"])
	assert.Equal(t, "CheckStatus", entry["operation"])
}

func TestMultiHandler(t *testing.T) {
	var info, debug bytes.Buffer
	h := NewMultiHandler(
		NewHandler(Config{Level: LevelInfo, Output: &info}),
		NewHandler(Config{Level: LevelDebug, Output: &debug}),
	)
	logger := slog.New(h).With("component", "client")

	assert.True(t, h.Enabled(context.Background(), LevelDebug))

	logger.Debug("dropped parameter")
	logger.Info("sent")

	assert.NotContains(t, info.String(), "dropped parameter")
	assert.Contains(t, info.String(), "sent")
	assert.Contains(t, debug.String(), "dropped parameter")
	assert.Contains(t, debug.String(), "component=client")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("discarded") })
}
