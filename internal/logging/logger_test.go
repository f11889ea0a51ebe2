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
		input string
		want  slog.Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", FormatText, &buf)

	logger.Debug("hidden")
	logger.Info("shown", "stage", "slack")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "stage=slack")
}

func TestNewLoggerTraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", FormatText, &buf)

	logger.Log(context.Background(), LevelTrace, "frame")
	assert.Contains(t, buf.String(), "level=TRACE")
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := ForComponent(NewLogger("debug", FormatJSON, &buf), "runner")
	logger.Debug("stage changed", "stage", "realized")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "runner", entry["component"])
	assert.Equal(t, "realized", entry["stage"])
}

func TestForComponentNil(t *testing.T) {
	logger := ForComponent(nil, "quiet")
	require.NotNil(t, logger)
	logger.Info("nothing happens")
}
