package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"text format with info level", Config{Level: LevelInfo, Format: FormatText}},
		{"json format with debug level", Config{Level: LevelDebug, Format: FormatJSON}},
		{"text format with error level", Config{Level: LevelError, Format: FormatText}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.config)
			require.NotNil(t, log)
			assert.IsType(t, &slog.Logger{}, log)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  slog.Level
	}{
		{"debug", LevelDebug, slog.LevelDebug},
		{"info", LevelInfo, slog.LevelInfo},
		{"warn", LevelWarn, slog.LevelWarn},
		{"error", LevelError, slog.LevelError},
		{"invalid", "invalid", slog.LevelInfo}, // Should default to info
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.level))
		})
	}
}

func TestSetDefault(t *testing.T) {
	log := New(Config{Level: LevelInfo, Format: FormatText})

	assert.NotPanics(t, func() {
		SetDefault(log)
	})
}
