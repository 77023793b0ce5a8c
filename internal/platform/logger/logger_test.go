package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"Error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		level, ok := ParseLevel(tt.name)
		assert.Equal(t, tt.want, level, tt.name)
		assert.Equal(t, tt.wantOK, ok, tt.name)
	}
}

// setup replaces the process default logger, so these tests are not parallel.
func TestSetup_FiltersByLevel(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	logger := setup(config.ServerConfig{LogLevel: "warn"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("component", "test"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "test", entry["component"])
	assert.Same(t, logger, slog.Default())
}

func TestSetup_InvalidLevelWarns(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	logger := setup(config.ServerConfig{LogLevel: "loud"}, &buf)

	assert.Contains(t, buf.String(), "invalid log level configured")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	scoped := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))

	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, FromContextOrDefault(ctx, fallback))
	assert.Same(t, scoped, FromContext(ctx))
}
