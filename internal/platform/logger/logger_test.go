package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/stocktag-api/internal/config"
)

func TestSetup(t *testing.T) {
	cases := []struct {
		level        string
		debugEnabled bool
		warnEnabled  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, true},
		{"error", false, false},
		{"bogus", false, true}, // falls back to info
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			logger := Setup(config.ServerConfig{Port: 8080, LogLevel: tc.level})

			require.NotNil(t, logger)
			ctx := context.Background()
			assert.Equal(t, tc.debugEnabled, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tc.warnEnabled, logger.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestSetupSetsDefault(t *testing.T) {
	logger := Setup(config.ServerConfig{Port: 8080, LogLevel: "info"})
	assert.Equal(t, logger, slog.Default())
}
