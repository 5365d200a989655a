package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mintdeck/internal/config"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mintdeck.log")
	logger, err := New(config.LoggingConfig{Level: "info", File: path}, Options{Mode: config.ModeProduction})
	require.NoError(t, err)

	logger.Info("minted", zap.Int64("token_id", 7))
	logger.Debug("hidden at info level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"minted"`)
	assert.Contains(t, out, `"mode":"production"`)
	assert.NotContains(t, out, "hidden at info level")
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mintdeck.log")
	logger, err := New(config.LoggingConfig{Level: "warn", File: path}, Options{Verbose: true})
	require.NoError(t, err)

	logger.Debug("debug line")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "debug line"))
}

func TestNew_LevelFollowsMode(t *testing.T) {
	tests := []struct {
		name      string
		mode      config.Mode
		level     string
		wantDebug bool
	}{
		{"development default", config.ModeDevelopment, "", true},
		{"production default", config.ModeProduction, "", false},
		{"development explicit info", config.ModeDevelopment, "info", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default(t.TempDir()).Logging
			cfg.Level = tt.level
			logger, err := New(cfg, Options{Mode: tt.mode})
			require.NoError(t, err)

			logger.Debug("tab changed")
			logger.Info("ready")
			_ = logger.Sync()

			data, err := os.ReadFile(cfg.File)
			require.NoError(t, err)
			assert.Contains(t, string(data), "ready")
			assert.Equal(t, tt.wantDebug, strings.Contains(string(data), "tab changed"))
		})
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud", File: "-"}, Options{})
	require.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
