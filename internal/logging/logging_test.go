package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "deck.log")
	logger, err := New(path, "info", false)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("slide changed", zap.Int("current", 2))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"slide changed"`)
	assert.Contains(t, string(data), `"current":2`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.log")
	logger, err := New(path, "warn", true)
	require.NoError(t, err)

	logger.Debug("shown")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "shown")
}

func TestNewNoPath(t *testing.T) {
	logger, err := New("", "info", false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "deck.log"), "loud", false)
	assert.ErrorContains(t, err, "log level")
}
