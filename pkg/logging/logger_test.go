package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Config{Mode: "production", Level: "info", Dir: dir, File: "test.log"})
	require.NoError(t, err)

	logger.Info("batch planned", zap.Int("batches", 3))
	logger.Debug("should be filtered")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "batch planned")
	assert.Contains(t, string(data), "batches")
	assert.NotContains(t, string(data), "should be filtered")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_DevelopmentStderr(t *testing.T) {
	logger, err := New(Config{Mode: "development", Level: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}
