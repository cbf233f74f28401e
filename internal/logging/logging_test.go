package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubetwist.log")

	logger, err := New(config.LogConfig{Level: "info", Encoding: "json", Output: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("rotation committed")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"rotation committed"`)
	assert.Contains(t, string(data), `"logger":"cubetwist"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Encoding: "json"})
	assert.Error(t, err)
}
