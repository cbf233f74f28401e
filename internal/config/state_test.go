package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFileMissingIsEmpty(t *testing.T) {
	sf, err := NewStateFile(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	assert.Equal(t, AppState{}, sf.State())

	cfg := Defaults()
	sf.ApplyCamera(&cfg)
	assert.Equal(t, Defaults().Camera, cfg.Camera)
}

func TestStateFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	sf, err := NewStateFile(path)
	require.NoError(t, err)

	require.NoError(t, sf.SetCamera(1.25, -0.5))
	require.NoError(t, sf.SetLastSession("abc"))
	require.NoError(t, sf.SetLastTrace("/tmp/play.yaml"))

	again, err := NewStateFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", again.State().LastSessionID)
	assert.Equal(t, "/tmp/play.yaml", again.State().LastTracePath)

	cfg := Defaults()
	again.ApplyCamera(&cfg)
	assert.Equal(t, 1.25, cfg.Camera.Yaw)
	assert.Equal(t, -0.5, cfg.Camera.Pitch)
	assert.Equal(t, Defaults().Camera.Distance, cfg.Camera.Distance)
}

func TestStateFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err := NewStateFile(path)
	assert.Error(t, err)
}
