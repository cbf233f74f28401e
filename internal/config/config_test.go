package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, cubetwist.DefaultThresholds(), cfg.Thresholds())
	assert.Equal(t, cubetwist.DefaultWatchdog, cfg.Animation.Watchdog)
	assert.Equal(t, cubetwist.NewOrbitCamera(), cfg.OrbitCamera())
	assert.True(t, cfg.Resolver.RightIsClockwise)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWriteThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Defaults()
	cfg.Animation.Watchdog = 5 * time.Second
	cfg.Gesture.QuickDuration = 150 * time.Millisecond
	cfg.Resolver.DownIsClockwise = false
	require.NoError(t, Write(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, got.Animation.Watchdog)
	assert.Equal(t, 150*time.Millisecond, got.Gesture.QuickDuration)
	assert.False(t, got.Resolver.DownIsClockwise)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CUBETWIST_LOG_LEVEL", "debug")
	t.Setenv("CUBETWIST_ANIMATION_WATCHDOG", "1500ms")
	t.Setenv("CUBETWIST_JOURNAL_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 1500*time.Millisecond, cfg.Animation.Watchdog)
	assert.False(t, cfg.Journal.Enabled)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  encoding: xml\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateThresholds(t *testing.T) {
	cfg := Defaults()
	cfg.Gesture.MinContinuousFrames = 0
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Animation.Watchdog = 0
	assert.Error(t, cfg.Validate())
}

func TestOptionsApplyToEngine(t *testing.T) {
	assert.Len(t, Defaults().Options(), 4)
}
