package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist/internal/config"
	"github.com/SeamusWaldron/cubetwist/internal/journal"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestSimulateStatsExport(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	db := filepath.Join(home, "journal.db")
	out := filepath.Join(home, "out", "events.txt")

	require.NoError(t, run(t, "simulate", "--db", db, "--journal", "../trace/testdata/stuck.yaml"))
	require.NoError(t, run(t, "stats", "--db", db, "--last"))
	require.NoError(t, run(t, "export", "events", "--db", db, "--last", "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "recover")
	assert.Contains(t, string(data), "X0")
}

func TestSimulateReportsFailedExpectations(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "wrong.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`viewport: {width: 800, height: 600}
events:
  - {at: 0ms, type: rotate, command: "Z2"}
expect:
  commits: ["Z0"]
`), 0644))

	err := run(t, "simulate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 traces failed")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, run(t, "config", "init", "--config", path))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults().Gesture, cfg.Gesture)

	// A second init refuses to overwrite.
	assert.Error(t, run(t, "config", "init", "--config", path))

	// Clear the persistent flag for later tests.
	cfgPath = ""
}

func TestFormatEvents(t *testing.T) {
	cmd := "Y0"
	rule := "quick_flick"
	events := []journal.Event{
		{TsMs: 5, Kind: journal.KindGesture, Rule: &rule},
		{TsMs: 600, Kind: journal.KindCommit, Command: &cmd},
	}

	txt, err := formatEvents(events, "txt")
	require.NoError(t, err)
	assert.Contains(t, txt, "rule=quick_flick")
	assert.Contains(t, txt, "commit   Y0")

	js, err := formatEvents(events, "JSON")
	require.NoError(t, err)
	assert.Contains(t, js, `"ts_ms": 600`)

	_, err = formatEvents(events, "csv")
	assert.Error(t, err)
}
