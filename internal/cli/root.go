// Package cli implements the command-line interface for cubetwist.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubetwist/internal/config"
	"github.com/SeamusWaldron/cubetwist/internal/journal"
	"github.com/SeamusWaldron/cubetwist/internal/logging"
	"github.com/SeamusWaldron/cubetwist/internal/scene"
)

const version = "0.1.0"

var (
	// Global flags
	cfgPath string
	dbPath  string
	verbose bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubetwist",
	Short: "Gesture-driven Rubik's Cube slice turning",
	Long: `cubetwist - turn the slices of a 3x3x3 cube with pointer gestures.

Drag across a sticker to twist its slice, drag across empty space to orbit
the camera. Play interactively in the terminal, replay recorded gesture
traces headlessly, and inspect the diagnostics journal.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default: ~/.cubetwist/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Journal database path (default: from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, err
	}
	if dbPath != "" {
		cfg.Journal.Path = dbPath
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// openDB opens the configured journal.
func openDB(cfg config.Config) (*journal.DB, error) {
	var db *journal.DB
	var err error

	if cfg.Journal.Path == "" {
		db, err = journal.OpenDefault()
	} else {
		db, err = journal.Open(cfg.Journal.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return db, nil
}

// sceneOptions maps the configuration onto scene options.
func sceneOptions(cfg config.Config, logger *zap.Logger) []scene.Option {
	return []scene.Option{
		scene.WithCamera(cfg.OrbitCamera()),
		scene.WithSpring(cfg.Animation.FPS, cfg.Animation.Frequency, cfg.Animation.Damping),
		scene.WithLogger(logger.Named("scene")),
	}
}
