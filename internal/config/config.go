// Package config loads cubetwist settings from defaults, an optional YAML
// file and CUBETWIST_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/cubetwist"
)

// EnvPrefix prefixes environment overrides, e.g. CUBETWIST_LOG_LEVEL.
const EnvPrefix = "CUBETWIST"

// Config is the complete application configuration.
type Config struct {
	Gesture   GestureConfig   `mapstructure:"gesture" yaml:"gesture"`
	Animation AnimationConfig `mapstructure:"animation" yaml:"animation"`
	Camera    CameraConfig    `mapstructure:"camera" yaml:"camera"`
	Resolver  ResolverConfig  `mapstructure:"resolver" yaml:"resolver"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Journal   JournalConfig   `mapstructure:"journal" yaml:"journal"`
}

// GestureConfig holds the classifier thresholds.
type GestureConfig struct {
	MinActionDistance   float64       `mapstructure:"min_action_distance" yaml:"min_action_distance"`
	MovementFloor       float64       `mapstructure:"movement_floor" yaml:"movement_floor"`
	MinContinuousFrames int           `mapstructure:"min_continuous_frames" yaml:"min_continuous_frames"`
	MaxPauseFrames      int           `mapstructure:"max_pause_frames" yaml:"max_pause_frames"`
	ExtremeVelocity     float64       `mapstructure:"extreme_velocity" yaml:"extreme_velocity"`
	ExtremeLongDistance float64       `mapstructure:"extreme_long_distance" yaml:"extreme_long_distance"`
	HighVelocity        float64       `mapstructure:"high_velocity" yaml:"high_velocity"`
	QuickDuration       time.Duration `mapstructure:"quick_duration" yaml:"quick_duration"`
	QuickMaxDistance    float64       `mapstructure:"quick_max_distance" yaml:"quick_max_distance"`
	OrbitDistance       float64       `mapstructure:"orbit_distance" yaml:"orbit_distance"`
}

// AnimationConfig tunes the rotation lock and the slice-turn spring.
type AnimationConfig struct {
	Watchdog  time.Duration `mapstructure:"watchdog" yaml:"watchdog"`
	FPS       int           `mapstructure:"fps" yaml:"fps"`
	Frequency float64       `mapstructure:"frequency" yaml:"frequency"`
	Damping   float64       `mapstructure:"damping" yaml:"damping"`
}

// CameraConfig places the orbit camera.
type CameraConfig struct {
	Sensitivity float64 `mapstructure:"sensitivity" yaml:"sensitivity"`
	Distance    float64 `mapstructure:"distance" yaml:"distance"`
	Yaw         float64 `mapstructure:"yaw" yaml:"yaw"`
	Pitch       float64 `mapstructure:"pitch" yaml:"pitch"`
}

// ResolverConfig holds the swipe sign convention.
type ResolverConfig struct {
	RightIsClockwise bool `mapstructure:"right_is_clockwise" yaml:"right_is_clockwise"`
	DownIsClockwise  bool `mapstructure:"down_is_clockwise" yaml:"down_is_clockwise"`
}

// LogConfig selects the logger level, encoding and destination.
type LogConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
	Output   string `mapstructure:"output" yaml:"output"`
}

// JournalConfig controls the diagnostics journal.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// DefaultDir returns ~/.cubetwist.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cubetwist"), nil
}

// DefaultPath returns the config file path used when none is given.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	t := cubetwist.DefaultThresholds()
	s := cubetwist.DefaultSignConvention()

	journalPath := "cubetwist.db"
	if dir, err := DefaultDir(); err == nil {
		journalPath = filepath.Join(dir, "journal.db")
	}

	return Config{
		Gesture: GestureConfig{
			MinActionDistance:   t.MinActionDistance,
			MovementFloor:       t.MovementFloor,
			MinContinuousFrames: t.MinContinuousFrames,
			MaxPauseFrames:      t.MaxPauseFrames,
			ExtremeVelocity:     t.ExtremeVelocity,
			ExtremeLongDistance: t.ExtremeLongDistance,
			HighVelocity:        t.HighVelocity,
			QuickDuration:       t.QuickDuration,
			QuickMaxDistance:    t.QuickMaxDistance,
			OrbitDistance:       t.OrbitDistance,
		},
		Animation: AnimationConfig{
			Watchdog:  cubetwist.DefaultWatchdog,
			FPS:       60,
			Frequency: 18.0,
			Damping:   1.0,
		},
		Camera: CameraConfig{
			Sensitivity: cubetwist.DefaultOrbitSensitivity,
			Distance:    cubetwist.DefaultCameraDistance,
			Yaw:         cubetwist.DefaultCameraYaw,
			Pitch:       cubetwist.DefaultCameraPitch,
		},
		Resolver: ResolverConfig{
			RightIsClockwise: s.RightIsClockwise,
			DownIsClockwise:  s.DownIsClockwise,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
			Output:   "stderr",
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    journalPath,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("gesture.min_action_distance", d.Gesture.MinActionDistance)
	v.SetDefault("gesture.movement_floor", d.Gesture.MovementFloor)
	v.SetDefault("gesture.min_continuous_frames", d.Gesture.MinContinuousFrames)
	v.SetDefault("gesture.max_pause_frames", d.Gesture.MaxPauseFrames)
	v.SetDefault("gesture.extreme_velocity", d.Gesture.ExtremeVelocity)
	v.SetDefault("gesture.extreme_long_distance", d.Gesture.ExtremeLongDistance)
	v.SetDefault("gesture.high_velocity", d.Gesture.HighVelocity)
	v.SetDefault("gesture.quick_duration", d.Gesture.QuickDuration)
	v.SetDefault("gesture.quick_max_distance", d.Gesture.QuickMaxDistance)
	v.SetDefault("gesture.orbit_distance", d.Gesture.OrbitDistance)

	v.SetDefault("animation.watchdog", d.Animation.Watchdog)
	v.SetDefault("animation.fps", d.Animation.FPS)
	v.SetDefault("animation.frequency", d.Animation.Frequency)
	v.SetDefault("animation.damping", d.Animation.Damping)

	v.SetDefault("camera.sensitivity", d.Camera.Sensitivity)
	v.SetDefault("camera.distance", d.Camera.Distance)
	v.SetDefault("camera.yaw", d.Camera.Yaw)
	v.SetDefault("camera.pitch", d.Camera.Pitch)

	v.SetDefault("resolver.right_is_clockwise", d.Resolver.RightIsClockwise)
	v.SetDefault("resolver.down_is_clockwise", d.Resolver.DownIsClockwise)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("log.output", d.Log.Output)

	v.SetDefault("journal.enabled", d.Journal.Enabled)
	v.SetDefault("journal.path", d.Journal.Path)
}

// Load reads the configuration. An empty path looks for config.yaml in
// ~/.cubetwist and falls back to defaults when it does not exist; an
// explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the engine cannot run with.
func (c Config) Validate() error {
	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("gesture: %w", err)
	}
	if c.Animation.Watchdog <= 0 {
		return fmt.Errorf("animation.watchdog %v: must be positive", c.Animation.Watchdog)
	}
	if c.Animation.FPS <= 0 {
		return fmt.Errorf("animation.fps %d: must be positive", c.Animation.FPS)
	}
	if c.Camera.Sensitivity <= 0 {
		return fmt.Errorf("camera.sensitivity %v: must be positive", c.Camera.Sensitivity)
	}
	if c.Camera.Distance <= 0 {
		return fmt.Errorf("camera.distance %v: must be positive", c.Camera.Distance)
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("log.encoding %q: must be json or console", c.Log.Encoding)
	}
	return nil
}

// Thresholds converts the gesture section to classifier thresholds.
func (c Config) Thresholds() cubetwist.Thresholds {
	g := c.Gesture
	return cubetwist.Thresholds{
		MinActionDistance:   g.MinActionDistance,
		MovementFloor:       g.MovementFloor,
		MinContinuousFrames: g.MinContinuousFrames,
		MaxPauseFrames:      g.MaxPauseFrames,
		ExtremeVelocity:     g.ExtremeVelocity,
		ExtremeLongDistance: g.ExtremeLongDistance,
		HighVelocity:        g.HighVelocity,
		QuickDuration:       g.QuickDuration,
		QuickMaxDistance:    g.QuickMaxDistance,
		OrbitDistance:       g.OrbitDistance,
	}
}

// OrbitCamera returns the configured starting camera.
func (c Config) OrbitCamera() cubetwist.OrbitCamera {
	return cubetwist.OrbitCamera{
		Yaw:      c.Camera.Yaw,
		Pitch:    c.Camera.Pitch,
		Distance: c.Camera.Distance,
	}
}

// Options maps the configuration onto engine options.
func (c Config) Options() []cubetwist.Option {
	return []cubetwist.Option{
		cubetwist.WithThresholds(c.Thresholds()),
		cubetwist.WithWatchdog(c.Animation.Watchdog),
		cubetwist.WithOrbitSensitivity(c.Camera.Sensitivity),
		cubetwist.WithSignConvention(cubetwist.SignConvention{
			RightIsClockwise: c.Resolver.RightIsClockwise,
			DownIsClockwise:  c.Resolver.DownIsClockwise,
		}),
	}
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// Write saves the configuration as YAML, creating parent directories.
func Write(path string, c Config) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
