package cubetwist

import (
	"time"

	"go.uber.org/zap"
)

// DefaultWatchdog bounds how long a rotation may stay in flight.
const DefaultWatchdog = 3 * time.Second

// DefaultOrbitSensitivity is radians of camera orbit per pixel of drag.
const DefaultOrbitSensitivity = 0.01

// Option configures Engine and Animator behavior.
type Option func(*config)

type config struct {
	logger      *zap.Logger
	clock       Clock
	watchdog    time.Duration
	dispatch    func(func())
	thresholds  Thresholds
	sign        SignConvention
	sensitivity float64
	haptics     Haptics
}

func defaultConfig() *config {
	return &config{
		logger:      zap.NewNop(),
		clock:       SystemClock{},
		watchdog:    DefaultWatchdog,
		thresholds:  DefaultThresholds(),
		sign:        DefaultSignConvention(),
		sensitivity: DefaultOrbitSensitivity,
	}
}

func buildConfig(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces the wall clock, typically with a ManualClock in tests.
func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithWatchdog sets how long a rotation may stay in flight before the lock
// is force-released.
func WithWatchdog(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.watchdog = d
		}
	}
}

// WithDispatcher sets how deferred work (the watchdog) is posted back onto
// the owner's logical thread, e.g. a UI event loop's send function.
//
// Without a dispatcher the work is queued and runs the next time the owner
// calls Poll or drives the engine. A ManualClock fires its timers inside
// Advance, so with one the work runs there directly.
func WithDispatcher(dispatch func(func())) Option {
	return func(c *config) {
		if dispatch != nil {
			c.dispatch = dispatch
		}
	}
}

// WithThresholds sets the gesture classifier tuning.
func WithThresholds(t Thresholds) Option {
	return func(c *config) {
		c.thresholds = t
	}
}

// WithSignConvention sets how swipe direction maps to turn direction.
func WithSignConvention(s SignConvention) Option {
	return func(c *config) {
		c.sign = s
	}
}

// WithOrbitSensitivity sets radians of orbit per pixel of drag.
func WithOrbitSensitivity(s float64) Option {
	return func(c *config) {
		if s > 0 {
			c.sensitivity = s
		}
	}
}

// WithHaptics enables haptic cues on decisive twists.
func WithHaptics(h Haptics) Option {
	return func(c *config) {
		c.haptics = h
	}
}
