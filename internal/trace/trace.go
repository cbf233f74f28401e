// Package trace loads YAML gesture traces and replays them against an
// Engine and a headless Scene on virtual time.
package trace

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/cubetwist"
)

// ErrInvalidTrace is returned for traces the player cannot run.
var ErrInvalidTrace = errors.New("trace: invalid trace")

// Event types.
const (
	EventDown   = "down"   // Pointer pressed at (x, y)
	EventMove   = "move"   // Pointer moved to (x, y)
	EventUp     = "up"     // Pointer released
	EventCancel = "cancel" // Gesture cancelled by the system
	EventRotate = "rotate" // Programmatic rotation, no gesture
	EventReset  = "reset"  // Restore the identity layout
	EventStall  = "stall"  // Advance time without stepping the renderer
)

// DefaultFrame is the renderer step between events.
const DefaultFrame = 16 * time.Millisecond

// DefaultSettle is how long the player keeps stepping after the last event.
const DefaultSettle = 2 * time.Second

// Trace is a recorded or hand-written pointer stream.
type Trace struct {
	Name     string        `yaml:"name"`
	Viewport Viewport      `yaml:"viewport"`
	Camera   *Camera       `yaml:"camera,omitempty"`
	Frame    time.Duration `yaml:"frame,omitempty"`
	Settle   time.Duration `yaml:"settle,omitempty"`
	Events   []Event       `yaml:"events"`
	Expect   *Expect       `yaml:"expect,omitempty"`
}

// Viewport is the pixel area the pointer coordinates refer to.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Camera overrides the starting orbit camera.
type Camera struct {
	Yaw      float64 `yaml:"yaw"`
	Pitch    float64 `yaml:"pitch"`
	Distance float64 `yaml:"distance"`
}

// Event is one step of a trace. At is relative to the start of the trace.
type Event struct {
	At       time.Duration `yaml:"at"`
	Type     string        `yaml:"type"`
	X        float64       `yaml:"x,omitempty"`
	Y        float64       `yaml:"y,omitempty"`
	Command  string        `yaml:"command,omitempty"`
	Duration time.Duration `yaml:"duration,omitempty"`
}

// Expect holds optional assertions checked after playback.
type Expect struct {
	Commits    []string `yaml:"commits,omitempty"`
	Drops      *int     `yaml:"drops,omitempty"`
	Recoveries *int     `yaml:"recoveries,omitempty"`
	Identity   *bool    `yaml:"identity,omitempty"`
}

// Load reads and validates a trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a trace.
func Parse(data []byte) (*Trace, error) {
	var t Trace
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode trace: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Save writes the trace as YAML.
func (t *Trace) Save(path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	return nil
}

// Validate checks event order, types and pointer pairing.
func (t *Trace) Validate() error {
	if t.Viewport.Width <= 0 || t.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidTrace, t.Viewport.Width, t.Viewport.Height)
	}
	if t.Frame < 0 || t.Settle < 0 {
		return fmt.Errorf("%w: negative frame or settle", ErrInvalidTrace)
	}

	down := false
	var last time.Duration
	for i, e := range t.Events {
		if e.At < last {
			return fmt.Errorf("%w: event %d at %s is before %s", ErrInvalidTrace, i, e.At, last)
		}
		last = e.At

		switch e.Type {
		case EventDown:
			down = true
		case EventMove:
			if !down {
				return fmt.Errorf("%w: event %d: move without down", ErrInvalidTrace, i)
			}
		case EventUp, EventCancel:
			down = false
		case EventRotate:
			if _, err := cubetwist.ParseCommand(e.Command); err != nil {
				return fmt.Errorf("%w: event %d: %v", ErrInvalidTrace, i, err)
			}
		case EventStall:
			if e.Duration <= 0 {
				return fmt.Errorf("%w: event %d: stall needs a duration", ErrInvalidTrace, i)
			}
		case EventReset:
		default:
			return fmt.Errorf("%w: event %d: unknown type %q", ErrInvalidTrace, i, e.Type)
		}
	}

	if t.Expect != nil {
		for _, c := range t.Expect.Commits {
			if _, err := cubetwist.ParseCommand(c); err != nil {
				return fmt.Errorf("%w: expected commit: %v", ErrInvalidTrace, err)
			}
		}
	}
	return nil
}

func (t *Trace) frame() time.Duration {
	if t.Frame > 0 {
		return t.Frame
	}
	return DefaultFrame
}

func (t *Trace) settle() time.Duration {
	if t.Settle > 0 {
		return t.Settle
	}
	return DefaultSettle
}
