// Package scene is a headless renderer for the cubetwist engine. It keeps
// 27 cubie transforms, projects them through an orbit camera onto a pixel
// viewport, answers hit tests and animates slice turns with a spring.
//
// A Scene is not safe for concurrent use; drive it from the same logical
// thread as the Engine.
package scene

import (
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubetwist"
)

// Viewport is the pixel area the scene projects onto.
type Viewport struct {
	Width  int
	Height int
	FOV    float32 // Vertical field of view in radians
}

// DefaultViewport is used until SetViewport is called.
var DefaultViewport = Viewport{Width: 800, Height: 600, FOV: mgl32.DegToRad(45)}

// DefaultHitRadius is how far, in pixels, a hit test searches for the
// nearest piece when the point misses every sticker.
const DefaultHitRadius = 24.0

// Spring defaults for the slice-turn animation.
const (
	DefaultFPS       = 60
	DefaultFrequency = 18.0
	DefaultDamping   = 1.0
)

// Option configures a Scene.
type Option func(*Scene)

// WithViewport sets the projection target.
func WithViewport(v Viewport) Option {
	return func(s *Scene) { s.viewport = v }
}

// WithCamera sets the starting camera.
func WithCamera(c cubetwist.OrbitCamera) Option {
	return func(s *Scene) { s.camera = c }
}

// WithSpring tunes the slice-turn animation. frequency and damping are
// passed to harmonica.NewSpring.
func WithSpring(fps int, frequency, damping float64) Option {
	return func(s *Scene) {
		if fps > 0 {
			s.fps = fps
		}
		s.frequency = frequency
		s.damping = damping
	}
}

// WithHitRadius sets the nearest-piece fallback radius in pixels.
func WithHitRadius(r float64) Option {
	return func(s *Scene) { s.hitRadius = r }
}

// WithLogger sets the scene logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scene implements cubetwist.Renderer, Retagger and Resyncer.
type Scene struct {
	cubies    []*Cubie
	camera    cubetwist.OrbitCamera
	viewport  Viewport
	hitRadius float64
	logger    *zap.Logger

	fps       int
	frequency float64
	damping   float64
	acc       time.Duration

	turn *turn
}

var (
	_ cubetwist.Renderer = (*Scene)(nil)
	_ cubetwist.Retagger = (*Scene)(nil)
	_ cubetwist.Resyncer = (*Scene)(nil)
)

// New creates a scene in the identity layout.
func New(opts ...Option) *Scene {
	s := &Scene{
		camera:    cubetwist.NewOrbitCamera(),
		viewport:  DefaultViewport,
		hitRadius: DefaultHitRadius,
		logger:    zap.NewNop(),
		fps:       DefaultFPS,
		frequency: DefaultFrequency,
		damping:   DefaultDamping,
	}
	for _, opt := range opts {
		opt(s)
	}

	l := cubetwist.NewLattice()
	for _, p := range l.Pieces() {
		s.cubies = append(s.cubies, newCubie(p.Home))
	}
	return s
}

// Handles returns the node for each piece keyed by its home tag, the form
// cubetwist.NewEngine expects.
func (s *Scene) Handles() map[string]cubetwist.Handle {
	m := make(map[string]cubetwist.Handle, len(s.cubies))
	for _, c := range s.cubies {
		m[cubetwist.Tag(c.Home)] = c
	}
	return m
}

// Cubies returns every node.
func (s *Scene) Cubies() []*Cubie {
	return s.cubies
}

// Cubie returns the node currently tagged tag.
func (s *Scene) Cubie(tag string) (*Cubie, bool) {
	for _, c := range s.cubies {
		if c.Tag == tag {
			return c, true
		}
	}
	return nil, false
}

// Camera returns the current camera.
func (s *Scene) Camera() cubetwist.OrbitCamera {
	return s.camera
}

// Viewport returns the projection target.
func (s *Scene) Viewport() Viewport {
	return s.viewport
}

// SetViewport changes the projection target, e.g. after a terminal resize.
func (s *Scene) SetViewport(v Viewport) {
	s.viewport = v
}

// CameraForward implements cubetwist.Renderer.
func (s *Scene) CameraForward() cubetwist.Vec3 {
	return s.camera.Forward()
}

// OrbitCamera implements cubetwist.Renderer.
func (s *Scene) OrbitCamera(deltaYaw, deltaPitch float64) {
	s.camera.Orbit(deltaYaw, deltaPitch)
}

// Retag implements cubetwist.Retagger.
func (s *Scene) Retag(retags []cubetwist.Retag) {
	for _, r := range retags {
		c, ok := r.Handle.(*Cubie)
		if !ok {
			s.logger.Warn("retag for foreign handle", zap.String("tag", r.OldTag))
			continue
		}
		c.Tag = r.NewTag
	}
}

// Resync implements cubetwist.Resyncer. Any running turn is dropped without
// completing, and every node is made to agree with l.
func (s *Scene) Resync(l *cubetwist.Lattice) {
	if s.turn != nil {
		s.logger.Debug("turn cancelled", zap.Stringer("command", s.turn.cmd))
		s.turn = nil
	}

	for _, p := range l.Pieces() {
		c, ok := p.Handle.(*Cubie)
		if !ok {
			continue
		}
		if c.Coord() != p.Pos {
			if p.Pos != p.Home {
				s.logger.Warn("cannot resync piece",
					zap.String("tag", c.Tag),
					zap.Stringer("visual", c.Coord()),
					zap.Stringer("logical", p.Pos))
				continue
			}
			c.rotation = mgl32.Ident4()
		}
		c.Tag = cubetwist.Tag(p.Pos)
	}
}

func (s *Scene) newSpring() harmonica.Spring {
	return harmonica.NewSpring(harmonica.FPS(s.fps), s.frequency, s.damping)
}

func (s *Scene) frameDelta() time.Duration {
	return time.Second / time.Duration(s.fps)
}
