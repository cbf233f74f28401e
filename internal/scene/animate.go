package scene

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubetwist"
)

// Settle thresholds for the turn spring, in radians and radians per frame.
const (
	settleAngle    = 1e-3
	settleVelocity = 1e-2
)

// maxTurnFrames bounds a turn whose spring never settles, e.g. with zero
// damping.
const maxTurnFrames = 600

type turn struct {
	cmd        cubetwist.RotationCommand
	cubies     map[*Cubie]bool
	spring     harmonica.Spring
	angle      float64
	velocity   float64
	target     float64
	frames     int
	onComplete func()
}

// AnimateSliceTurn implements cubetwist.Renderer. The turn advances as
// Step is called; onComplete runs from Step once the sweep settles.
func (s *Scene) AnimateSliceTurn(pieces []cubetwist.Handle, cmd cubetwist.RotationCommand, onComplete func()) {
	if s.turn != nil {
		// The animator only starts a turn after releasing the previous one.
		s.logger.Debug("turn superseded", zap.Stringer("command", s.turn.cmd))
	}

	t := &turn{
		cmd:        cmd,
		cubies:     make(map[*Cubie]bool, len(pieces)),
		spring:     s.newSpring(),
		target:     cmd.Angle(),
		onComplete: onComplete,
	}
	for _, h := range pieces {
		if c, ok := h.(*Cubie); ok {
			t.cubies[c] = true
		}
	}
	s.turn = t
	s.acc = 0
}

// Animating reports whether a slice turn is in progress.
func (s *Scene) Animating() bool {
	return s.turn != nil
}

// Step advances the animation clock by dt in fixed spring frames.
func (s *Scene) Step(dt time.Duration) {
	if s.turn == nil {
		return
	}
	s.acc += dt
	frame := s.frameDelta()
	for s.acc >= frame && s.turn != nil {
		s.acc -= frame
		s.advance()
	}
}

func (s *Scene) advance() {
	t := s.turn
	t.angle, t.velocity = t.spring.Update(t.angle, t.velocity, t.target)
	t.frames++

	settled := math.Abs(t.target-t.angle) < settleAngle && math.Abs(t.velocity) < settleVelocity
	if !settled && t.frames < maxTurnFrames {
		return
	}

	rot := mgl32.HomogRotate3D(float32(t.target), t.cmd.Axis.Unit())
	for c := range t.cubies {
		c.bake(rot)
	}
	s.turn = nil
	s.acc = 0

	if t.onComplete != nil {
		t.onComplete()
	}
}

// transform returns the world transform of c including any running turn.
func (s *Scene) transform(c *Cubie) mgl32.Mat4 {
	if s.turn != nil && s.turn.cubies[c] {
		return mgl32.HomogRotate3D(float32(s.turn.angle), s.turn.cmd.Axis.Unit()).Mul4(c.rotation)
	}
	return c.rotation
}
