package cubetwist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrbitClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.Orbit(0, 10)
	assert.Equal(t, math.Pi/2, c.Pitch)
	c.Orbit(0, -20)
	assert.Equal(t, -math.Pi/2, c.Pitch)
}

func TestForwardPointsAtCentre(t *testing.T) {
	c := OrbitCamera{Distance: 4}
	f := c.Forward()
	assert.InDelta(t, -1, f.Z(), 1e-6)

	c = NewOrbitCamera()
	p := c.Position()
	assert.InDelta(t, 4, p.Len(), 1e-5)
	assert.InDelta(t, -1, Dot(Normalize(p), c.Forward()), 1e-5)
}

func TestDragDelta(t *testing.T) {
	yaw, pitch := DragDelta(Vec2{10, 5}, 0.01)
	assert.InDelta(t, 0.1, yaw, 1e-9)
	assert.InDelta(t, -0.05, pitch, 1e-9)
}
