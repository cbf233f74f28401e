package cubetwist

import (
	"math"

	"github.com/chewxy/math32"
)

// Default orbit camera placement.
const (
	DefaultCameraDistance = 4.0
	DefaultCameraYaw      = 0.3
	DefaultCameraPitch    = 0.3
)

// OrbitCamera circles the cube centre at a fixed distance. Yaw turns about
// the world up axis; pitch tilts toward it and is clamped to +-pi/2.
type OrbitCamera struct {
	Yaw      float64
	Pitch    float64
	Distance float64
}

// NewOrbitCamera returns the camera used at startup.
func NewOrbitCamera() OrbitCamera {
	return OrbitCamera{
		Yaw:      DefaultCameraYaw,
		Pitch:    DefaultCameraPitch,
		Distance: DefaultCameraDistance,
	}
}

// Orbit applies a yaw and pitch delta.
func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float64) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch))
}

// Position returns the camera location in world space.
func (c OrbitCamera) Position() Vec3 {
	yaw := float32(c.Yaw)
	pitch := float32(c.Pitch)
	d := float32(c.Distance)
	return Vec3{
		d * math32.Cos(pitch) * math32.Sin(yaw),
		d * math32.Sin(pitch),
		d * math32.Cos(pitch) * math32.Cos(yaw),
	}
}

// Forward returns the unit view direction, from the camera toward the
// cube centre.
func (c OrbitCamera) Forward() Vec3 {
	return Normalize(c.Position().Mul(-1))
}

// DragDelta converts a screen drag to orbit deltas: rightward drags yaw
// positively, upward drags pitch positively.
func DragDelta(frame Vec2, sensitivity float64) (deltaYaw, deltaPitch float64) {
	return frame.X() * sensitivity, -frame.Y() * sensitivity
}
