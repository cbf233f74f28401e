package cubetwist

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a world-space vector.
type Vec3 = mgl32.Vec3

// Vec2 is a screen-space vector in pixels. +X is right, +Y is down.
type Vec2 = mgl64.Vec2

// zeroLength is the length below which a vector is treated as zero.
const zeroLength = 1e-6

// WorldUp is the up direction assumed when deriving the camera basis.
var WorldUp = Vec3{0, 1, 0}

// Normalize returns v scaled to unit length. A zero-length vector yields
// the zero vector; callers must handle that case.
func Normalize(v Vec3) Vec3 {
	l := v.Len()
	if l < zeroLength {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Cross returns a x b.
func Cross(a, b Vec3) Vec3 {
	return a.Cross(b)
}

// Dot returns a . b.
func Dot(a, b Vec3) float32 {
	return a.Dot(b)
}

// IsZero reports whether v is (numerically) the zero vector.
func IsZero(v Vec3) bool {
	return v.Len() < zeroLength
}

// CameraBasis derives the right and up vectors for a camera looking along
// forward. When forward is parallel to WorldUp both results are zero.
func CameraBasis(forward Vec3) (right, up Vec3) {
	f := Normalize(forward)
	right = Normalize(Cross(f, WorldUp))
	up = Normalize(Cross(right, f))
	return right, up
}
