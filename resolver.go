package cubetwist

import "math"

// Face is an outer face of the cube.
type Face int

const (
	FaceNone Face = iota
	FaceFront
	FaceBack
	FaceLeft
	FaceRight
	FaceTop
	FaceBottom
)

func (f Face) String() string {
	switch f {
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	default:
		return "none"
	}
}

// FaceOf classifies which face a piece lies on. Corner and edge pieces sit
// on several faces; the first match in the order front, back, left, right,
// top, bottom wins. The core piece lies on none.
func FaceOf(c Coord) Face {
	const m = LatticeSize - 1
	switch {
	case c.Z == m:
		return FaceFront
	case c.Z == 0:
		return FaceBack
	case c.X == 0:
		return FaceLeft
	case c.X == m:
		return FaceRight
	case c.Y == m:
		return FaceTop
	case c.Y == 0:
		return FaceBottom
	default:
		return FaceNone
	}
}

// faceAxes gives the rotation axis for a horizontal and a vertical swipe
// on each face group.
func faceAxes(f Face) (horizontal, vertical Axis) {
	switch f {
	case FaceFront, FaceBack:
		return AxisY, AxisX
	case FaceLeft, FaceRight:
		return AxisZ, AxisY
	default:
		return AxisY, AxisZ
	}
}

// SignConvention maps swipe direction to turn direction. It is the same
// for every face group.
type SignConvention struct {
	RightIsClockwise bool // Rightward horizontal swipes turn clockwise
	DownIsClockwise  bool // Downward vertical swipes turn clockwise
}

// DefaultSignConvention returns the convention used by the interactive app.
func DefaultSignConvention() SignConvention {
	return SignConvention{RightIsClockwise: true, DownIsClockwise: true}
}

// Resolution is a resolved swipe plus the facts that led to it.
type Resolution struct {
	Command    RotationCommand
	Face       Face
	Horizontal bool
	Swipe      Vec2 // Camera-relative swipe, +Y up
}

// Resolver maps a classified swipe on a touched piece to a slice turn.
// It reads lattice coordinates but never writes them.
type Resolver struct {
	sign SignConvention
}

// NewResolver creates a resolver with the given sign convention.
func NewResolver(sign SignConvention) *Resolver {
	return &Resolver{sign: sign}
}

// CameraSwipe expresses a screen swipe (+Y down) in the camera's right/up
// frame. Screen axes are the camera's right and up, so for any camera the
// result is the swipe with Y flipped to point up; forward only decides
// whether the basis exists. If forward is parallel to WorldUp the basis
// collapses and the flip is applied directly.
func CameraSwipe(forward Vec3, swipe Vec2) Vec2 {
	right, up := CameraBasis(forward)
	if IsZero(right) || IsZero(up) {
		return Vec2{swipe.X(), -swipe.Y()}
	}

	world := right.Mul(float32(swipe.X())).Add(up.Mul(float32(-swipe.Y())))
	return Vec2{float64(Dot(world, right)), float64(Dot(world, up))}
}

// Resolve computes the slice turn for a swipe on the piece at piece.
// piece must be the piece's current position.
func (r *Resolver) Resolve(piece Coord, forward Vec3, swipe Vec2) (Resolution, error) {
	if !piece.Valid() {
		return Resolution{}, ErrNoPiece
	}

	face := FaceOf(piece)
	if face == FaceNone {
		return Resolution{}, ErrNoFace
	}

	s := CameraSwipe(forward, swipe)
	sx, sy := s.X(), s.Y()
	if math.Abs(sx) < zeroLength && math.Abs(sy) < zeroLength {
		return Resolution{}, ErrNoSwipe
	}

	hAxis, vAxis := faceAxes(face)
	horizontal := math.Abs(sx) >= math.Abs(sy)

	var cmd RotationCommand
	if horizontal {
		cmd.Axis = hAxis
		cmd.Clockwise = (sx > 0) == r.sign.RightIsClockwise
	} else {
		cmd.Axis = vAxis
		cmd.Clockwise = (sy < 0) == r.sign.DownIsClockwise
	}
	cmd.Layer = piece.Along(cmd.Axis)

	return Resolution{Command: cmd, Face: face, Horizontal: horizontal, Swipe: s}, nil
}
