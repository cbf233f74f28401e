package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/SeamusWaldron/cubetwist"
)

// Color is a sticker colour.
type Color int

const (
	White Color = iota
	Yellow
	Green
	Blue
	Red
	Orange
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Red:
		return "red"
	case Orange:
		return "orange"
	default:
		return "unknown"
	}
}

// Cubie geometry, in world units. Cubies sit one unit apart.
const (
	faceOffset  = 0.48 // Sticker plane distance from the cubie centre
	stickerHalf = 0.42 // Half the sticker edge length
)

// Sticker is one coloured face of a cubie, in the cubie's home frame.
type Sticker struct {
	Normal cubetwist.Vec3
	Color  Color
}

// Cubie is the visual node for one piece. Its transform is a rotation about
// the cube centre applied to its home offset.
type Cubie struct {
	Home     cubetwist.Coord
	Tag      string
	Stickers []Sticker

	rotation mgl32.Mat4
}

func newCubie(home cubetwist.Coord) *Cubie {
	c := &Cubie{
		Home:     home,
		Tag:      cubetwist.Tag(home),
		rotation: mgl32.Ident4(),
	}

	const m = cubetwist.LatticeSize - 1
	add := func(n cubetwist.Vec3, col Color) {
		c.Stickers = append(c.Stickers, Sticker{Normal: n, Color: col})
	}
	if home.Y == m {
		add(cubetwist.Vec3{0, 1, 0}, White)
	}
	if home.Y == 0 {
		add(cubetwist.Vec3{0, -1, 0}, Yellow)
	}
	if home.Z == m {
		add(cubetwist.Vec3{0, 0, 1}, Green)
	}
	if home.Z == 0 {
		add(cubetwist.Vec3{0, 0, -1}, Blue)
	}
	if home.X == m {
		add(cubetwist.Vec3{1, 0, 0}, Red)
	}
	if home.X == 0 {
		add(cubetwist.Vec3{-1, 0, 0}, Orange)
	}
	return c
}

// homeOffset is the cubie centre relative to the cube centre in the
// identity layout.
func homeOffset(c cubetwist.Coord) cubetwist.Vec3 {
	return cubetwist.Vec3{float32(c.X - 1), float32(c.Y - 1), float32(c.Z - 1)}
}

// Rotation returns the committed rotation of the cubie.
func (c *Cubie) Rotation() mgl32.Mat4 {
	return c.rotation
}

// Center returns the committed world position of the cubie centre.
func (c *Cubie) Center() cubetwist.Vec3 {
	return c.rotation.Mul4x1(homeOffset(c.Home).Vec4(1)).Vec3()
}

// Coord returns the lattice position the committed transform places the
// cubie at.
func (c *Cubie) Coord() cubetwist.Coord {
	p := c.Center()
	return cubetwist.Coord{
		X: int(math32.Round(p.X())) + 1,
		Y: int(math32.Round(p.Y())) + 1,
		Z: int(math32.Round(p.Z())) + 1,
	}
}

// bake folds turn into the committed rotation. Quarter turns only have
// entries of -1, 0 and 1, so rounding removes accumulated float error.
func (c *Cubie) bake(turn mgl32.Mat4) {
	r := turn.Mul4(c.rotation)
	for i := range r {
		r[i] = math32.Round(r[i])
	}
	c.rotation = r
}

// stickerCorners returns the four corners of a sticker in the cubie's home
// frame, wound consistently.
func stickerCorners(home cubetwist.Coord, n cubetwist.Vec3) [4]cubetwist.Vec3 {
	centre := homeOffset(home).Add(n.Mul(faceOffset))

	// Two unit tangents spanning the sticker plane.
	var u cubetwist.Vec3
	switch {
	case n.X() != 0:
		u = cubetwist.Vec3{0, 1, 0}
	case n.Y() != 0:
		u = cubetwist.Vec3{0, 0, 1}
	default:
		u = cubetwist.Vec3{1, 0, 0}
	}
	v := n.Cross(u)

	u = u.Mul(stickerHalf)
	v = v.Mul(stickerHalf)
	return [4]cubetwist.Vec3{
		centre.Sub(u).Sub(v),
		centre.Add(u).Sub(v),
		centre.Add(u).Add(v),
		centre.Sub(u).Add(v),
	}
}
