package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/SeamusWaldron/cubetwist"
)

const (
	nearPlane = 0.1
	farPlane  = 100
)

// StickerView is a sticker projected onto the viewport.
type StickerView struct {
	Tag     string
	Color   Color
	Corners [4]cubetwist.Vec2 // Screen pixels, +Y down
	Depth   float32           // Window depth, 0 near to 1 far
}

// Contains reports whether p lies inside the projected quad.
func (v StickerView) Contains(p cubetwist.Vec2) bool {
	var sign float64
	for i := range v.Corners {
		a := v.Corners[i]
		b := v.Corners[(i+1)%len(v.Corners)]
		cross := (b.X()-a.X())*(p.Y()-a.Y()) - (b.Y()-a.Y())*(p.X()-a.X())
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = math.Copysign(1, cross)
		} else if math.Copysign(1, cross) != sign {
			return false
		}
	}
	return sign != 0
}

// Distance returns how far p lies outside the projected quad, zero when
// inside.
func (v StickerView) Distance(p cubetwist.Vec2) float64 {
	if v.Contains(p) {
		return 0
	}
	d := math.Inf(1)
	for i := range v.Corners {
		d = math.Min(d, segmentDistance(p, v.Corners[i], v.Corners[(i+1)%len(v.Corners)]))
	}
	return d
}

func segmentDistance(p, a, b cubetwist.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.Mul(t))).Len()
}

// matrices returns the view and projection matrices for the current camera.
func (s *Scene) matrices() (view, proj mgl32.Mat4) {
	eye := s.camera.Position()
	_, up := cubetwist.CameraBasis(s.camera.Forward())
	if cubetwist.IsZero(up) {
		up = cubetwist.Vec3{0, 0, -1}
	}
	view = mgl32.LookAtV(eye, cubetwist.Vec3{}, up)

	aspect := float32(1)
	if s.viewport.Height > 0 {
		aspect = float32(s.viewport.Width) / float32(s.viewport.Height)
	}
	proj = mgl32.Perspective(s.viewport.FOV, aspect, nearPlane, farPlane)
	return view, proj
}

// Project maps a world point to screen pixels and window depth. ok is false
// for points behind the camera.
func (s *Scene) Project(p cubetwist.Vec3) (screen cubetwist.Vec2, depth float32, ok bool) {
	view, proj := s.matrices()
	return s.project(p, view, proj)
}

func (s *Scene) project(p cubetwist.Vec3, view, proj mgl32.Mat4) (cubetwist.Vec2, float32, bool) {
	clip := proj.Mul4(view).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return cubetwist.Vec2{}, 0, false
	}
	win := mgl32.Project(p, view, proj, 0, 0, s.viewport.Width, s.viewport.Height)
	screen := cubetwist.Vec2{float64(win.X()), float64(s.viewport.Height) - float64(win.Y())}
	return screen, win.Z(), true
}

// Stickers returns every sticker facing the camera, ordered far to near so
// that drawing them in order paints correctly.
func (s *Scene) Stickers() []StickerView {
	view, proj := s.matrices()
	eye := s.camera.Position()

	var out []StickerView
	for _, c := range s.cubies {
		m := s.transform(c)
		for _, st := range c.Stickers {
			normal := m.Mul4x1(st.Normal.Vec4(0)).Vec3()
			corners := stickerCorners(c.Home, st.Normal)

			var world [4]cubetwist.Vec3
			var centre cubetwist.Vec3
			for i, corner := range corners {
				world[i] = m.Mul4x1(corner.Vec4(1)).Vec3()
				centre = centre.Add(world[i].Mul(0.25))
			}
			if cubetwist.Dot(normal, eye.Sub(centre)) <= 0 {
				continue
			}

			sv := StickerView{Tag: c.Tag, Color: st.Color}
			visible := true
			for i, w := range world {
				p, d, ok := s.project(w, view, proj)
				if !ok {
					visible = false
					break
				}
				sv.Corners[i] = p
				sv.Depth += d / 4
			}
			if visible {
				out = append(out, sv)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth > out[j].Depth })
	return out
}

// HitTest implements cubetwist.Renderer. The nearest sticker under p wins;
// when p misses every sticker, the sticker with the closest edge within the
// hit radius is used.
func (s *Scene) HitTest(p cubetwist.Vec2) (string, bool) {
	stickers := s.Stickers()

	best := ""
	bestDist := s.hitRadius
	for i := len(stickers) - 1; i >= 0; i-- {
		d := stickers[i].Distance(p)
		if d == 0 {
			return stickers[i].Tag, true
		}
		if d < bestDist {
			best, bestDist = stickers[i].Tag, d
		}
	}
	return best, best != ""
}
