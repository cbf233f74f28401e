package cubetwist

import "time"

// PointerTracker turns raw pointer positions into GestureSamples.
type PointerTracker struct {
	active bool
	start  Vec2
	last   Vec2
	began  time.Time
	prevAt time.Time
}

// Begin starts tracking at p.
func (t *PointerTracker) Begin(p Vec2, at time.Time) {
	t.active = true
	t.start = p
	t.last = p
	t.began = at
	t.prevAt = at
}

// Active reports whether a gesture is being tracked.
func (t *PointerTracker) Active() bool {
	return t.active
}

// Start returns where the active gesture began.
func (t *PointerTracker) Start() Vec2 {
	return t.start
}

// Move records a new pointer position and returns the sample for it.
// Velocity is the frame displacement over the frame interval; a zero
// interval yields zero velocity.
func (t *PointerTracker) Move(p Vec2, at time.Time) GestureSample {
	delta := p.Sub(t.last)
	dt := at.Sub(t.prevAt).Seconds()

	var vel Vec2
	if dt > 0 {
		vel = delta.Mul(1 / dt)
	}

	t.last = p
	t.prevAt = at

	return GestureSample{
		Point:       p,
		Translation: p.Sub(t.start),
		Velocity:    vel,
		Elapsed:     at.Sub(t.began),
		FrameDelta:  delta,
	}
}

// End stops tracking.
func (t *PointerTracker) End() {
	*t = PointerTracker{}
}
