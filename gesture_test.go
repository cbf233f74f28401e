package cubetwist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 16 * time.Millisecond

// feed runs a straight-line horizontal drag through a classifier, one
// sample per frame, with the given per-frame step and reported speed.
func feed(g *GestureClassifier, steps []float64, speeds []float64) []Decision {
	var out []Decision
	var x float64
	for i, step := range steps {
		x += step
		out = append(out, g.Observe(GestureSample{
			Point:       Vec2{x, 0},
			Translation: Vec2{x, 0},
			Velocity:    Vec2{speeds[i], 0},
			Elapsed:     time.Duration(i+1) * frame,
			FrameDelta:  Vec2{step, 0},
		}))
	}
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestIdleClassifierIgnoresSamples(t *testing.T) {
	g := NewGestureClassifier(DefaultThresholds())
	d := g.Observe(GestureSample{FrameDelta: Vec2{100, 0}, Velocity: Vec2{5000, 0}})
	assert.Equal(t, GesturePending, d.Kind)
	assert.Equal(t, PhaseIdle, g.Phase())
}

func TestBelowMinimumDistanceStaysPending(t *testing.T) {
	g := NewGestureClassifier(DefaultThresholds())
	g.Begin()
	for _, d := range feed(g, repeat(4, 5), repeat(3000, 5)) {
		assert.Equal(t, GesturePending, d.Kind)
	}
	assert.Equal(t, PhaseSampling, g.Phase())
}

func TestSingleExtremeShortSampleIsTwist(t *testing.T) {
	g := NewGestureClassifier(DefaultThresholds())
	g.Begin()
	d := feed(g, []float64{30}, []float64{2000})[0]

	assert.Equal(t, GestureTwist, d.Kind)
	assert.Equal(t, RuleExtremeShort, d.Rule)
	assert.True(t, d.Fresh)
	assert.True(t, d.Haptic)
	assert.Equal(t, PhaseTwist, g.Phase())
}

func TestContinuousMovementBeatsEarlyVelocitySpikes(t *testing.T) {
	g := NewGestureClassifier(DefaultThresholds())
	g.Begin()

	// Small steady steps with a twist-like velocity spike at the start.
	speeds := append([]float64{2500, 2500, 2500}, repeat(200, 9)...)
	ds := feed(g, repeat(3, 12), speeds)

	for _, d := range ds {
		assert.NotEqual(t, GestureTwist, d.Kind)
	}
	last := ds[len(ds)-1]
	assert.Equal(t, GestureOrbit, last.Kind)
	assert.Equal(t, RuleContinuous, last.Rule)
}

func TestQuickFlickIsTwist(t *testing.T) {
	g := NewGestureClassifier(DefaultThresholds())
	g.Begin()
	ds := feed(g, []float64{12, 12}, []float64{750, 750})

	assert.Equal(t, GesturePending, ds[0].Kind)
	assert.Equal(t, GestureTwist, ds[1].Kind)
	assert.Equal(t, RuleQuickFlick, ds[1].Rule)
	assert.False(t, ds[1].Haptic)
}

func TestExtremeLongIsOrbit(t *testing.T) {
	g := NewGestureClassifier(DefaultThresholds())
	g.Begin()
	d := feed(g, []float64{90}, []float64{4000})[0]
	assert.Equal(t, GestureOrbit, d.Kind)
	assert.Equal(t, RuleExtremeLong, d.Rule)
}

func TestLongDistanceIsOrbit(t *testing.T) {
	th := DefaultThresholds()
	th.MaxPauseFrames = 0
	g := NewGestureClassifier(th)
	g.Begin()

	// A jerky drag: pauses rule out continuity, speed stays moderate.
	steps := []float64{40, 0, 40, 0, 40, 0, 40}
	ds := feed(g, steps, repeat(300, len(steps)))
	last := ds[len(ds)-1]
	assert.Equal(t, GestureOrbit, last.Kind)
	assert.Equal(t, RuleLongDistance, last.Rule)
}

func TestOrbitIsHeldOnceClassified(t *testing.T) {
	g := NewGestureClassifier(DefaultThresholds())
	g.Begin()
	feed(g, repeat(3, 8), repeat(200, 8))
	require.Equal(t, PhaseOrbit, g.Phase())

	// Pauses break continuity but the orbit holds.
	ds := feed(g, repeat(0, 4), repeat(0, 4))
	for _, d := range ds {
		assert.Equal(t, GestureOrbit, d.Kind)
	}
	assert.Equal(t, RuleOrbitHold, ds[len(ds)-1].Rule)
}

func TestTwistIsFinalUntilEnd(t *testing.T) {
	g := NewGestureClassifier(DefaultThresholds())
	g.Begin()
	feed(g, []float64{30}, []float64{2000})

	ds := feed(g, repeat(3, 10), repeat(200, 10))
	for _, d := range ds {
		assert.Equal(t, GestureTwist, d.Kind)
		assert.False(t, d.Fresh)
	}

	s := g.End()
	assert.Equal(t, GestureTwist, s.Kind)
	assert.Equal(t, 1, s.Samples)
	assert.Equal(t, PhaseIdle, g.Phase())
	assert.Zero(t, g.Distance())
}

func TestBeginResetsCounters(t *testing.T) {
	g := NewGestureClassifier(DefaultThresholds())
	g.Begin()
	feed(g, repeat(3, 8), repeat(200, 8))
	g.Begin()
	assert.Equal(t, PhaseSampling, g.Phase())
	assert.Zero(t, g.Distance())
}

func TestThresholdsValidate(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())

	bad := DefaultThresholds()
	bad.HighVelocity = bad.ExtremeVelocity + 1
	assert.Error(t, bad.Validate())

	bad = DefaultThresholds()
	bad.MinContinuousFrames = 0
	assert.Error(t, bad.Validate())
}

func TestPointerTrackerSamples(t *testing.T) {
	var pt PointerTracker
	t0 := time.Unix(0, 0)
	pt.Begin(Vec2{10, 10}, t0)
	s := pt.Move(Vec2{20, 10}, t0.Add(100*time.Millisecond))

	assert.Equal(t, Vec2{10, 0}, s.FrameDelta)
	assert.Equal(t, Vec2{10, 0}, s.Translation)
	assert.InDelta(t, 100, s.Velocity.X(), 1e-9)
	assert.Equal(t, 100*time.Millisecond, s.Elapsed)

	s = pt.Move(Vec2{20, 30}, t0.Add(100*time.Millisecond))
	assert.Equal(t, Vec2{}, s.Velocity)
	assert.Equal(t, Vec2{10, 20}, s.Translation)
}
