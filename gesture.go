package cubetwist

import (
	"fmt"
	"time"
)

// GestureSample is one pointer-movement tick of an active single-pointer
// gesture. Distances are in pixels, velocity in pixels per second.
type GestureSample struct {
	Point       Vec2          // Current screen point
	Translation Vec2          // Cumulative translation since the gesture began
	Velocity    Vec2          // Instantaneous velocity
	Elapsed     time.Duration // Time since the gesture began
	FrameDelta  Vec2          // Displacement since the previous sample
}

// GesturePhase is the classifier state.
type GesturePhase int

const (
	PhaseIdle GesturePhase = iota
	PhaseSampling
	PhaseOrbit
	PhaseTwist
)

func (p GesturePhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSampling:
		return "sampling"
	case PhaseOrbit:
		return "orbit"
	case PhaseTwist:
		return "twist"
	default:
		return "unknown"
	}
}

// GestureKind is the classification attached to a sample.
type GestureKind int

const (
	GesturePending GestureKind = iota // Not enough evidence yet
	GestureOrbit
	GestureTwist
)

func (k GestureKind) String() string {
	switch k {
	case GesturePending:
		return "pending"
	case GestureOrbit:
		return "orbit"
	case GestureTwist:
		return "twist"
	default:
		return "unknown"
	}
}

// Rule names the classification rule that fired.
type Rule int

const (
	RuleNone Rule = iota
	RuleContinuous
	RuleExtremeLong
	RuleExtremeShort
	RuleQuickFlick
	RuleLongDistance
	RuleOrbitHold
)

func (r Rule) String() string {
	switch r {
	case RuleNone:
		return "none"
	case RuleContinuous:
		return "continuous"
	case RuleExtremeLong:
		return "extreme_long"
	case RuleExtremeShort:
		return "extreme_short"
	case RuleQuickFlick:
		return "quick_flick"
	case RuleLongDistance:
		return "long_distance"
	case RuleOrbitHold:
		return "orbit_hold"
	default:
		return "unknown"
	}
}

// Thresholds tune the classifier. Distances are pixels, velocities pixels
// per second.
type Thresholds struct {
	MinActionDistance   float64       // Nothing is classified below this distance
	MovementFloor       float64       // Frame displacement that counts as movement
	MinContinuousFrames int           // Moving frames needed for the continuity rule
	MaxPauseFrames      int           // Pauses tolerated by the continuity rule
	ExtremeVelocity     float64       // Velocity for the extreme rules
	ExtremeLongDistance float64       // Splits extreme-velocity orbits from twists
	HighVelocity        float64       // Velocity for the quick-flick rule
	QuickDuration       time.Duration // Max elapsed time for the quick-flick rule
	QuickMaxDistance    float64       // Max distance for the quick-flick rule
	OrbitDistance       float64       // Distance that is always an orbit
}

// DefaultThresholds returns the tuning used by the interactive app.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinActionDistance:   20,
		MovementFloor:       1.5,
		MinContinuousFrames: 6,
		MaxPauseFrames:      2,
		ExtremeVelocity:     1500,
		ExtremeLongDistance: 80,
		HighVelocity:        500,
		QuickDuration:       200 * time.Millisecond,
		QuickMaxDistance:    60,
		OrbitDistance:       150,
	}
}

// Validate rejects thresholds the rules cannot work with.
func (t Thresholds) Validate() error {
	switch {
	case t.MinActionDistance < 0:
		return fmt.Errorf("min action distance %v: must not be negative", t.MinActionDistance)
	case t.MovementFloor < 0:
		return fmt.Errorf("movement floor %v: must not be negative", t.MovementFloor)
	case t.MinContinuousFrames < 1:
		return fmt.Errorf("min continuous frames %d: must be at least 1", t.MinContinuousFrames)
	case t.MaxPauseFrames < 0:
		return fmt.Errorf("max pause frames %d: must not be negative", t.MaxPauseFrames)
	case t.HighVelocity > t.ExtremeVelocity:
		return fmt.Errorf("high velocity %v exceeds extreme velocity %v", t.HighVelocity, t.ExtremeVelocity)
	case t.OrbitDistance <= t.MinActionDistance:
		return fmt.Errorf("orbit distance %v must exceed min action distance %v", t.OrbitDistance, t.MinActionDistance)
	}
	return nil
}

// Decision is the classifier's verdict for one sample.
type Decision struct {
	Kind   GestureKind
	Rule   Rule
	Fresh  bool // The twist was finalized by this sample
	Haptic bool // A haptic cue should fire
}

// GestureSummary describes a finished gesture.
type GestureSummary struct {
	Kind       GestureKind
	Rule       Rule
	Distance   float64
	Samples    int
	Continuous int
	Pauses     int
	Duration   time.Duration
}

// GestureClassifier decides, sample by sample, whether the active gesture
// orbits the camera or twists a slice.
//
// States: Idle -> Sampling -> {Orbit | Twist} -> Idle. A twist is final
// until the gesture ends; an orbit is re-evaluated on every sample.
type GestureClassifier struct {
	thresholds Thresholds

	phase      GesturePhase
	rule       Rule
	distance   float64
	samples    int
	continuous int
	pauses     int
	elapsed    time.Duration
}

// NewGestureClassifier creates a classifier with the given thresholds.
func NewGestureClassifier(t Thresholds) *GestureClassifier {
	return &GestureClassifier{thresholds: t}
}

// Thresholds returns the active tuning.
func (g *GestureClassifier) Thresholds() Thresholds {
	return g.thresholds
}

// Phase returns the current state.
func (g *GestureClassifier) Phase() GesturePhase {
	return g.phase
}

// Distance returns the accumulated path length of the active gesture.
func (g *GestureClassifier) Distance() float64 {
	return g.distance
}

// Begin starts a new gesture, discarding anything accumulated so far.
func (g *GestureClassifier) Begin() {
	g.reset()
	g.phase = PhaseSampling
}

// End finishes the gesture and returns what it was classified as.
// Counters are reset regardless of which branch fired.
func (g *GestureClassifier) End() GestureSummary {
	s := GestureSummary{
		Kind:       phaseKind(g.phase),
		Rule:       g.rule,
		Distance:   g.distance,
		Samples:    g.samples,
		Continuous: g.continuous,
		Pauses:     g.pauses,
		Duration:   g.elapsed,
	}
	g.reset()
	return s
}

func (g *GestureClassifier) reset() {
	g.phase = PhaseIdle
	g.rule = RuleNone
	g.distance = 0
	g.samples = 0
	g.continuous = 0
	g.pauses = 0
	g.elapsed = 0
}

func phaseKind(p GesturePhase) GestureKind {
	switch p {
	case PhaseOrbit:
		return GestureOrbit
	case PhaseTwist:
		return GestureTwist
	default:
		return GesturePending
	}
}

// Observe folds one sample into the gesture and classifies it.
func (g *GestureClassifier) Observe(s GestureSample) Decision {
	switch g.phase {
	case PhaseIdle:
		return Decision{Kind: GesturePending}
	case PhaseTwist:
		// Final until the gesture ends.
		return Decision{Kind: GestureTwist, Rule: g.rule}
	}

	frame := s.FrameDelta.Len()
	g.distance += frame
	g.samples++
	g.elapsed = s.Elapsed
	if frame > g.thresholds.MovementFloor {
		g.continuous++
	} else {
		g.pauses++
	}

	if g.distance <= g.thresholds.MinActionDistance {
		return Decision{Kind: phaseKind(g.phase), Rule: g.rule}
	}

	t := g.thresholds
	speed := s.Velocity.Len()

	switch {
	case g.continuous >= t.MinContinuousFrames && g.pauses <= t.MaxPauseFrames:
		return g.orbit(RuleContinuous)
	case speed >= t.ExtremeVelocity && g.distance >= t.ExtremeLongDistance:
		return g.orbit(RuleExtremeLong)
	case speed >= t.ExtremeVelocity:
		d := g.twist(RuleExtremeShort)
		d.Haptic = true
		return d
	case s.Elapsed <= t.QuickDuration && speed >= t.HighVelocity && g.distance <= t.QuickMaxDistance:
		return g.twist(RuleQuickFlick)
	case g.distance >= t.OrbitDistance:
		return g.orbit(RuleLongDistance)
	case g.phase == PhaseOrbit:
		return g.orbit(RuleOrbitHold)
	}

	return Decision{Kind: GesturePending}
}

func (g *GestureClassifier) orbit(r Rule) Decision {
	g.phase = PhaseOrbit
	g.rule = r
	return Decision{Kind: GestureOrbit, Rule: r}
}

func (g *GestureClassifier) twist(r Rule) Decision {
	g.phase = PhaseTwist
	g.rule = r
	return Decision{Kind: GestureTwist, Rule: r, Fresh: true}
}
