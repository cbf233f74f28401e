package cubetwist

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome is what the engine did with one pointer sample.
type Outcome struct {
	Decision   Decision
	Resolution *Resolution // Set when a twist resolved to a command
	Piece      PieceID     // Touched piece, valid when Resolution is set
	Err        error       // Absorbed failure: no piece, dropped rotation, ...
}

// Started reports whether the sample started a rotation.
func (o Outcome) Started() bool {
	return o.Resolution != nil && o.Err == nil
}

// Drop describes a twist that did not turn into a rotation.
type Drop struct {
	GestureID uuid.UUID
	Command   *RotationCommand // Nil when no command was resolved
	Reason    error
}

// GestureReport describes a finished gesture.
type GestureReport struct {
	ID      uuid.UUID
	Start   Vec2
	Summary GestureSummary
	Command *RotationCommand // The rotation this gesture began, if any
}

// Engine wires the gesture pipeline: pointer samples are classified, twists
// are resolved to slice turns and handed to the animator, and orbits go
// straight to the renderer's camera.
//
// Engine methods must be called from a single logical thread. Every entry
// point first runs queued watchdog work; a front end that may sit idle
// while a rotation is stuck should also call Poll, e.g. once per frame.
type Engine struct {
	renderer   Renderer
	animator   *Animator
	classifier *GestureClassifier
	resolver   *Resolver
	pointer    PointerTracker
	clock      Clock
	haptics    Haptics
	logger     *zap.Logger

	sensitivity float64

	gestureID uuid.UUID
	started   *RotationCommand

	onGesture []func(GestureReport)
	onDrop    []func(Drop)
}

// NewEngine creates an engine over a fresh lattice. Handles for each piece
// are taken from handles, keyed by the piece's home tag; missing entries
// stay nil.
func NewEngine(r Renderer, handles map[string]Handle, opts ...Option) *Engine {
	cfg := buildConfig(opts)

	l := NewLattice()
	for _, p := range l.Pieces() {
		if h, ok := handles[Tag(p.Home)]; ok {
			l.Attach(p.ID, h)
		}
	}

	return &Engine{
		renderer:    r,
		animator:    NewAnimator(l, r, opts...),
		classifier:  NewGestureClassifier(cfg.thresholds),
		resolver:    NewResolver(cfg.sign),
		clock:       cfg.clock,
		haptics:     cfg.haptics,
		logger:      cfg.logger,
		sensitivity: cfg.sensitivity,
	}
}

// Animator exposes the rotation animator.
func (e *Engine) Animator() *Animator {
	return e.animator
}

// Lattice returns a snapshot of the committed layout.
func (e *Engine) Lattice() *Lattice {
	return e.animator.Lattice()
}

// Busy reports whether a rotation is in flight.
func (e *Engine) Busy() bool {
	return e.animator.Busy()
}

// Poll runs queued watchdog work on the caller's thread. See WithDispatcher.
func (e *Engine) Poll() int {
	return e.animator.Poll()
}

// Phase returns the classifier state for the active gesture.
func (e *Engine) Phase() GesturePhase {
	return e.classifier.Phase()
}

// OnCommit registers a callback for committed rotations.
func (e *Engine) OnCommit(cb func(Commit)) {
	e.animator.OnCommit(cb)
}

// OnRecover registers a callback for watchdog recoveries.
func (e *Engine) OnRecover(cb func(Recovery)) {
	e.animator.OnRecover(cb)
}

// OnGesture registers a callback for finished gestures.
func (e *Engine) OnGesture(cb func(GestureReport)) {
	e.onGesture = append(e.onGesture, cb)
}

// OnDrop registers a callback for twists that produced no rotation.
func (e *Engine) OnDrop(cb func(Drop)) {
	e.onDrop = append(e.onDrop, cb)
}

// Began starts a single-pointer gesture at p.
func (e *Engine) Began(p Vec2) {
	e.BeganAt(p, e.clock.Now())
}

// BeganAt starts a gesture with an explicit timestamp.
func (e *Engine) BeganAt(p Vec2, at time.Time) {
	e.animator.Poll()
	e.pointer.Begin(p, at)
	e.classifier.Begin()
	e.gestureID = uuid.New()
	e.started = nil
}

// Moved feeds a pointer position to the active gesture.
func (e *Engine) Moved(p Vec2) Outcome {
	return e.MovedAt(p, e.clock.Now())
}

// MovedAt feeds a pointer position with an explicit timestamp.
func (e *Engine) MovedAt(p Vec2, at time.Time) Outcome {
	e.animator.Poll()
	if !e.pointer.Active() {
		return Outcome{}
	}
	return e.Observe(e.pointer.Move(p, at))
}

// Observe feeds a prepared sample to the active gesture.
func (e *Engine) Observe(s GestureSample) Outcome {
	d := e.classifier.Observe(s)
	out := Outcome{Decision: d}

	switch {
	case d.Kind == GestureOrbit:
		yaw, pitch := DragDelta(s.FrameDelta, e.sensitivity)
		e.renderer.OrbitCamera(yaw, pitch)

	case d.Kind == GestureTwist && d.Fresh:
		e.logger.Debug("twist classified",
			zap.Stringer("rule", d.Rule),
			zap.Float64("distance", e.classifier.Distance()))
		if d.Haptic && e.haptics != nil {
			e.haptics.Impact()
		}
		e.twist(s, &out)
	}

	return out
}

// twist resolves the swipe and begins the rotation. Failures are absorbed
// into out.Err and reported through OnDrop.
func (e *Engine) twist(s GestureSample, out *Outcome) {
	start := e.pointer.Start()

	tag, ok := e.renderer.HitTest(start)
	if !ok {
		e.drop(out, nil, ErrNoPiece)
		return
	}
	coord, err := ParseTag(tag)
	if err != nil {
		// A handle we cannot map back is treated as a miss.
		e.logger.Debug("unmappable hit", zap.String("tag", tag), zap.Error(err))
		e.drop(out, nil, ErrNoPiece)
		return
	}
	id, ok := e.animator.PieceAt(coord)
	if !ok {
		e.drop(out, nil, ErrNoPiece)
		return
	}

	res, err := e.resolver.Resolve(coord, e.renderer.CameraForward(), s.Translation)
	if err != nil {
		e.drop(out, nil, err)
		return
	}
	out.Resolution = &res
	out.Piece = id

	if err := e.animator.Begin(res.Command); err != nil {
		cmd := res.Command
		e.drop(out, &cmd, err)
		return
	}
	cmd := res.Command
	e.started = &cmd
}

func (e *Engine) drop(out *Outcome, cmd *RotationCommand, reason error) {
	out.Err = reason
	if errors.Is(reason, ErrNoPiece) {
		e.logger.Debug("no piece resolved")
	}
	d := Drop{GestureID: e.gestureID, Command: cmd, Reason: reason}
	for _, cb := range e.onDrop {
		cb(d)
	}
}

// Ended finishes the active gesture. A rotation lock held past the
// watchdog interval is released here as well.
func (e *Engine) Ended() GestureReport {
	start := e.pointer.Start()
	active := e.pointer.Active()
	summary := e.classifier.End()
	e.pointer.End()

	e.animator.RecoverIfStuck()

	r := GestureReport{ID: e.gestureID, Start: start, Summary: summary, Command: e.started}
	e.started = nil
	if !active {
		return r
	}
	for _, cb := range e.onGesture {
		cb(r)
	}
	return r
}

// Cancelled aborts the active gesture. It behaves like Ended.
func (e *Engine) Cancelled() GestureReport {
	return e.Ended()
}

// Rotate begins a rotation without a gesture, subject to the same lock.
func (e *Engine) Rotate(cmd RotationCommand) error {
	return e.animator.Begin(cmd)
}

// Reset restores the identity layout. It fails while a rotation is in flight.
func (e *Engine) Reset() error {
	return e.animator.Reset()
}
