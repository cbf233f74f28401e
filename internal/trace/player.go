package trace

import (
	"errors"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/scene"
)

// Start is the virtual wall time a playback begins at.
var Start = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Step is what one trace event did.
type Step struct {
	Index    int
	At       time.Duration
	Type     string
	Decision cubetwist.Decision
	Command  string // Rotation started by this event, if any
	Err      error  // Absorbed failure, if any
}

// Result is the outcome of a playback.
type Result struct {
	Steps      []Step
	Commits    []cubetwist.RotationCommand
	Drops      []cubetwist.Drop
	Recoveries []cubetwist.Recovery
	Gestures   []cubetwist.GestureReport
	Lattice    *cubetwist.Lattice
	InSync     bool // Every scene node sits where the lattice says
	Elapsed    time.Duration
}

// Player replays a trace on a ManualClock.
type Player struct {
	trace  *Trace
	clock  *cubetwist.ManualClock
	scene  *scene.Scene
	engine *cubetwist.Engine

	elapsed time.Duration
	result  Result
}

// NewPlayer prepares a playback. sceneOpts tune the renderer; opts tune
// the engine and must not replace the clock.
func NewPlayer(t *Trace, sceneOpts []scene.Option, opts ...cubetwist.Option) *Player {
	clock := cubetwist.NewManualClock(Start)

	so := []scene.Option{scene.WithViewport(scene.Viewport{
		Width:  t.Viewport.Width,
		Height: t.Viewport.Height,
		FOV:    scene.DefaultViewport.FOV,
	})}
	if t.Camera != nil {
		so = append(so, scene.WithCamera(cubetwist.OrbitCamera{
			Yaw:      t.Camera.Yaw,
			Pitch:    t.Camera.Pitch,
			Distance: t.Camera.Distance,
		}))
	}
	s := scene.New(append(so, sceneOpts...)...)

	opts = append(append([]cubetwist.Option{}, opts...), cubetwist.WithClock(clock))
	e := cubetwist.NewEngine(s, s.Handles(), opts...)

	p := &Player{trace: t, clock: clock, scene: s, engine: e}
	e.OnCommit(func(c cubetwist.Commit) { p.result.Commits = append(p.result.Commits, c.Command) })
	e.OnDrop(func(d cubetwist.Drop) { p.result.Drops = append(p.result.Drops, d) })
	e.OnRecover(func(r cubetwist.Recovery) { p.result.Recoveries = append(p.result.Recoveries, r) })
	e.OnGesture(func(g cubetwist.GestureReport) { p.result.Gestures = append(p.result.Gestures, g) })
	return p
}

// Engine returns the engine under playback, e.g. to attach a journal.
func (p *Player) Engine() *cubetwist.Engine {
	return p.engine
}

// Clock returns the virtual clock.
func (p *Player) Clock() *cubetwist.ManualClock {
	return p.clock
}

// Scene returns the renderer under playback.
func (p *Player) Scene() *scene.Scene {
	return p.scene
}

// Run plays every event, then keeps stepping until the scene settles.
func (p *Player) Run() (*Result, error) {
	for i, ev := range p.trace.Events {
		p.advance(ev.At, true)
		step := Step{Index: i, At: p.elapsed, Type: ev.Type}
		now := p.clock.Now()
		pt := cubetwist.Vec2{ev.X, ev.Y}

		switch ev.Type {
		case EventDown:
			p.engine.BeganAt(pt, now)
		case EventMove:
			out := p.engine.MovedAt(pt, now)
			step.Decision = out.Decision
			step.Err = out.Err
			if out.Started() {
				step.Command = out.Resolution.Command.String()
			}
		case EventUp:
			p.engine.Ended()
		case EventCancel:
			p.engine.Cancelled()
		case EventRotate:
			cmd, err := cubetwist.ParseCommand(ev.Command)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			step.Err = p.engine.Rotate(cmd)
			if step.Err == nil {
				step.Command = cmd.String()
			}
		case EventReset:
			step.Err = p.engine.Reset()
		case EventStall:
			p.advance(p.elapsed+ev.Duration, false)
		default:
			return nil, fmt.Errorf("%w: event %d: unknown type %q", ErrInvalidTrace, i, ev.Type)
		}

		p.result.Steps = append(p.result.Steps, step)
	}

	deadline := p.elapsed + p.trace.settle()
	for p.scene.Animating() && p.elapsed < deadline {
		p.advance(p.elapsed+p.trace.frame(), true)
	}

	p.result.Lattice = p.engine.Lattice()
	p.result.InSync = p.inSync(p.result.Lattice)
	p.result.Elapsed = p.elapsed
	return &p.result, nil
}

// advance moves virtual time to to in frame-sized steps, stepping the
// renderer unless render is false.
func (p *Player) advance(to time.Duration, render bool) {
	frame := p.trace.frame()
	for p.elapsed < to {
		d := min(frame, to-p.elapsed)
		p.clock.Advance(d)
		if render {
			p.scene.Step(d)
		}
		p.elapsed += d
	}
}

func (p *Player) inSync(l *cubetwist.Lattice) bool {
	for _, piece := range l.Pieces() {
		c, ok := piece.Handle.(*scene.Cubie)
		if !ok || c.Coord() != piece.Pos || c.Tag != cubetwist.Tag(piece.Pos) {
			return false
		}
	}
	return true
}

// Check compares the result against the trace's expectations.
func (r *Result) Check(e *Expect) error {
	if e == nil {
		return nil
	}

	var errs []error
	if e.Commits != nil {
		got := cubetwist.FormatCommands(r.Commits)
		want := make([]cubetwist.RotationCommand, 0, len(e.Commits))
		for _, c := range e.Commits {
			cmd, err := cubetwist.ParseCommand(c)
			if err != nil {
				return err
			}
			want = append(want, cmd)
		}
		if got != cubetwist.FormatCommands(want) {
			errs = append(errs, fmt.Errorf("commits: got [%s], want [%s]", got, cubetwist.FormatCommands(want)))
		}
	}
	if e.Drops != nil && len(r.Drops) != *e.Drops {
		errs = append(errs, fmt.Errorf("drops: got %d, want %d", len(r.Drops), *e.Drops))
	}
	if e.Recoveries != nil && len(r.Recoveries) != *e.Recoveries {
		errs = append(errs, fmt.Errorf("recoveries: got %d, want %d", len(r.Recoveries), *e.Recoveries))
	}
	if e.Identity != nil && r.Lattice.IsIdentity() != *e.Identity {
		errs = append(errs, fmt.Errorf("identity: got %v, want %v", r.Lattice.IsIdentity(), *e.Identity))
	}
	return errors.Join(errs...)
}
