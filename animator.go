package cubetwist

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Commit describes a rotation whose animation finished and whose
// permutation has been applied to the lattice.
type Commit struct {
	Command  RotationCommand
	Moves    []Displacement
	Retags   []Retag
	Duration time.Duration
}

// Recovery describes a rotation abandoned by the watchdog. Its permutation
// was never applied.
type Recovery struct {
	Command RotationCommand
	Age     time.Duration
	Trigger string // "watchdog", "begin" or "gesture_end"
}

// Animator runs one rotation at a time: it locks the lattice, asks the
// renderer to animate the turn, and commits the permutation when the
// renderer reports completion.
//
// States: Idle -> Locked(command) -> Idle. A Begin while locked is dropped,
// not queued. A lock held longer than the watchdog interval is released
// without committing.
type Animator struct {
	lattice  *Lattice
	renderer Renderer
	clock    Clock
	watchdog time.Duration
	dispatch func(func())
	queue    *callQueue
	logger   *zap.Logger

	mu         sync.Mutex
	locked     bool
	startedAt  time.Time
	inFlight   RotationCommand
	generation uint64
	timer      Timer

	onCommit  []func(Commit)
	onRecover []func(Recovery)
}

// NewAnimator creates an animator that owns mutation of l.
func NewAnimator(l *Lattice, r Renderer, opts ...Option) *Animator {
	cfg := buildConfig(opts)
	dispatch, queue := dispatcherFor(cfg)
	return &Animator{
		lattice:  l,
		renderer: r,
		clock:    cfg.clock,
		watchdog: cfg.watchdog,
		dispatch: dispatch,
		queue:    queue,
		logger:   cfg.logger,
	}
}

// Poll runs watchdog work queued since the last call and returns how many
// callbacks ran. It only has work when no dispatcher was configured; call
// it from the thread that owns the renderer.
func (a *Animator) Poll() int {
	if a.queue == nil {
		return 0
	}
	return a.queue.drain()
}

// OnCommit registers a callback for committed rotations.
func (a *Animator) OnCommit(cb func(Commit)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onCommit = append(a.onCommit, cb)
}

// OnRecover registers a callback for watchdog recoveries.
func (a *Animator) OnRecover(cb func(Recovery)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onRecover = append(a.onRecover, cb)
}

// Watchdog returns the lock timeout.
func (a *Animator) Watchdog() time.Duration {
	return a.watchdog
}

// Busy reports whether a rotation is in flight.
func (a *Animator) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.locked
}

// InFlight returns the rotation currently animating, if any.
func (a *Animator) InFlight() (RotationCommand, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight, a.locked
}

// Lattice returns a snapshot of the last committed layout.
func (a *Animator) Lattice() *Lattice {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lattice.Clone()
}

// PositionOf returns a piece's committed position.
func (a *Animator) PositionOf(id PieceID) (Coord, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lattice.PositionOf(id)
}

// PieceAt returns the piece committed at c.
func (a *Animator) PieceAt(c Coord) (PieceID, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lattice.PieceAt(c)
}

// Begin starts animating cmd. It returns ErrRotationInProgress if another
// rotation is in flight and younger than the watchdog interval. A lock
// older than that is released first and the new rotation proceeds.
func (a *Animator) Begin(cmd RotationCommand) error {
	if !cmd.Valid() {
		return ErrInvalidCommand
	}
	a.Poll()

	a.mu.Lock()
	now := a.clock.Now()

	var rec *Recovery
	if a.locked {
		age := now.Sub(a.startedAt)
		if age < a.watchdog {
			busy := a.inFlight
			a.mu.Unlock()
			a.logger.Warn("rotation dropped",
				zap.Stringer("command", cmd),
				zap.Stringer("in_flight", busy),
				zap.Duration("age", age))
			return ErrRotationInProgress
		}
		r := a.releaseLocked(now, "begin")
		rec = &r
	}

	a.locked = true
	a.startedAt = now
	a.inFlight = cmd
	a.generation++
	gen := a.generation

	ids := a.lattice.Slice(cmd.Axis, cmd.Layer)
	handles := make([]Handle, len(ids))
	for i, id := range ids {
		handles[i] = a.lattice.HandleOf(id)
	}

	a.timer = a.clock.AfterFunc(a.watchdog, func() {
		a.dispatch(func() { a.watchdogFired(gen) })
	})
	a.mu.Unlock()

	if rec != nil {
		a.recovered(*rec)
	}

	a.logger.Debug("rotation begun", zap.Stringer("command", cmd), zap.Int("pieces", len(handles)))

	var once sync.Once
	a.renderer.AnimateSliceTurn(handles, cmd, func() {
		once.Do(func() { a.complete(gen) })
	})
	return nil
}

// complete commits the rotation started as generation gen.
func (a *Animator) complete(gen uint64) {
	a.mu.Lock()
	if !a.locked || a.generation != gen {
		busy := a.locked
		a.mu.Unlock()
		a.logger.Warn("stale rotation completion ignored", zap.Uint64("generation", gen))
		// The abandoned turn moved pieces visually without a commit. Snap
		// back now unless a newer turn owns the scene.
		if !busy {
			a.resync()
		}
		return
	}

	cmd := a.inFlight
	moves := a.lattice.Apply(cmd)
	retags := make([]Retag, len(moves))
	for i, m := range moves {
		retags[i] = Retag{
			Piece:  m.Piece,
			Handle: a.lattice.HandleOf(m.Piece),
			OldTag: Tag(m.From),
			NewTag: Tag(m.To),
		}
	}

	c := Commit{
		Command:  cmd,
		Moves:    moves,
		Retags:   retags,
		Duration: a.clock.Now().Sub(a.startedAt),
	}
	a.unlockLocked()
	callbacks := append([]func(Commit){}, a.onCommit...)
	a.mu.Unlock()

	if rt, ok := a.renderer.(Retagger); ok {
		rt.Retag(retags)
	}

	a.logger.Info("rotation committed",
		zap.Stringer("command", cmd),
		zap.Duration("duration", c.Duration))

	for _, cb := range callbacks {
		cb(c)
	}
}

// watchdogFired releases the lock if generation gen is still in flight.
func (a *Animator) watchdogFired(gen uint64) {
	a.mu.Lock()
	if !a.locked || a.generation != gen {
		a.mu.Unlock()
		return
	}
	rec := a.releaseLocked(a.clock.Now(), "watchdog")
	a.mu.Unlock()

	a.recovered(rec)
}

// RecoverIfStuck releases a lock held past the watchdog interval. It is
// called when a gesture ends and reports whether a release happened.
func (a *Animator) RecoverIfStuck() bool {
	a.Poll()

	a.mu.Lock()
	if !a.locked {
		a.mu.Unlock()
		return false
	}
	now := a.clock.Now()
	if now.Sub(a.startedAt) < a.watchdog {
		a.mu.Unlock()
		return false
	}
	rec := a.releaseLocked(now, "gesture_end")
	a.mu.Unlock()

	a.recovered(rec)
	return true
}

// Reset restores the identity layout. It refuses while a rotation is in
// flight.
func (a *Animator) Reset() error {
	a.Poll()

	a.mu.Lock()
	if a.locked {
		a.mu.Unlock()
		return ErrRotationInProgress
	}
	a.lattice.Reset()
	a.mu.Unlock()

	a.resync()
	return nil
}

// releaseLocked abandons the in-flight rotation. Caller holds mu.
func (a *Animator) releaseLocked(now time.Time, trigger string) Recovery {
	rec := Recovery{
		Command: a.inFlight,
		Age:     now.Sub(a.startedAt),
		Trigger: trigger,
	}
	a.unlockLocked()
	return rec
}

// unlockLocked clears the lock. Caller holds mu.
func (a *Animator) unlockLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.locked = false
	a.startedAt = time.Time{}
	a.inFlight = RotationCommand{}
}

func (a *Animator) recovered(rec Recovery) {
	a.logger.Warn("stuck rotation force-unlocked",
		zap.Stringer("command", rec.Command),
		zap.Duration("age", rec.Age),
		zap.String("trigger", rec.Trigger))

	a.resync()

	a.mu.Lock()
	callbacks := append([]func(Recovery){}, a.onRecover...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(rec)
	}
}

func (a *Animator) resync() {
	rs, ok := a.renderer.(Resyncer)
	if !ok {
		return
	}
	rs.Resync(a.Lattice())
}
