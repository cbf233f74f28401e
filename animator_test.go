package cubetwist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records calls and holds completions until the test fires them.
type fakeRenderer struct {
	hits    map[Vec2]string
	forward Vec3

	turns       []RotationCommand
	turnPieces  [][]Handle
	completions []func()
	orbits      [][2]float64
	retags      [][]Retag
	resyncs     int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{hits: map[Vec2]string{}, forward: Vec3{0, 0, -1}}
}

func (f *fakeRenderer) HitTest(p Vec2) (string, bool) {
	tag, ok := f.hits[p]
	return tag, ok
}

func (f *fakeRenderer) CameraForward() Vec3 { return f.forward }

func (f *fakeRenderer) AnimateSliceTurn(pieces []Handle, cmd RotationCommand, onComplete func()) {
	f.turns = append(f.turns, cmd)
	f.turnPieces = append(f.turnPieces, pieces)
	f.completions = append(f.completions, onComplete)
}

func (f *fakeRenderer) OrbitCamera(deltaYaw, deltaPitch float64) {
	f.orbits = append(f.orbits, [2]float64{deltaYaw, deltaPitch})
}

func (f *fakeRenderer) Retag(r []Retag) { f.retags = append(f.retags, r) }

func (f *fakeRenderer) Resync(*Lattice) { f.resyncs++ }

// finish fires the i-th animation's completion.
func (f *fakeRenderer) finish(i int) { f.completions[i]() }

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestAnimator(opts ...Option) (*Animator, *fakeRenderer, *ManualClock) {
	clock := NewManualClock(epoch)
	r := newFakeRenderer()
	l := NewLattice()
	for _, p := range l.Pieces() {
		l.Attach(p.ID, Tag(p.Home))
	}
	a := NewAnimator(l, r, append([]Option{WithClock(clock)}, opts...)...)
	return a, r, clock
}

func TestBeginCommitsOnCompletion(t *testing.T) {
	a, r, clock := newTestAnimator()

	var commits []Commit
	a.OnCommit(func(c Commit) { commits = append(commits, c) })

	require.NoError(t, a.Begin(Y1))
	assert.True(t, a.Busy())
	assert.Len(t, r.turnPieces[0], 9)
	assert.True(t, a.Lattice().IsIdentity(), "nothing commits before completion")

	clock.Advance(250 * time.Millisecond)
	r.finish(0)

	assert.False(t, a.Busy())
	require.Len(t, commits, 1)
	assert.Equal(t, Y1, commits[0].Command)
	assert.Equal(t, 250*time.Millisecond, commits[0].Duration)
	assert.Len(t, commits[0].Moves, 9)

	want := NewLattice()
	want.Apply(Y1)
	assert.True(t, a.Lattice().Equal(want))
	assert.Zero(t, clock.Pending(), "watchdog cancelled on commit")
}

func TestCompletionIsIdempotent(t *testing.T) {
	a, r, _ := newTestAnimator()
	n := 0
	a.OnCommit(func(Commit) { n++ })

	require.NoError(t, a.Begin(X0))
	r.finish(0)
	r.finish(0)
	assert.Equal(t, 1, n)
}

func TestBeginWhileLockedIsDropped(t *testing.T) {
	a, r, clock := newTestAnimator()
	var commits []Commit
	a.OnCommit(func(c Commit) { commits = append(commits, c) })

	require.NoError(t, a.Begin(Y1))
	clock.Advance(time.Second)

	err := a.Begin(X0)
	assert.ErrorIs(t, err, ErrRotationInProgress)
	assert.Len(t, r.turns, 1, "dropped rotation never reaches the renderer")

	r.finish(0)
	require.Len(t, commits, 1)
	assert.Equal(t, Y1, commits[0].Command)
}

func TestBeginRejectsInvalidCommand(t *testing.T) {
	a, r, _ := newTestAnimator()
	assert.ErrorIs(t, a.Begin(RotationCommand{Axis: AxisZ, Layer: -1}), ErrInvalidCommand)
	assert.Empty(t, r.turns)
	assert.False(t, a.Busy())
}

func TestRetagsFollowCommit(t *testing.T) {
	a, r, _ := newTestAnimator()
	require.NoError(t, a.Begin(Y1))
	r.finish(0)

	require.Len(t, r.retags, 1)
	for _, rt := range r.retags[0] {
		to, err := ParseTag(rt.NewTag)
		require.NoError(t, err)
		pos, _ := a.PositionOf(rt.Piece)
		assert.Equal(t, pos, to)
		assert.Equal(t, 1, to.Y)
	}
}

func TestWatchdogReleasesStuckRotation(t *testing.T) {
	a, r, clock := newTestAnimator()
	var recs []Recovery
	var commits []Commit
	a.OnRecover(func(rec Recovery) { recs = append(recs, rec) })
	a.OnCommit(func(c Commit) { commits = append(commits, c) })

	require.NoError(t, a.Begin(Y1))
	clock.Advance(2999 * time.Millisecond)
	assert.True(t, a.Busy())

	clock.Advance(time.Millisecond)
	assert.False(t, a.Busy())
	require.Len(t, recs, 1)
	assert.Equal(t, "watchdog", recs[0].Trigger)
	assert.Equal(t, Y1, recs[0].Command)
	assert.Equal(t, 1, r.resyncs)

	// The late completion must not commit the abandoned turn.
	r.finish(0)
	assert.Empty(t, commits)
	assert.True(t, a.Lattice().IsIdentity())
}

func TestStuckLockReleasedByNextBegin(t *testing.T) {
	// Deferred work is queued and never run, as if the owner's loop stalled.
	var queued []func()
	a, r, clock := newTestAnimator(WithDispatcher(func(f func()) { queued = append(queued, f) }))

	var recs []Recovery
	var commits []Commit
	a.OnRecover(func(rec Recovery) { recs = append(recs, rec) })
	a.OnCommit(func(c Commit) { commits = append(commits, c) })

	require.NoError(t, a.Begin(Y1))
	clock.Advance(3500 * time.Millisecond)
	require.True(t, a.Busy(), "watchdog work is still queued")

	require.NoError(t, a.Begin(X0))
	require.Len(t, recs, 1)
	assert.Equal(t, "begin", recs[0].Trigger)
	assert.Equal(t, 3500*time.Millisecond, recs[0].Age)

	// Draining the stale watchdog must not touch the new rotation.
	for _, f := range queued {
		f()
	}
	assert.True(t, a.Busy())

	// The first animation finishing late is ignored.
	r.finish(0)
	assert.Empty(t, commits)
	assert.True(t, a.Busy())

	r.finish(1)
	require.Len(t, commits, 1)
	assert.Equal(t, X0, commits[0].Command)

	want := NewLattice()
	want.Apply(X0)
	assert.True(t, a.Lattice().Equal(want))
}

func TestStaleCompletionWhileNewerInFlightSkipsResync(t *testing.T) {
	a, r, clock := newTestAnimator()

	require.NoError(t, a.Begin(Y1))
	clock.Advance(3 * time.Second)
	resyncs := r.resyncs

	require.NoError(t, a.Begin(Z2))
	r.finish(0)
	assert.Equal(t, resyncs, r.resyncs)

	r.finish(1)
	assert.False(t, a.Busy())
}

func TestRecoverIfStuck(t *testing.T) {
	a, _, clock := newTestAnimator(WithDispatcher(func(func()) {}))
	assert.False(t, a.RecoverIfStuck())

	require.NoError(t, a.Begin(Y0))
	clock.Advance(time.Second)
	assert.False(t, a.RecoverIfStuck())

	clock.Advance(2 * time.Second)
	assert.True(t, a.RecoverIfStuck())
	assert.False(t, a.Busy())
}

func TestWatchdogOption(t *testing.T) {
	a, _, clock := newTestAnimator(WithWatchdog(500 * time.Millisecond))
	assert.Equal(t, 500*time.Millisecond, a.Watchdog())

	require.NoError(t, a.Begin(Y0))
	clock.Advance(500 * time.Millisecond)
	assert.False(t, a.Busy())
}

func TestResetRefusedWhileBusy(t *testing.T) {
	a, r, _ := newTestAnimator()
	require.NoError(t, a.Begin(Y0))
	assert.ErrorIs(t, a.Reset(), ErrRotationInProgress)

	r.finish(0)
	require.NoError(t, a.Reset())
	assert.True(t, a.Lattice().IsIdentity())
	assert.Equal(t, 1, r.resyncs)
}

func TestRotationAfterCommitUsesNewPositions(t *testing.T) {
	a, r, _ := newTestAnimator()
	require.NoError(t, a.Begin(Y1))
	r.finish(0)

	require.NoError(t, a.Begin(X0))

	// The animated slice is the committed column, not the home column.
	l := a.Lattice()
	var want []Handle
	for _, id := range l.Column(0) {
		want = append(want, l.HandleOf(id))
	}
	assert.Equal(t, want, r.turnPieces[1])
	assert.Contains(t, r.turnPieces[1], Handle("cube_2_1_0"))
	assert.NotContains(t, r.turnPieces[1], Handle("cube_0_1_2"))
}

// asyncClock fires timers from another goroutine, as the wall clock does.
type asyncClock struct{ c *ManualClock }

func (a asyncClock) Now() time.Time { return a.c.Now() }

func (a asyncClock) AfterFunc(d time.Duration, f func()) Timer { return a.c.AfterFunc(d, f) }

// advance moves the clock on a separate goroutine and waits for it.
func (a asyncClock) advance(d time.Duration) {
	done := make(chan struct{})
	go func() {
		a.c.Advance(d)
		close(done)
	}()
	<-done
}

func newAsyncAnimator() (*Animator, *fakeRenderer, asyncClock) {
	clock := asyncClock{NewManualClock(epoch)}
	a, r, _ := newTestAnimator(WithClock(clock))
	return a, r, clock
}

func TestWatchdogWaitsForPoll(t *testing.T) {
	a, r, clock := newAsyncAnimator()
	var recs []Recovery
	a.OnRecover(func(rec Recovery) { recs = append(recs, rec) })

	assert.Equal(t, 0, a.Poll())
	require.NoError(t, a.Begin(Y1))
	clock.advance(DefaultWatchdog)

	// Nothing ran on the timer goroutine.
	assert.True(t, a.Busy())
	assert.Empty(t, recs)
	assert.Equal(t, 0, r.resyncs)

	assert.Equal(t, 1, a.Poll())
	assert.False(t, a.Busy())
	require.Len(t, recs, 1)
	assert.Equal(t, "watchdog", recs[0].Trigger)
	assert.Equal(t, 1, r.resyncs)
	assert.Equal(t, 0, a.Poll())
}

func TestBeginRunsQueuedWatchdogFirst(t *testing.T) {
	a, r, clock := newAsyncAnimator()
	var recs []Recovery
	a.OnRecover(func(rec Recovery) { recs = append(recs, rec) })

	require.NoError(t, a.Begin(Y1))
	clock.advance(DefaultWatchdog)

	require.NoError(t, a.Begin(X0))
	require.Len(t, recs, 1)
	assert.Equal(t, "watchdog", recs[0].Trigger)
	assert.Equal(t, Y1, recs[0].Command)

	cmd, ok := a.InFlight()
	assert.True(t, ok)
	assert.Equal(t, X0, cmd)

	r.finish(1)
	assert.False(t, a.Busy())
}
