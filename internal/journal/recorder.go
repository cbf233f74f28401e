package journal

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubetwist"
)

// State is the recorder's session state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Recorder writes an engine's gestures, commits, drops and recoveries to
// the journal. Write failures are logged, never returned to the engine.
type Recorder struct {
	clock  cubetwist.Clock
	logger *zap.Logger

	mu        sync.RWMutex
	state     State
	sessionID string
	startTime time.Time
	counts    map[string]int

	sessions *SessionRepository
	events   *EventRepository
}

// NewRecorder creates a recorder over db. Timestamps come from clock.
func NewRecorder(db *DB, clock cubetwist.Clock, logger *zap.Logger) *Recorder {
	if clock == nil {
		clock = cubetwist.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		clock:    clock,
		logger:   logger,
		state:    StateIdle,
		counts:   map[string]int{},
		sessions: NewSessionRepository(db),
		events:   NewEventRepository(db),
	}
}

// State returns the current state.
func (r *Recorder) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// SessionID returns the active or last session ID.
func (r *Recorder) SessionID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessionID
}

// Counts returns the number of events written per kind this session.
func (r *Recorder) Counts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Start opens a new session.
func (r *Recorder) Start(source, notes string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRecording {
		return "", fmt.Errorf("session already in progress")
	}

	now := r.clock.Now()
	id, err := r.sessions.Create(source, notes, now)
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}

	r.sessionID = id
	r.startTime = now
	r.counts = map[string]int{}
	r.state = StateRecording

	r.logger.Info("journal session started", zap.String("session", id), zap.String("source", source))
	return id, nil
}

// End closes the active session.
func (r *Recorder) End() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return fmt.Errorf("no session in progress")
	}

	if err := r.sessions.End(r.sessionID, r.clock.Now()); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	r.state = StateEnded

	r.logger.Info("journal session ended", zap.String("session", r.sessionID))
	return nil
}

// Attach subscribes the recorder to e.
func (r *Recorder) Attach(e *cubetwist.Engine) {
	e.OnGesture(r.RecordGesture)
	e.OnCommit(r.RecordCommit)
	e.OnDrop(r.RecordDrop)
	e.OnRecover(r.RecordRecovery)
}

// RecordGesture journals a finished gesture.
func (r *Recorder) RecordGesture(g cubetwist.GestureReport) {
	s := g.Summary
	ev := Event{
		Kind:      KindGesture,
		GestureID: strPtr(g.ID.String()),
		Rule:      strPtr(s.Rule.String()),
		Detail: strPtr(fmt.Sprintf("kind=%s distance=%.1f samples=%d duration=%s",
			s.Kind, s.Distance, s.Samples, s.Duration)),
	}
	if g.Command != nil {
		ev.Command = strPtr(g.Command.String())
	}
	r.write(ev)
}

// RecordCommit journals a committed rotation.
func (r *Recorder) RecordCommit(c cubetwist.Commit) {
	r.write(Event{
		Kind:    KindCommit,
		Command: strPtr(c.Command.String()),
		Detail:  strPtr(fmt.Sprintf("duration=%s pieces=%d", c.Duration, len(c.Moves))),
	})
}

// RecordDrop journals a twist that produced no rotation.
func (r *Recorder) RecordDrop(d cubetwist.Drop) {
	ev := Event{
		Kind:      KindDrop,
		GestureID: strPtr(d.GestureID.String()),
	}
	if d.Command != nil {
		ev.Command = strPtr(d.Command.String())
	}
	if d.Reason != nil {
		ev.Detail = strPtr(d.Reason.Error())
	}
	r.write(ev)
}

// RecordRecovery journals a watchdog release.
func (r *Recorder) RecordRecovery(rec cubetwist.Recovery) {
	r.write(Event{
		Kind:    KindRecover,
		Command: strPtr(rec.Command.String()),
		Detail:  strPtr(fmt.Sprintf("trigger=%s age=%s", rec.Trigger, rec.Age)),
	})
}

func (r *Recorder) write(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return
	}

	ev.SessionID = r.sessionID
	ev.TsMs = r.clock.Now().Sub(r.startTime).Milliseconds()
	if _, err := r.events.Create(ev); err != nil {
		r.logger.Warn("journal write failed", zap.String("kind", ev.Kind), zap.Error(err))
		return
	}
	r.counts[ev.Kind]++
}

func strPtr(s string) *string {
	return &s
}
