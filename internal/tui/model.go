// Package tui is the interactive terminal front end: mouse drags on the
// rendered cube feed the gesture engine, and every frame steps the scene.
package tui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/scene"
	"github.com/SeamusWaldron/cubetwist/internal/trace"
)

// Terminal cells are mapped to this many viewport pixels, so gesture
// thresholds keep their pixel meaning.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Frame is the redraw interval.
const Frame = time.Second / 60

// maxStep caps the scene step after a stalled frame.
const maxStep = 100 * time.Millisecond

// Rows above and below the canvas.
const (
	headerRows = 2
	footerRows = 4
)

// keyOrbit is the camera step for arrow keys, in radians.
const keyOrbit = 0.15

// Messages
type frameMsg time.Time
type callMsg struct{ fn func() }

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the model logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithBell writes a terminal bell to w on decisive twists.
func WithBell(w io.Writer) Option {
	return func(m *Model) { m.bell = w }
}

// WithTrace records the pointer stream and saves it to path on quit.
func WithTrace(path string) Option {
	return func(m *Model) { m.tracePath = path }
}

// Model is the bubbletea model for the play screen.
type Model struct {
	scene  *scene.Scene
	engine *cubetwist.Engine
	logger *zap.Logger
	calls  chan func()

	// UI
	width     int
	height    int
	lastFrame time.Time
	dragging  bool
	debug     bool
	quitting  bool
	err       error

	// Activity
	moves      []cubetwist.RotationCommand
	gesture    *cubetwist.GestureReport
	lastDrop   string
	recoveries int
	impacts    int
	flash      int
	bell       io.Writer

	// Trace recording
	tracePath string
	recording *trace.Trace
	traceZero time.Time
}

// New creates the play model over s. engineOpts are passed to the engine;
// the model adds its own dispatcher and haptics.
func New(s *scene.Scene, engineOpts []cubetwist.Option, opts ...Option) *Model {
	m := &Model{
		scene:  s,
		logger: zap.NewNop(),
		calls:  make(chan func(), 64),
	}
	for _, opt := range opts {
		opt(m)
	}

	eo := append([]cubetwist.Option{}, engineOpts...)
	eo = append(eo,
		cubetwist.WithDispatcher(m.post),
		cubetwist.WithHaptics(m),
	)
	m.engine = cubetwist.NewEngine(s, s.Handles(), eo...)

	m.engine.OnCommit(func(c cubetwist.Commit) {
		m.moves = append(m.moves, c.Command)
	})
	m.engine.OnDrop(func(d cubetwist.Drop) {
		m.lastDrop = d.Reason.Error()
	})
	m.engine.OnRecover(func(r cubetwist.Recovery) {
		m.recoveries++
		m.logger.Warn("rotation recovered",
			zap.Stringer("command", r.Command),
			zap.String("trigger", r.Trigger))
	})
	m.engine.OnGesture(func(g cubetwist.GestureReport) {
		m.gesture = &g
	})

	if m.tracePath != "" {
		v := s.Viewport()
		cam := s.Camera()
		m.recording = &trace.Trace{
			Name:     "play",
			Viewport: trace.Viewport{Width: v.Width, Height: v.Height},
			Camera:   &trace.Camera{Yaw: cam.Yaw, Pitch: cam.Pitch, Distance: cam.Distance},
		}
	}
	return m
}

// Engine returns the engine, e.g. to attach a journal before Run.
func (m *Model) Engine() *cubetwist.Engine {
	return m.engine
}

// Moves returns the committed rotations in order.
func (m *Model) Moves() []cubetwist.RotationCommand {
	return m.moves
}

// Impact implements cubetwist.Haptics.
func (m *Model) Impact() {
	m.impacts++
	m.flash = 10
	if m.bell != nil {
		fmt.Fprint(m.bell, "\a")
	}
}

// post runs fn on the update loop. Called from timer goroutines.
func (m *Model) post(fn func()) {
	m.calls <- fn
}

func (m *Model) listenForCalls() tea.Cmd {
	return func() tea.Msg {
		return callMsg{fn: <-m.calls}
	}
}

func (m *Model) frameCmd() tea.Cmd {
	return tea.Tick(Frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.frameCmd(), m.listenForCalls())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case frameMsg:
		now := time.Time(msg)
		if dt := now.Sub(m.lastFrame); !m.lastFrame.IsZero() && dt > 0 {
			m.scene.Step(min(dt, maxStep))
		}
		m.lastFrame = now
		if m.flash > 0 {
			m.flash--
		}
		return m, m.frameCmd()

	case callMsg:
		msg.fn()
		return m, m.listenForCalls()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		m.saveTrace()
		return tea.Quit

	case "r":
		if err := m.engine.Reset(); err != nil {
			m.err = err
		} else {
			m.moves = nil
			m.err = nil
			m.record(trace.Event{Type: trace.EventReset})
		}

	case "d":
		m.debug = !m.debug

	case "left":
		m.scene.OrbitCamera(-keyOrbit, 0)
	case "right":
		m.scene.OrbitCamera(keyOrbit, 0)
	case "up":
		m.scene.OrbitCamera(0, keyOrbit)
	case "down":
		m.scene.OrbitCamera(0, -keyOrbit)
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p, inside := m.toViewport(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return
		}
		m.dragging = true
		m.err = nil
		m.engine.Began(p)
		m.record(trace.Event{Type: trace.EventDown, X: p.X(), Y: p.Y()})

	case tea.MouseActionMotion:
		if !m.dragging {
			return
		}
		out := m.engine.Moved(p)
		if out.Err != nil {
			m.err = out.Err
		}
		m.record(trace.Event{Type: trace.EventMove, X: p.X(), Y: p.Y()})

	case tea.MouseActionRelease:
		if !m.dragging {
			return
		}
		m.dragging = false
		m.engine.Ended()
		m.record(trace.Event{Type: trace.EventUp})
	}
}

// toViewport maps a terminal cell to the centre of its pixel block.
func (m *Model) toViewport(col, row int) (cubetwist.Vec2, bool) {
	row -= headerRows
	v := m.scene.Viewport()
	p := cubetwist.Vec2{
		(float64(col) + 0.5) * CellWidth,
		(float64(row) + 0.5) * CellHeight,
	}
	inside := p.X() >= 0 && p.Y() >= 0 && p.X() < float64(v.Width) && p.Y() < float64(v.Height)
	return p, inside
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	rows := max(height-headerRows-footerRows, 1)
	m.scene.SetViewport(scene.Viewport{
		Width:  max(width, 1) * CellWidth,
		Height: rows * CellHeight,
		FOV:    scene.DefaultViewport.FOV,
	})
	if m.recording != nil && len(m.recording.Events) == 0 {
		v := m.scene.Viewport()
		m.recording.Viewport = trace.Viewport{Width: v.Width, Height: v.Height}
	}
}

func (m *Model) record(ev trace.Event) {
	if m.recording == nil {
		return
	}
	now := time.Now()
	if m.traceZero.IsZero() {
		m.traceZero = now
	}
	ev.At = now.Sub(m.traceZero)
	m.recording.Events = append(m.recording.Events, ev)
}

func (m *Model) saveTrace() {
	if m.recording == nil || len(m.recording.Events) == 0 {
		return
	}
	if m.dragging {
		m.record(trace.Event{Type: trace.EventCancel})
	}
	if err := m.recording.Save(m.tracePath); err != nil {
		m.logger.Error("failed to save trace", zap.Error(err))
		return
	}
	m.logger.Info("trace saved", zap.String("path", m.tracePath), zap.Int("events", len(m.recording.Events)))
}
