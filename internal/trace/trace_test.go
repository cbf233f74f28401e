package trace

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist"
)

func play(t *testing.T, name string) *Result {
	t.Helper()
	tr, err := Load(filepath.Join("testdata", name))
	require.NoError(t, err)

	res, err := NewPlayer(tr, nil).Run()
	require.NoError(t, err)
	require.NoError(t, res.Check(tr.Expect))
	assert.True(t, res.InSync, "scene out of sync with lattice")
	return res
}

func TestFlickTrace(t *testing.T) {
	res := play(t, "flick.yaml")

	require.Len(t, res.Gestures, 1)
	assert.Equal(t, cubetwist.GestureTwist, res.Gestures[0].Summary.Kind)
	assert.Equal(t, "Y0", res.Steps[1].Command)
	assert.Equal(t, cubetwist.RuleExtremeShort, res.Steps[1].Decision.Rule)
}

func TestOrbitTrace(t *testing.T) {
	res := play(t, "orbit.yaml")

	require.Len(t, res.Gestures, 1)
	assert.Equal(t, cubetwist.GestureOrbit, res.Gestures[0].Summary.Kind)
	assert.Equal(t, cubetwist.RuleContinuous, res.Gestures[0].Summary.Rule)
}

func TestStuckTrace(t *testing.T) {
	res := play(t, "stuck.yaml")

	require.Len(t, res.Recoveries, 1)
	assert.Equal(t, "watchdog", res.Recoveries[0].Trigger)
	assert.Equal(t, cubetwist.Y1, res.Recoveries[0].Command)
	assert.Equal(t, 3*time.Second, res.Recoveries[0].Age)
}

func TestBusyTrace(t *testing.T) {
	res := play(t, "busy.yaml")

	require.Len(t, res.Drops, 1)
	assert.ErrorIs(t, res.Drops[0].Reason, cubetwist.ErrRotationInProgress)
	require.NotNil(t, res.Drops[0].Command)
	assert.Equal(t, cubetwist.X1, *res.Drops[0].Command)
}

func TestCheckReportsMismatch(t *testing.T) {
	tr, err := Load(filepath.Join("testdata", "flick.yaml"))
	require.NoError(t, err)
	res, err := NewPlayer(tr, nil).Run()
	require.NoError(t, err)

	identity := true
	err = res.Check(&Expect{Commits: []string{"X0"}, Identity: &identity})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commits")
	assert.Contains(t, err.Error(), "identity")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no viewport", "events: []"},
		{"move without down", "viewport: {width: 10, height: 10}\nevents:\n  - {at: 0ms, type: move}"},
		{"out of order", "viewport: {width: 10, height: 10}\nevents:\n  - {at: 5ms, type: reset}\n  - {at: 1ms, type: reset}"},
		{"unknown type", "viewport: {width: 10, height: 10}\nevents:\n  - {at: 0ms, type: jump}"},
		{"bad command", "viewport: {width: 10, height: 10}\nevents:\n  - {at: 0ms, type: rotate, command: Q1}"},
		{"stall without duration", "viewport: {width: 10, height: 10}\nevents:\n  - {at: 0ms, type: stall}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidTrace)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.yaml")
	tr := &Trace{
		Name:     "saved",
		Viewport: Viewport{Width: 800, Height: 600},
		Events: []Event{
			{At: 0, Type: EventDown, X: 1, Y: 2},
			{At: 16 * time.Millisecond, Type: EventUp},
		},
	}
	require.NoError(t, tr.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tr.Events, got.Events)
}
