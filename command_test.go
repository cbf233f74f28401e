package cubetwist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want RotationCommand
	}{
		{"Y1", Y1},
		{"x0'", X0Prime},
		{" Z2 ", Z2},
		{"Y0`", Y0Prime},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "Y", "Y3", "W1", "Y1x", "Y12'"} {
		_, err := ParseCommand(bad)
		assert.ErrorIs(t, err, ErrInvalidNotation, bad)
	}
}

func TestFormatParseCommands(t *testing.T) {
	cmds, err := ParseCommands("Y1 X0' Z2")
	require.NoError(t, err)
	assert.Equal(t, []RotationCommand{Y1, X0Prime, Z2}, cmds)
	assert.Equal(t, "Y1 X0' Z2", FormatCommands(cmds))
	assert.Equal(t, "", FormatCommands(nil))

	_, err = ParseCommands("Y1 Q2")
	assert.ErrorIs(t, err, ErrInvalidNotation)
}

func TestAllCommandsAreDistinct(t *testing.T) {
	seen := map[RotationCommand]bool{}
	for _, c := range AllCommands() {
		assert.True(t, c.Valid())
		assert.False(t, seen[c], "duplicate %v", c)
		seen[c] = true
	}
	assert.Len(t, seen, 18)
}

// TestAngleMatchesPermutation rotates each cubie centre by the command's
// angle and checks it lands where the permutation puts the piece.
func TestAngleMatchesPermutation(t *testing.T) {
	for _, cmd := range AllCommands() {
		l := NewLattice()
		for _, d := range l.Apply(cmd) {
			centre := [3]float64{float64(d.From.X - 1), float64(d.From.Y - 1), float64(d.From.Z - 1)}
			got := rotateAbout(centre, cmd.Axis, cmd.Angle())
			want := [3]float64{float64(d.To.X - 1), float64(d.To.Y - 1), float64(d.To.Z - 1)}
			for i := range got {
				assert.InDelta(t, want[i], got[i], 1e-9, "%v piece %d", cmd, d.Piece)
			}
		}
	}
}

// rotateAbout is a right-handed rotation of v about a coordinate axis.
func rotateAbout(v [3]float64, axis Axis, angle float64) [3]float64 {
	s, c := math.Sin(angle), math.Cos(angle)
	x, y, z := v[0], v[1], v[2]
	switch axis {
	case AxisX:
		return [3]float64{x, y*c - z*s, y*s + z*c}
	case AxisY:
		return [3]float64{x*c + z*s, y, -x*s + z*c}
	default:
		return [3]float64{x*c - y*s, x*s + y*c, z}
	}
}
