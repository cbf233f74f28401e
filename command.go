package cubetwist

import (
	"math"
	"strings"
)

// Axis identifies a rotation axis of the lattice.
type Axis int

const (
	AxisX Axis = iota // Column turns
	AxisY             // Row turns
	AxisZ             // Layer turns
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "?"
	}
}

// Valid reports whether a is one of the three lattice axes.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// Unit returns the unit vector pointing along the positive axis.
func (a Axis) Unit() Vec3 {
	switch a {
	case AxisX:
		return Vec3{1, 0, 0}
	case AxisY:
		return Vec3{0, 1, 0}
	case AxisZ:
		return Vec3{0, 0, 1}
	default:
		return Vec3{}
	}
}

// SliceName returns the name the interactive app uses for slices along a.
func (a Axis) SliceName() string {
	switch a {
	case AxisX:
		return "column"
	case AxisY:
		return "row"
	case AxisZ:
		return "layer"
	default:
		return "slice"
	}
}

// RotationCommand is a single 90 degree slice turn.
type RotationCommand struct {
	Axis      Axis // Which coordinate selects the slice
	Layer     int  // Slice index, 0..2
	Clockwise bool // Direction of the quarter turn
}

// Valid reports whether the command addresses a real slice.
func (c RotationCommand) Valid() bool {
	return c.Axis.Valid() && c.Layer >= 0 && c.Layer < LatticeSize
}

// Inverse returns the command that undoes c.
func (c RotationCommand) Inverse() RotationCommand {
	c.Clockwise = !c.Clockwise
	return c
}

// Angle returns the signed sweep, in radians, a renderer must apply about
// the positive axis so the visual turn lands every piece where the
// permutation puts it.
func (c RotationCommand) Angle() float64 {
	if c.Clockwise {
		return math.Pi / 2
	}
	return -math.Pi / 2
}

// String returns the compact notation for the command.
// Examples: Y1, X0', Z2
func (c RotationCommand) String() string {
	suffix := ""
	if !c.Clockwise {
		suffix = "'"
	}
	return c.Axis.String() + string(rune('0'+c.Layer)) + suffix
}

// ParseCommand parses compact notation into a RotationCommand.
// Examples: Y1, X0', z2
func ParseCommand(s string) (RotationCommand, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 3 {
		return RotationCommand{}, ErrInvalidNotation
	}

	var axis Axis
	switch s[0] {
	case 'X', 'x':
		axis = AxisX
	case 'Y', 'y':
		axis = AxisY
	case 'Z', 'z':
		axis = AxisZ
	default:
		return RotationCommand{}, ErrInvalidNotation
	}

	if s[1] < '0' || s[1] > '2' {
		return RotationCommand{}, ErrInvalidNotation
	}
	layer := int(s[1] - '0')

	clockwise := true
	if len(s) == 3 {
		switch s[2] {
		case '\'', '`':
			clockwise = false
		default:
			return RotationCommand{}, ErrInvalidNotation
		}
	}

	return RotationCommand{Axis: axis, Layer: layer, Clockwise: clockwise}, nil
}

// ParseCommands parses a space-separated sequence of commands.
// Unlike ParseCommand it fails on the first invalid token.
func ParseCommands(s string) ([]RotationCommand, error) {
	parts := strings.Fields(s)
	cmds := make([]RotationCommand, 0, len(parts))

	for _, part := range parts {
		cmd, err := ParseCommand(part)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}

	return cmds, nil
}

// FormatCommands formats commands as a space-separated notation string.
func FormatCommands(cmds []RotationCommand) string {
	if len(cmds) == 0 {
		return ""
	}

	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = c.String()
	}

	return strings.Join(parts, " ")
}
