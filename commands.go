package cubetwist

// Predefined slice turns for convenience.
// Use these instead of constructing RotationCommand structs manually.
//
// Example:
//
//	engine.Rotate(cubetwist.Y1)
var (
	// Column turns (about X)
	X0      = RotationCommand{Axis: AxisX, Layer: 0, Clockwise: true}
	X0Prime = RotationCommand{Axis: AxisX, Layer: 0}
	X1      = RotationCommand{Axis: AxisX, Layer: 1, Clockwise: true}
	X1Prime = RotationCommand{Axis: AxisX, Layer: 1}
	X2      = RotationCommand{Axis: AxisX, Layer: 2, Clockwise: true}
	X2Prime = RotationCommand{Axis: AxisX, Layer: 2}

	// Row turns (about Y)
	Y0      = RotationCommand{Axis: AxisY, Layer: 0, Clockwise: true}
	Y0Prime = RotationCommand{Axis: AxisY, Layer: 0}
	Y1      = RotationCommand{Axis: AxisY, Layer: 1, Clockwise: true}
	Y1Prime = RotationCommand{Axis: AxisY, Layer: 1}
	Y2      = RotationCommand{Axis: AxisY, Layer: 2, Clockwise: true}
	Y2Prime = RotationCommand{Axis: AxisY, Layer: 2}

	// Layer turns (about Z)
	Z0      = RotationCommand{Axis: AxisZ, Layer: 0, Clockwise: true}
	Z0Prime = RotationCommand{Axis: AxisZ, Layer: 0}
	Z1      = RotationCommand{Axis: AxisZ, Layer: 1, Clockwise: true}
	Z1Prime = RotationCommand{Axis: AxisZ, Layer: 1}
	Z2      = RotationCommand{Axis: AxisZ, Layer: 2, Clockwise: true}
	Z2Prime = RotationCommand{Axis: AxisZ, Layer: 2}
)

// AllCommands lists every distinct quarter turn.
func AllCommands() []RotationCommand {
	cmds := make([]RotationCommand, 0, 18)
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		for layer := 0; layer < LatticeSize; layer++ {
			cmds = append(cmds,
				RotationCommand{Axis: axis, Layer: layer, Clockwise: true},
				RotationCommand{Axis: axis, Layer: layer},
			)
		}
	}
	return cmds
}
