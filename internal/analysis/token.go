package analysis

import (
	"github.com/SeamusWaldron/cubetwist"
)

// tokenCount is the number of distinct quarter turns.
const tokenCount = 18

// Token packs a command into a small integer: axis*6 + layer*2 + clockwise.
func Token(c cubetwist.RotationCommand) uint8 {
	t := uint8(c.Axis)*6 + uint8(c.Layer)*2
	if c.Clockwise {
		t++
	}
	return t
}

// CommandFromToken is the inverse of Token.
func CommandFromToken(t uint8) cubetwist.RotationCommand {
	return cubetwist.RotationCommand{
		Axis:      cubetwist.Axis(t / 6),
		Layer:     int(t%6) / 2,
		Clockwise: t%2 == 1,
	}
}
