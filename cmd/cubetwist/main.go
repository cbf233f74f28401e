// cubetwist - gesture-driven slice turning for a 3x3x3 cube.
package main

import (
	"github.com/SeamusWaldron/cubetwist/internal/cli"
)

func main() {
	cli.Execute()
}
