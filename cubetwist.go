// Package cubetwist is the gesture-driven slice-rotation engine of an
// interactive 3x3x3 twisty-puzzle simulator.
//
// # Features
//
//   - A 27-piece lattice with O(1) lookups in both directions
//   - Quarter-turn permutations for row, column and layer slices
//   - A gesture classifier that separates camera orbits from slice twists
//   - A face-aware, camera-relative swipe resolver
//   - A single-flight rotation animator with a watchdog
//
// Rendering stays outside the package behind the Renderer interface.
//
// # Quick Start
//
// Drive the engine from your pointer events:
//
//	engine := cubetwist.NewEngine(renderer, handles,
//	    cubetwist.WithLogger(logger),
//	)
//
//	engine.OnCommit(func(c cubetwist.Commit) {
//	    fmt.Println("Committed:", c.Command)
//	})
//
//	engine.Began(p)
//	engine.Moved(p2)
//	engine.Ended()
//
// The engine belongs to one goroutine. Watchdog timers never call the
// renderer themselves: their work waits for the next engine call, so an
// idle loop should call engine.Poll() once per frame, or hand the engine a
// dispatcher with WithDispatcher.
//
// # Standalone Lattice
//
// The Lattice type can be used without a renderer:
//
//	l := cubetwist.NewLattice()
//	l.Apply(cubetwist.Y1)
//	id, _ := l.PieceAt(cubetwist.Coord{X: 0, Y: 1, Z: 2})
//
// # Notation
//
// Commands are written as axis, layer and an optional prime for the
// counter-clockwise direction:
//
//	cubetwist.Y1      // Middle row clockwise
//	cubetwist.X0Prime // Left column counter-clockwise
//	cubetwist.ParseCommands("Y1 X0' Z2")
package cubetwist
