package cubetwist

// Renderer is the visual collaborator the core drives. All calls are made
// from the core's logical thread.
type Renderer interface {
	// HitTest resolves a screen point to the tag of the piece drawn there,
	// falling back to the closest piece within a small pixel radius.
	HitTest(p Vec2) (tag string, ok bool)

	// CameraForward returns the camera's current view direction.
	CameraForward() Vec3

	// AnimateSliceTurn sweeps pieces by cmd.Angle() about the cube centre
	// along cmd.Axis and calls onComplete exactly once when done.
	AnimateSliceTurn(pieces []Handle, cmd RotationCommand, onComplete func())

	// OrbitCamera rotates the whole-cube view. Pitch is clamped to +-90 degrees.
	OrbitCamera(deltaYaw, deltaPitch float64)
}

// Retagger is implemented by renderers that rename pieces after a commit.
type Retagger interface {
	Retag(retags []Retag)
}

// Resyncer is implemented by renderers that can snap their visual state
// back to a lattice, used after an abandoned rotation.
type Resyncer interface {
	Resync(l *Lattice)
}

// Haptics fires a tactile cue.
type Haptics interface {
	Impact()
}
