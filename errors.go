package cubetwist

import "errors"

// Sentinel errors for the cubetwist package.
var (
	// Rotation errors
	ErrRotationInProgress = errors.New("cubetwist: rotation already in progress, dropped")
	ErrInvalidCommand     = errors.New("cubetwist: invalid rotation command")

	// Resolution errors
	ErrNoPiece      = errors.New("cubetwist: no piece resolved")
	ErrMalformedTag = errors.New("cubetwist: malformed piece tag")
	ErrNoFace       = errors.New("cubetwist: piece is not on an outer face")
	ErrNoSwipe      = errors.New("cubetwist: swipe has no direction")

	// Parsing errors
	ErrInvalidNotation = errors.New("cubetwist: invalid command notation")
)
