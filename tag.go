package cubetwist

import (
	"fmt"
	"strconv"
	"strings"
)

// tagPrefix starts every piece tag.
const tagPrefix = "cube_"

// Tag returns the visual identity for a piece sitting at c, for example
// cube_2_0_2. Renderers name their nodes with it so that hit tests report
// the piece's current position.
func Tag(c Coord) string {
	return fmt.Sprintf("%s%d_%d_%d", tagPrefix, c.X, c.Y, c.Z)
}

// ParseTag maps a tag back to a lattice coordinate.
func ParseTag(tag string) (Coord, error) {
	if !strings.HasPrefix(tag, tagPrefix) {
		return Coord{}, ErrMalformedTag
	}

	parts := strings.Split(strings.TrimPrefix(tag, tagPrefix), "_")
	if len(parts) != 3 {
		return Coord{}, ErrMalformedTag
	}

	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Coord{}, fmt.Errorf("%w: %q", ErrMalformedTag, tag)
		}
		v[i] = n
	}

	c := Coord{v[0], v[1], v[2]}
	if !c.Valid() {
		return Coord{}, fmt.Errorf("%w: %q out of range", ErrMalformedTag, tag)
	}
	return c, nil
}

// Retag tells the renderer to rename a piece after a commit.
type Retag struct {
	Piece  PieceID
	Handle Handle
	OldTag string
	NewTag string
}
