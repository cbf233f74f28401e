package cubetwist

import (
	"fmt"
	"strings"
)

// LatticeSize is the number of positions along each axis.
const LatticeSize = 3

// PieceCount is the number of pieces in the lattice.
const PieceCount = LatticeSize * LatticeSize * LatticeSize

// Coord is a logical lattice position.
type Coord struct {
	X, Y, Z int
}

// Valid reports whether every component lies in 0..2.
func (c Coord) Valid() bool {
	return c.X >= 0 && c.X < LatticeSize &&
		c.Y >= 0 && c.Y < LatticeSize &&
		c.Z >= 0 && c.Z < LatticeSize
}

// Along returns the component of c selected by axis.
func (c Coord) Along(axis Axis) int {
	switch axis {
	case AxisX:
		return c.X
	case AxisY:
		return c.Y
	default:
		return c.Z
	}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Rotate applies the quarter-turn permutation for axis and direction to c.
// Only the two coordinates in the rotation plane change.
func Rotate(c Coord, axis Axis, clockwise bool) Coord {
	const m = LatticeSize - 1
	switch axis {
	case AxisY:
		if clockwise {
			return Coord{c.Z, c.Y, m - c.X}
		}
		return Coord{m - c.Z, c.Y, c.X}
	case AxisX:
		if clockwise {
			return Coord{c.X, m - c.Z, c.Y}
		}
		return Coord{c.X, c.Z, m - c.Y}
	case AxisZ:
		if clockwise {
			return Coord{m - c.Y, c.X, c.Z}
		}
		return Coord{c.Y, m - c.X, c.Z}
	default:
		return c
	}
}

// PieceID identifies a piece for the lifetime of a lattice.
// IDs are assigned from the identity layout and never change.
type PieceID int

// Handle is the renderer's visual payload for a piece. The core stores it
// and hands it back, but never looks inside.
type Handle any

// Piece is one of the 27 cubies.
type Piece struct {
	ID     PieceID
	Home   Coord  // Position in the identity layout
	Pos    Coord  // Current logical position
	Handle Handle // Renderer-owned
}

// Displacement records one piece moving during a committed rotation.
type Displacement struct {
	Piece PieceID
	From  Coord
	To    Coord
}

// Lattice holds the 27 pieces and the inverse position index.
// The two views are always kept in sync; positions are a bijection onto
// {0,1,2}^3.
type Lattice struct {
	pieces [PieceCount]Piece
	grid   [LatticeSize][LatticeSize][LatticeSize]PieceID
}

// NewLattice creates a lattice in the identity layout.
func NewLattice() *Lattice {
	l := &Lattice{}
	l.Reset()
	return l
}

// homeID returns the id assigned to the piece that starts at c.
func homeID(c Coord) PieceID {
	return PieceID(c.X + c.Y*LatticeSize + c.Z*LatticeSize*LatticeSize)
}

// Reset restores the identity layout. Handles are kept.
func (l *Lattice) Reset() {
	for x := 0; x < LatticeSize; x++ {
		for y := 0; y < LatticeSize; y++ {
			for z := 0; z < LatticeSize; z++ {
				c := Coord{x, y, z}
				id := homeID(c)
				p := &l.pieces[id]
				p.ID = id
				p.Home = c
				p.Pos = c
				l.grid[x][y][z] = id
			}
		}
	}
}

// Clone creates a deep copy of the lattice. Handles are shared.
func (l *Lattice) Clone() *Lattice {
	clone := *l
	return &clone
}

// Piece returns a copy of the piece record.
func (l *Lattice) Piece(id PieceID) (Piece, bool) {
	if id < 0 || int(id) >= PieceCount {
		return Piece{}, false
	}
	return l.pieces[id], true
}

// Pieces returns copies of all piece records ordered by id.
func (l *Lattice) Pieces() []Piece {
	out := make([]Piece, PieceCount)
	copy(out, l.pieces[:])
	return out
}

// PositionOf returns the current position of a piece.
func (l *Lattice) PositionOf(id PieceID) (Coord, bool) {
	if id < 0 || int(id) >= PieceCount {
		return Coord{}, false
	}
	return l.pieces[id].Pos, true
}

// PieceAt returns the piece currently occupying c.
func (l *Lattice) PieceAt(c Coord) (PieceID, bool) {
	if !c.Valid() {
		return 0, false
	}
	return l.grid[c.X][c.Y][c.Z], true
}

// Attach stores the renderer handle for a piece.
func (l *Lattice) Attach(id PieceID, h Handle) {
	if id < 0 || int(id) >= PieceCount {
		return
	}
	l.pieces[id].Handle = h
}

// HandleOf returns the renderer handle for a piece, if one was attached.
func (l *Lattice) HandleOf(id PieceID) Handle {
	if id < 0 || int(id) >= PieceCount {
		return nil
	}
	return l.pieces[id].Handle
}

// Slice returns the ids of the nine pieces whose coordinate along axis
// equals layer, in grid order.
func (l *Lattice) Slice(axis Axis, layer int) []PieceID {
	if !axis.Valid() || layer < 0 || layer >= LatticeSize {
		return nil
	}

	ids := make([]PieceID, 0, LatticeSize*LatticeSize)
	for a := 0; a < LatticeSize; a++ {
		for b := 0; b < LatticeSize; b++ {
			var c Coord
			switch axis {
			case AxisX:
				c = Coord{layer, a, b}
			case AxisY:
				c = Coord{a, layer, b}
			case AxisZ:
				c = Coord{a, b, layer}
			}
			ids = append(ids, l.grid[c.X][c.Y][c.Z])
		}
	}
	return ids
}

// Row returns the pieces with the given y coordinate.
func (l *Lattice) Row(y int) []PieceID { return l.Slice(AxisY, y) }

// Column returns the pieces with the given x coordinate.
func (l *Lattice) Column(x int) []PieceID { return l.Slice(AxisX, x) }

// Layer returns the pieces with the given z coordinate.
func (l *Lattice) Layer(z int) []PieceID { return l.Slice(AxisZ, z) }

// Apply commits a quarter turn. Pieces outside the addressed slice are not
// touched. An invalid command is a no-op.
func (l *Lattice) Apply(cmd RotationCommand) []Displacement {
	if !cmd.Valid() {
		return nil
	}

	ids := l.Slice(cmd.Axis, cmd.Layer)
	moved := make([]Displacement, 0, len(ids))

	// Compute every destination before writing so the grid never aliases.
	for _, id := range ids {
		from := l.pieces[id].Pos
		moved = append(moved, Displacement{Piece: id, From: from, To: Rotate(from, cmd.Axis, cmd.Clockwise)})
	}
	for _, d := range moved {
		l.pieces[d.Piece].Pos = d.To
		l.grid[d.To.X][d.To.Y][d.To.Z] = d.Piece
	}

	return moved
}

// ApplyAll commits a sequence of commands in order.
func (l *Lattice) ApplyAll(cmds []RotationCommand) {
	for _, c := range cmds {
		l.Apply(c)
	}
}

// IsIdentity returns true if every piece is at its home position.
func (l *Lattice) IsIdentity() bool {
	for i := range l.pieces {
		if l.pieces[i].Pos != l.pieces[i].Home {
			return false
		}
	}
	return true
}

// Equal reports whether both lattices place every piece identically.
func (l *Lattice) Equal(other *Lattice) bool {
	for i := range l.pieces {
		if l.pieces[i].Pos != other.pieces[i].Pos {
			return false
		}
	}
	return true
}

// Validate checks the bijection invariant and that both indexes agree.
func (l *Lattice) Validate() error {
	var seen [LatticeSize][LatticeSize][LatticeSize]bool
	for i := range l.pieces {
		p := l.pieces[i]
		if !p.Pos.Valid() {
			return fmt.Errorf("piece %d at %s: out of range", p.ID, p.Pos)
		}
		if seen[p.Pos.X][p.Pos.Y][p.Pos.Z] {
			return fmt.Errorf("piece %d at %s: position shared", p.ID, p.Pos)
		}
		seen[p.Pos.X][p.Pos.Y][p.Pos.Z] = true
		if l.grid[p.Pos.X][p.Pos.Y][p.Pos.Z] != p.ID {
			return fmt.Errorf("piece %d at %s: grid holds %d", p.ID, p.Pos, l.grid[p.Pos.X][p.Pos.Y][p.Pos.Z])
		}
	}
	return nil
}

// String returns a text representation of the lattice, one z layer per
// block, showing which piece id occupies each (x, y) cell. y grows upward.
func (l *Lattice) String() string {
	var b strings.Builder
	for z := LatticeSize - 1; z >= 0; z-- {
		fmt.Fprintf(&b, "z=%d\n", z)
		for y := LatticeSize - 1; y >= 0; y-- {
			for x := 0; x < LatticeSize; x++ {
				fmt.Fprintf(&b, "%3d", l.grid[x][y][z])
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
