package cubetwist

import (
	"testing"
)

func TestNewLatticeIsIdentity(t *testing.T) {
	l := NewLattice()
	if !l.IsIdentity() {
		t.Error("New lattice should be in identity layout")
	}
	if err := l.Validate(); err != nil {
		t.Errorf("New lattice should be a bijection: %v", err)
	}
}

func TestLookupsAgree(t *testing.T) {
	l := NewLattice()
	l.ApplyAll([]RotationCommand{Y1, X0, Z2Prime, Y0})
	for id := PieceID(0); id < PieceCount; id++ {
		pos, ok := l.PositionOf(id)
		if !ok {
			t.Fatalf("piece %d has no position", id)
		}
		back, ok := l.PieceAt(pos)
		if !ok || back != id {
			t.Errorf("PieceAt(%v) = %d, want %d", pos, back, id)
		}
	}
}

func TestSingleTurnBreaksIdentity(t *testing.T) {
	l := NewLattice()
	l.Apply(X2)
	if l.IsIdentity() {
		t.Error("Lattice should not be identity after X2")
	}
}

func TestFourTurns_ReturnToIdentity_AllSlices(t *testing.T) {
	for _, cmd := range AllCommands() {
		l := NewLattice()
		for i := 0; i < 4; i++ {
			l.Apply(cmd)
			if err := l.Validate(); err != nil {
				t.Fatalf("%v turn %d: %v", cmd, i+1, err)
			}
		}
		if !l.IsIdentity() {
			t.Errorf("%v x 4 should return to identity", cmd)
			t.Log(l.String())
		}
	}
}

func TestTurnThenInverse_IsIdentity(t *testing.T) {
	for _, cmd := range AllCommands() {
		l := NewLattice()
		l.Apply(Y0)
		before := l.Clone()

		l.Apply(cmd)
		l.Apply(cmd.Inverse())
		if !l.Equal(before) {
			t.Errorf("%v then %v should be identity", cmd, cmd.Inverse())
		}
	}
}

func TestTurnOnlyMovesItsSlice(t *testing.T) {
	for _, cmd := range AllCommands() {
		l := NewLattice()
		l.ApplyAll([]RotationCommand{X1, Z0, Y2Prime})
		before := l.Clone()

		moves := l.Apply(cmd)
		if len(moves) != 9 {
			t.Errorf("%v moved %d pieces, want 9", cmd, len(moves))
		}
		for id := PieceID(0); id < PieceCount; id++ {
			was, _ := before.PositionOf(id)
			now, _ := l.PositionOf(id)
			if was.Along(cmd.Axis) != cmd.Layer && was != now {
				t.Errorf("%v moved piece %d outside the slice: %v -> %v", cmd, id, was, now)
			}
			if now.Along(cmd.Axis) != was.Along(cmd.Axis) {
				t.Errorf("%v changed the %v coordinate of piece %d", cmd, cmd.Axis, id)
			}
		}
	}
}

func TestMiddleRowClockwise(t *testing.T) {
	l := NewLattice()
	a, _ := l.PieceAt(Coord{0, 1, 0})
	b, _ := l.PieceAt(Coord{2, 1, 2})

	l.Apply(Y1)

	if pos, _ := l.PositionOf(a); pos != (Coord{0, 1, 2}) {
		t.Errorf("piece from (0,1,0) at %v, want (0,1,2)", pos)
	}
	if pos, _ := l.PositionOf(b); pos != (Coord{2, 1, 0}) {
		t.Errorf("piece from (2,1,2) at %v, want (2,1,0)", pos)
	}
}

func TestLeftColumnFourTimes(t *testing.T) {
	l := NewLattice()
	l.Apply(X0)
	l.Apply(X0)
	l.Apply(X0)
	if l.IsIdentity() {
		t.Error("X0 x 3 should not be identity")
	}
	l.Apply(X0)
	if !l.IsIdentity() {
		t.Error("X0 x 4 should return to identity")
		t.Log(l.String())
	}
}

func TestPermutationLaw(t *testing.T) {
	tests := []struct {
		axis      Axis
		clockwise bool
		in, want  Coord
	}{
		{AxisY, true, Coord{0, 1, 0}, Coord{0, 1, 2}},
		{AxisY, false, Coord{0, 1, 0}, Coord{2, 1, 0}},
		{AxisX, true, Coord{0, 0, 0}, Coord{0, 2, 0}},
		{AxisX, false, Coord{0, 0, 0}, Coord{0, 0, 2}},
		{AxisZ, true, Coord{0, 0, 2}, Coord{2, 0, 2}},
		{AxisZ, false, Coord{0, 0, 2}, Coord{0, 2, 2}},
	}

	for _, tt := range tests {
		if got := Rotate(tt.in, tt.axis, tt.clockwise); got != tt.want {
			t.Errorf("Rotate(%v, %v, %v) = %v, want %v", tt.in, tt.axis, tt.clockwise, got, tt.want)
		}
	}
}

func TestInvalidCommandIsNoop(t *testing.T) {
	l := NewLattice()
	if moves := l.Apply(RotationCommand{Axis: AxisY, Layer: 3}); moves != nil {
		t.Error("Out-of-range layer should not move anything")
	}
	if !l.IsIdentity() {
		t.Error("Lattice should be untouched")
	}
}

func TestSliceSelection(t *testing.T) {
	l := NewLattice()
	l.Apply(Z1)
	for _, id := range l.Row(2) {
		pos, _ := l.PositionOf(id)
		if pos.Y != 2 {
			t.Errorf("Row(2) returned piece %d at %v", id, pos)
		}
	}
	if n := len(l.Column(0)); n != 9 {
		t.Errorf("Column(0) has %d pieces, want 9", n)
	}
	if l.Layer(5) != nil {
		t.Error("Layer(5) should be nil")
	}
}

func TestResetKeepsHandles(t *testing.T) {
	l := NewLattice()
	l.Attach(4, "node-4")
	l.Apply(Y1)
	l.Reset()
	if !l.IsIdentity() {
		t.Error("Reset should restore identity")
	}
	if l.HandleOf(4) != "node-4" {
		t.Error("Reset should keep handles")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := NewLattice()
	c := l.Clone()
	l.Apply(X1)
	if !c.IsIdentity() {
		t.Error("Clone should not see later turns")
	}
}
