package sketch

import (
	"testing"

	"github.com/chazu/kisketch/pkg/board"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

const tol = 1e-9

func vecNear(a, b r2.Vec, eps float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, eps) && scalar.EqualWithinAbs(a.Y, b.Y, eps)
}

func TestMapFormula(t *testing.T) {
	origin := board.Pt(100*board.IUPerMM, 50*board.IUPerMM)
	m := NewMapper(origin)

	tests := []struct {
		name string
		p    board.Point
		want r2.Vec
	}{
		{"origin", origin, r2.Vec{}},
		{"right of origin", board.Pt(101*board.IUPerMM, 50*board.IUPerMM), r2.Vec{X: 1}},
		{"below origin is negative y", board.Pt(100*board.IUPerMM, 52500000), r2.Vec{Y: -2.5}},
		{"above and left", board.Pt(0, 0), r2.Vec{X: -100, Y: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Map(tt.p)
			if !vecNear(got, tt.want, tol) {
				t.Errorf("Map(%v) = %v, want %v", tt.p, got, tt.want)
			}
			// map(p) == (mm(p.x - o.x), -mm(p.y - o.y))
			d := tt.p.Sub(origin)
			if got.X != board.ToMM(d.X) || got.Y != -board.ToMM(d.Y) {
				t.Errorf("Map(%v) = %v does not match the conversion formula", tt.p, got)
			}
		})
	}
}

func TestMapOriginTranslation(t *testing.T) {
	// Re-mapping from a shifted origin equals translating the old mapping.
	o1 := board.Pt(0, 0)
	shift := board.Pt(3*board.IUPerMM, -7*board.IUPerMM)
	o2 := o1.Add(shift)
	m1, m2 := NewMapper(o1), NewMapper(o2)
	delta := m1.Map(o2)

	points := []board.Point{
		board.Pt(0, 0),
		board.Pt(1234567, -7654321),
		board.Pt(-50*board.IUPerMM, 12*board.IUPerMM),
	}
	for _, p := range points {
		want := r2.Sub(m1.Map(p), delta)
		if got := m2.Map(p); !vecNear(got, want, tol) {
			t.Errorf("Map from shifted origin of %v = %v, want %v", p, got, want)
		}
	}
}

func TestMapLength(t *testing.T) {
	m := NewMapper(board.Pt(5, 5))
	if got := m.Length(2 * board.IUPerMM); got != 2 {
		t.Errorf("Length = %v, want 2", got)
	}
	if m.Origin() != board.Pt(5, 5) {
		t.Errorf("Origin = %v", m.Origin())
	}
}
