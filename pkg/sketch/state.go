package sketch

import (
	"math"

	"github.com/chazu/kisketch/pkg/board"
	"gonum.org/v1/gonum/spatial/r2"
)

// Phase is the assembler's position in the shape-category state machine.
type Phase int

const (
	PhaseEmpty            Phase = iota // no shapes seen
	PhaseAccumulatingOpen              // at least one open shape seen; never left
	PhaseAccumulatingFull              // only full shapes seen so far
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseAccumulatingOpen:
		return "accumulating-open"
	case PhaseAccumulatingFull:
		return "accumulating-full"
	default:
		return "unknown"
	}
}

// AssemblyState is the accumulator owned by one Assemble call.
type AssemblyState struct {
	FullCount int
	HasOpen   bool
	Phase     Phase
}

// observe advances the state machine for one shape of category c.
func (s *AssemblyState) observe(c board.Category) {
	switch c {
	case board.CategoryOpen:
		s.HasOpen = true
		s.Phase = PhaseAccumulatingOpen
	case board.CategoryFull:
		s.FullCount++
		if s.Phase == PhaseEmpty {
			s.Phase = PhaseAccumulatingFull
		}
	}
}

// Sketch is the result of one assembly. When State.HasOpen is set it is a
// face bounded by Edges, kept in input order and chained within Tolerance
// when needed; otherwise it is the union of Regions. The other field is
// empty.
type Sketch struct {
	Edges   []Edge
	Regions []Region
	State   AssemblyState

	// Tolerance is the endpoint matching distance in mm used to chain
	// Edges. Zero means DefaultTolerance.
	Tolerance float64
}

// ChainTolerance returns the distance within which face edge endpoints meet.
func (s *Sketch) ChainTolerance() float64 {
	if s.Tolerance > 0 {
		return s.Tolerance
	}
	return DefaultTolerance
}

// IsFace reports whether the sketch is a face built from the open-edge chain.
func (s *Sketch) IsFace() bool {
	return len(s.Edges) > 0
}

// IsEmpty reports whether the sketch holds no geometry.
func (s *Sketch) IsEmpty() bool {
	return len(s.Edges) == 0 && len(s.Regions) == 0
}

// ClosureGap returns the distance between the end of the last edge and the
// start of the first, in input order.
func (s *Sketch) ClosureGap() float64 {
	if len(s.Edges) == 0 {
		return 0
	}
	return dist(s.Edges[len(s.Edges)-1].End(), s.Edges[0].Start())
}

// Loops chains the face edges into closed loops.
func (s *Sketch) Loops(tol float64) ([]Loop, error) {
	return Chain(s.Edges, tol)
}

// Area returns the enclosed area in mm². For a face, the largest loop is the
// outer boundary and any other loops are holes. For a union it is the sum of
// the region areas; overlapping regions are counted twice.
func (s *Sketch) Area() (float64, error) {
	if !s.IsFace() {
		var a float64
		for _, r := range s.Regions {
			a += r.Area()
		}
		return a, nil
	}

	loops, err := s.Loops(s.ChainTolerance())
	if err != nil {
		return 0, err
	}
	var outer, holes float64
	for _, l := range loops {
		a := math.Abs(l.Area())
		if a > outer {
			holes += outer
			outer = a
		} else {
			holes += a
		}
	}
	return outer - holes, nil
}

// Bounds returns the bounding box of the face's edge endpoints or of the
// regions. Arcs and curves bulging past their endpoints are covered by
// including arc midpoints and curve poles.
func (s *Sketch) Bounds() (min, max r2.Vec) {
	var ps []r2.Vec
	for _, e := range s.Edges {
		switch v := e.(type) {
		case ArcEdge:
			ps = append(ps, v.P0, v.Mid, v.P1)
			if c, r, ok := v.Circle(); ok {
				ps = append(ps, arcExtremes(v, c, r)...)
			}
		case CurveEdge:
			ps = append(ps, v.Curve.Poles...)
		default:
			ps = append(ps, e.Start(), e.End())
		}
	}
	for _, r := range s.Regions {
		lo, hi := r.Bounds()
		ps = append(ps, lo, hi)
	}
	return bounds(ps)
}

// arcExtremes returns the axis-extreme points of the circle that the arc
// actually passes over.
func arcExtremes(a ArcEdge, c r2.Vec, r float64) []r2.Vec {
	start, sweep := a.Angles()
	var out []r2.Vec
	for q := 0; q < 4; q++ {
		theta := float64(q) * math.Pi / 2
		off := normAngle(theta - start)
		if sweep < 0 {
			off = normAngle(start - theta)
		}
		if off <= math.Abs(sweep) {
			out = append(out, r2.Vec{X: c.X + r*math.Cos(theta), Y: c.Y + r*math.Sin(theta)})
		}
	}
	return out
}
