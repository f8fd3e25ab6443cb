package sketch

import (
	"fmt"

	"github.com/chazu/kisketch/pkg/board"
	"gonum.org/v1/gonum/spatial/r2"
)

// Assembler turns one grouping of board shapes into a Sketch. It holds no
// per-call state, so one Assembler may serve independent groupings,
// including from several goroutines if Sink is safe for concurrent use.
type Assembler struct {
	Mapper Mapper
	Sink   Sink // nil discards diagnostics

	// Tolerance is the endpoint matching distance in mm for the advisory
	// closure check. It is carried on the Sketch for later chaining. Zero
	// means DefaultTolerance.
	Tolerance float64
}

// NewAssembler returns an Assembler mapping through m and reporting to sink.
func NewAssembler(m Mapper, sink Sink) *Assembler {
	return &Assembler{Mapper: m, Sink: sink}
}

// Assemble classifies each shape in order and returns either the face
// bounded by the chained open edges, when any arc, segment or curve is
// present, or the union of the circles, rectangles and polygons otherwise.
// Mixed groupings are reported to the Sink and resolved in favor of the
// face. A shape kind with no sketch equivalent aborts with an
// *UnsupportedShapeError and no sketch.
func (a *Assembler) Assemble(shapes []board.Shape) (*Sketch, error) {
	var (
		st        AssemblyState
		edges     []Edge
		regions   []Region
		firstOpen = -1
		firstFull = -1
		mixedAt   = -1
		secondAt  = -1
	)
	m := a.Mapper

	for i, s := range shapes {
		if s == nil {
			return nil, &UnsupportedShapeError{Index: i, Kind: "nil"}
		}

		switch v := s.(type) {
		case board.Arc:
			edges = append(edges, ArcEdge{P0: m.Map(v.Start), Mid: m.Map(v.Mid), P1: m.Map(v.End)})
		case board.Segment:
			edges = append(edges, SegmentEdge{P0: m.Map(v.Start), P1: m.Map(v.End)})
		case board.Curve:
			edges = append(edges, CurveEdge{Curve: Bezier(m.MapAll(v.Start, v.C1, v.C2, v.End)...)})
		case board.Circle:
			regions = append(regions, CircleRegion{Center: m.Map(v.Center), Radius: m.Length(v.Radius)})
		case board.Rect:
			regions = append(regions, rectRegion(m, v))
		case board.Polygon:
			ring := m.MapAll(v.Points...)
			if len(ring) > 0 {
				ring = append(ring, ring[0])
			}
			regions = append(regions, PolygonRegion{Ring: ring})
		default:
			return nil, &UnsupportedShapeError{Index: i, Kind: s.Kind().String()}
		}

		c := s.Kind().Category()
		switch {
		case c == board.CategoryOpen && firstOpen < 0:
			firstOpen = i
			if firstFull >= 0 {
				mixedAt = i
			}
		case c == board.CategoryFull:
			if firstFull < 0 {
				firstFull = i
				if firstOpen >= 0 {
					mixedAt = i
				}
			} else if secondAt < 0 {
				secondAt = i
			}
		}
		st.observe(c)
	}

	if st.FullCount > 0 && st.HasOpen {
		a.report(Diagnostic{
			Kind:    AmbiguousGeometry,
			Index:   mixedAt,
			Message: "both complete and incomplete shapes used, shape may be undefined",
		})
	}
	if st.FullCount > 1 {
		a.report(Diagnostic{
			Kind:    MultipleFullPrimitives,
			Index:   secondAt,
			Message: fmt.Sprintf("more than 1 complete shape used (%d), shape may be undefined", st.FullCount),
		})
	}

	tol := a.tolerance()
	if st.HasOpen {
		if _, err := Chain(edges, tol); err != nil {
			a.report(Diagnostic{Kind: UnclosedChain, Index: -1, Message: err.Error()})
		}
		return &Sketch{Edges: edges, State: st, Tolerance: tol}, nil
	}
	return &Sketch{Regions: regions, State: st, Tolerance: tol}, nil
}

// rectRegion recomputes the size from the mapped corner extrema so the
// result does not depend on corner order or the Y flip.
func rectRegion(m Mapper, r board.Rect) RectRegion {
	lo, hi := bounds([]r2.Vec{m.Map(r.Start), m.Map(r.End)})
	return RectRegion{
		Center: m.Map(r.Center()),
		Width:  hi.X - lo.X,
		Height: hi.Y - lo.Y,
	}
}

func (a *Assembler) tolerance() float64 {
	if a.Tolerance > 0 {
		return a.Tolerance
	}
	return DefaultTolerance
}

func (a *Assembler) report(d Diagnostic) {
	if a.Sink != nil {
		a.Sink.Report(d)
	}
}
