package sketch

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/kisketch/pkg/board"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

const mm = board.IUPerMM

func seg(x0, y0, x1, y1 int64) board.Segment {
	return board.Segment{Layer: board.EdgeCuts, Start: board.Pt(x0, y0), End: board.Pt(x1, y1)}
}

// squareLoop is a closed 1mm square drawn head to tail in board units.
func squareLoop() []board.Shape {
	return []board.Shape{
		seg(0, 0, mm, 0),
		seg(mm, 0, mm, mm),
		seg(mm, mm, 0, mm),
		seg(0, mm, 0, 0),
	}
}

func newTestAssembler() (*Assembler, *Recorder) {
	rec := &Recorder{}
	return NewAssembler(NewMapper(board.Pt(0, 0)), rec), rec
}

func TestAssembleSingleCircle(t *testing.T) {
	a, rec := newTestAssembler()
	c := board.Circle{Center: board.Pt(2*mm, 3*mm), Radius: 1500000}

	s, err := a.Assemble([]board.Shape{c})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if s.IsFace() {
		t.Fatal("a lone circle must not go through chain closure")
	}
	if s.State.FullCount != 1 || s.State.HasOpen {
		t.Errorf("state = %+v, want full_count 1 and no open", s.State)
	}
	if s.State.Phase != PhaseAccumulatingFull {
		t.Errorf("phase = %s, want accumulating-full", s.State.Phase)
	}
	if len(s.Regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(s.Regions))
	}
	cr, ok := s.Regions[0].(CircleRegion)
	if !ok {
		t.Fatalf("expected CircleRegion, got %T", s.Regions[0])
	}
	if cr.Radius != 1.5 {
		t.Errorf("radius = %v, want 1.5", cr.Radius)
	}
	if !vecNear(cr.Center, r2.Vec{X: 2, Y: -3}, tol) {
		t.Errorf("center = %v, want (2,-3)", cr.Center)
	}
	if len(rec.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.Diagnostics)
	}
}

func TestAssembleSegmentSquare(t *testing.T) {
	a, rec := newTestAssembler()

	s, err := a.Assemble(squareLoop())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !s.IsFace() || !s.State.HasOpen {
		t.Fatal("segments must produce a face")
	}
	if s.State.Phase != PhaseAccumulatingOpen {
		t.Errorf("phase = %s, want accumulating-open", s.State.Phase)
	}
	if len(s.Edges) != 4 || len(s.Regions) != 0 {
		t.Fatalf("got %d edges and %d regions, want 4 and 0", len(s.Edges), len(s.Regions))
	}
	area, err := s.Area()
	if err != nil {
		t.Fatalf("Area: %v", err)
	}
	if !scalar.EqualWithinAbs(area, 1, 1e-12) {
		t.Errorf("area = %v mm², want 1", area)
	}
	if s.ClosureGap() != 0 {
		t.Errorf("closure gap = %v, want 0", s.ClosureGap())
	}
	if len(rec.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.Diagnostics)
	}
}

func TestAssembleMixedPrefersChain(t *testing.T) {
	a, rec := newTestAssembler()
	shapes := append(squareLoop(), board.Rect{Start: board.Pt(5*mm, 5*mm), End: board.Pt(7*mm, 9*mm)})

	s, err := a.Assemble(shapes)
	if err != nil {
		t.Fatalf("mixed grouping must not fail: %v", err)
	}
	if !s.IsFace() {
		t.Fatal("chain branch must win when open shapes are present")
	}
	if len(s.Regions) != 0 {
		t.Errorf("face result should not carry regions, got %d", len(s.Regions))
	}
	if !rec.Has(AmbiguousGeometry) {
		t.Error("expected ambiguous-geometry diagnostic")
	}
	if rec.Has(MultipleFullPrimitives) {
		t.Error("only one full primitive was present")
	}
	if d := rec.Diagnostics[0]; d.Index != 4 {
		t.Errorf("ambiguous diagnostic index = %d, want 4 (the rect)", d.Index)
	}
	area, err := s.Area()
	if err != nil {
		t.Fatalf("Area: %v", err)
	}
	if !scalar.EqualWithinAbs(area, 1, 1e-12) {
		t.Errorf("area = %v, want the square's 1 mm²", area)
	}
}

func TestAssembleFullThenOpen(t *testing.T) {
	a, rec := newTestAssembler()
	shapes := append([]board.Shape{board.Circle{Center: board.Pt(0, 0), Radius: mm}}, squareLoop()...)

	s, err := a.Assemble(shapes)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if s.State.Phase != PhaseAccumulatingOpen || !s.IsFace() {
		t.Errorf("state = %+v, want open phase", s.State)
	}
	if !rec.Has(AmbiguousGeometry) || rec.Diagnostics[0].Index != 1 {
		t.Errorf("expected ambiguous diagnostic at index 1, got %v", rec.Diagnostics)
	}
}

func TestAssembleTwoCircles(t *testing.T) {
	a, rec := newTestAssembler()
	shapes := []board.Shape{
		board.Circle{Center: board.Pt(0, 0), Radius: mm},
		board.Circle{Center: board.Pt(5*mm, 0), Radius: 2 * mm},
	}

	s, err := a.Assemble(shapes)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if s.IsFace() || len(s.Regions) != 2 {
		t.Fatalf("expected union of 2 regions, got face=%v regions=%d", s.IsFace(), len(s.Regions))
	}
	if !rec.Has(MultipleFullPrimitives) {
		t.Error("expected multiple-full-primitives diagnostic")
	}
	if rec.Has(AmbiguousGeometry) {
		t.Error("no open shapes were present")
	}
	area, _ := s.Area()
	if want := 5 * math.Pi; !scalar.EqualWithinAbs(area, want, 1e-9) {
		t.Errorf("area = %v, want %v", area, want)
	}
}

func TestAssembleUnsupported(t *testing.T) {
	a, _ := newTestAssembler()
	shapes := append(squareLoop(), board.Text{Value: "REV A"})

	s, err := a.Assemble(shapes)
	if s != nil {
		t.Fatal("no partial sketch may be returned")
	}
	if !errors.Is(err, ErrUnsupportedShape) {
		t.Fatalf("expected ErrUnsupportedShape, got %v", err)
	}
	var ue *UnsupportedShapeError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnsupportedShapeError, got %T", err)
	}
	if ue.Index != 4 || ue.Kind != "text" {
		t.Errorf("error = %+v, want index 4 kind text", ue)
	}

	_, err = a.Assemble([]board.Shape{nil})
	if !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("nil shape: expected ErrUnsupportedShape, got %v", err)
	}
}

func TestAssembleEmpty(t *testing.T) {
	a, rec := newTestAssembler()
	s, err := a.Assemble(nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !s.IsEmpty() || s.IsFace() || s.State.Phase != PhaseEmpty {
		t.Errorf("expected empty union, got %+v", s)
	}
	if len(rec.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.Diagnostics)
	}
}

func TestAssembleRectIgnoresCornerOrder(t *testing.T) {
	a, _ := newTestAssembler()
	r1 := board.Rect{Start: board.Pt(0, 0), End: board.Pt(4*mm, 2*mm)}
	r2_ := board.Rect{Start: board.Pt(4*mm, 2*mm), End: board.Pt(0, 0)}

	for _, r := range []board.Rect{r1, r2_} {
		s, err := a.Assemble([]board.Shape{r})
		if err != nil {
			t.Fatalf("Assemble: %v", err)
		}
		rr := s.Regions[0].(RectRegion)
		if rr.Width != 4 || rr.Height != 2 {
			t.Errorf("size = %vx%v, want 4x2", rr.Width, rr.Height)
		}
		if !vecNear(rr.Center, r2.Vec{X: 2, Y: -1}, tol) {
			t.Errorf("center = %v, want (2,-1)", rr.Center)
		}
	}
}

func TestAssemblePolygonRing(t *testing.T) {
	a, _ := newTestAssembler()
	p := board.Polygon{Points: []board.Point{board.Pt(0, 0), board.Pt(2*mm, 0), board.Pt(0, 2*mm)}}

	s, err := a.Assemble([]board.Shape{p})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	ring := s.Regions[0].(PolygonRegion).Ring
	if len(ring) != 4 || ring[0] != ring[3] {
		t.Fatalf("ring must repeat its first vertex, got %v", ring)
	}
	if ring[2] != (r2.Vec{X: 0, Y: -2}) {
		t.Errorf("vertex 2 = %v, want (0,-2)", ring[2])
	}
	if got := s.Regions[0].Area(); got != 2 {
		t.Errorf("area = %v, want 2", got)
	}
}

func TestAssembleArcAndCurve(t *testing.T) {
	a, rec := newTestAssembler()
	// A half disc of radius 1mm: bottom arc (board Y-down) closed by a
	// segment along the diameter, then the same outline with the diameter
	// replaced by a flat Bezier.
	arc := board.Arc{Start: board.Pt(-mm, 0), Mid: board.Pt(0, mm), End: board.Pt(mm, 0)}

	s, err := a.Assemble([]board.Shape{arc, seg(mm, 0, -mm, 0)})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	area, err := s.Area()
	if err != nil {
		t.Fatalf("Area: %v", err)
	}
	if want := math.Pi / 2; !scalar.EqualWithinAbs(area, want, 1e-9) {
		t.Errorf("half disc area = %v, want %v", area, want)
	}

	flat := board.Curve{
		Start: board.Pt(mm, 0), C1: board.Pt(mm/3, 0), C2: board.Pt(-mm/3, 0), End: board.Pt(-mm, 0),
	}
	s, err = a.Assemble([]board.Shape{arc, flat})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if s.Edges[1].Kind() != EdgeCurve {
		t.Fatalf("edge 1 kind = %s, want curve", s.Edges[1].Kind())
	}
	area, err = s.Area()
	if err != nil {
		t.Fatalf("Area: %v", err)
	}
	if want := math.Pi / 2; !scalar.EqualWithinAbs(area, want, 1e-6) {
		t.Errorf("half disc with curve area = %v, want %v", area, want)
	}
	if len(rec.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.Diagnostics)
	}
}

func TestAssembleUnclosedChainIsAdvisory(t *testing.T) {
	a, rec := newTestAssembler()
	shapes := squareLoop()[:3]

	s, err := a.Assemble(shapes)
	if err != nil {
		t.Fatalf("an unclosed chain must not fail assembly: %v", err)
	}
	if !s.IsFace() || len(s.Edges) != 3 {
		t.Errorf("expected face with 3 edges, got %+v", s)
	}
	if !rec.Has(UnclosedChain) {
		t.Error("expected unclosed-chain diagnostic")
	}
	if _, err := s.Area(); !errors.Is(err, ErrUnclosedChain) {
		t.Errorf("Area of unclosed face: expected ErrUnclosedChain, got %v", err)
	}
}

func TestAssembleCarriesTolerance(t *testing.T) {
	a, rec := newTestAssembler()
	a.Tolerance = 0.01
	shapes := squareLoop()
	shapes[3] = seg(0, mm, 0, mm/1000)

	s, err := a.Assemble(shapes)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Has(UnclosedChain) {
		t.Error("gap within tolerance reported as unclosed")
	}
	if s.ChainTolerance() != 0.01 {
		t.Errorf("sketch tolerance = %v, want 0.01", s.ChainTolerance())
	}
	area, err := s.Area()
	if err != nil {
		t.Fatalf("Area failed: %v", err)
	}
	if math.Abs(area-1) > 1e-3 {
		t.Errorf("area = %f, want ~1", area)
	}
}

func TestAssembleIndependentCalls(t *testing.T) {
	a, _ := newTestAssembler()
	first, err := a.Assemble([]board.Shape{board.Circle{Radius: mm}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Assemble(squareLoop())
	if err != nil {
		t.Fatal(err)
	}
	if first.State.HasOpen || first.State.FullCount != 1 {
		t.Errorf("first call state leaked: %+v", first.State)
	}
	if second.State.FullCount != 0 {
		t.Errorf("second call state leaked: %+v", second.State)
	}
}
