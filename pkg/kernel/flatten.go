package kernel

import (
	"fmt"
	"math"

	"github.com/chazu/kisketch/pkg/sketch"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultFlatness is the maximum deviation, in millimeters, between a curved
// edge and its flattened polyline.
const DefaultFlatness = 0.01

// maxSubdivisions caps the number of pieces a single edge or span is cut into.
const maxSubdivisions = 4096

// FlattenEdge approximates an edge by a polyline whose deviation from the
// edge is at most tol. The result starts at e.Start() and ends at e.End().
func FlattenEdge(e sketch.Edge, tol float64) []r2.Vec {
	switch v := e.(type) {
	case sketch.ArcEdge:
		return flattenArc(v, tol)
	case sketch.CurveEdge:
		return flattenCurve(v.Curve, tol)
	default:
		return []r2.Vec{e.Start(), e.End()}
	}
}

// FlattenLoop concatenates the flattened edges of a closed loop. The first
// vertex is not repeated at the end.
func FlattenLoop(loop []sketch.Edge, tol float64) []r2.Vec {
	var ring []r2.Vec
	for i, e := range loop {
		pts := FlattenEdge(e, tol)
		if i > 0 {
			pts = pts[1:]
		}
		ring = append(ring, pts...)
	}
	return dedupe(ring)
}

// FlattenCircle returns a closed polygon inscribed in a circle, within tol.
func FlattenCircle(center r2.Vec, radius, tol float64) []r2.Vec {
	n := arcPieces(radius, 2*math.Pi, tol)
	if n < 8 {
		n = 8
	}
	ring := make([]r2.Vec, n)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / float64(n)
		ring[i] = r2.Vec{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	return ring
}

// Outline flattens an assembled sketch into contours. A face yields one
// loop per closed chain; a union yields one loop per filled region, with
// overlaps left unresolved. Face edges are chained with the sketch's own
// tolerance; flatness bounds the chord deviation.
func Outline(s *sketch.Sketch, flatness float64) (*Contours, error) {
	if s == nil || s.IsEmpty() {
		return nil, ErrEmpty
	}
	c := &Contours{}
	if s.IsFace() {
		loops, err := s.Loops(s.ChainTolerance())
		if err != nil {
			return nil, err
		}
		for _, l := range loops {
			c.AddLoop(FlattenLoop(l.Edges, flatness))
		}
		return c, nil
	}
	for i, r := range s.Regions {
		switch v := r.(type) {
		case sketch.CircleRegion:
			c.AddLoop(FlattenCircle(v.Center, v.Radius, flatness))
		case sketch.RectRegion:
			c.AddLoop(RectRing(v))
		case sketch.PolygonRegion:
			c.AddLoop(dedupe(v.Ring))
		default:
			return nil, fmt.Errorf("kernel: region %d: unsupported region type %T", i, r)
		}
	}
	return c, nil
}

func flattenArc(e sketch.ArcEdge, tol float64) []r2.Vec {
	_, radius, ok := e.Circle()
	if !ok {
		return []r2.Vec{e.P0, e.P1}
	}
	_, sweep := e.Angles()
	n := arcPieces(radius, math.Abs(sweep), tol)
	pts := make([]r2.Vec, 0, n+1)
	pts = append(pts, e.P0)
	for i := 1; i < n; i++ {
		pts = append(pts, e.PointAt(float64(i)/float64(n)))
	}
	return append(pts, e.P1)
}

// arcPieces is the number of chords needed to keep the sagitta of each
// within tol.
func arcPieces(radius, sweep, tol float64) int {
	if tol <= 0 || tol >= radius {
		return clampPieces(math.Ceil(sweep / (math.Pi / 2)))
	}
	step := 2 * math.Acos(1-tol/radius)
	return clampPieces(math.Ceil(sweep / step))
}

// flattenCurve samples each knot span uniformly, with the piece count taken
// from Wang's bound on the second differences of the control polygon.
func flattenCurve(c *sketch.BSpline, tol float64) []r2.Vec {
	p := c.Degree
	var m float64
	for i := 0; i+2 < len(c.Poles); i++ {
		d := r2.Add(r2.Sub(c.Poles[i], r2.Scale(2, c.Poles[i+1])), c.Poles[i+2])
		m = math.Max(m, r2.Norm(d))
	}
	n := 1
	if p > 1 && tol > 0 {
		n = clampPieces(math.Ceil(math.Sqrt(float64(p*(p-1)) / 8 * m / tol)))
	}

	pts := []r2.Vec{c.StartPoint()}
	for k := 0; k+1 < len(c.Knots); k++ {
		a, b := c.Knots[k], c.Knots[k+1]
		for i := 1; i <= n; i++ {
			pts = append(pts, c.Eval(a+(b-a)*float64(i)/float64(n)))
		}
	}
	pts[len(pts)-1] = c.EndPoint()
	return pts
}

func clampPieces(n float64) int {
	switch {
	case n < 1:
		return 1
	case n > maxSubdivisions:
		return maxSubdivisions
	}
	return int(n)
}

// RectRing returns the corners of a rectangle region, counter-clockwise.
func RectRing(r sketch.RectRegion) []r2.Vec {
	hw, hh := r.Width/2, r.Height/2
	c := r.Center
	return []r2.Vec{
		{X: c.X - hw, Y: c.Y - hh},
		{X: c.X + hw, Y: c.Y - hh},
		{X: c.X + hw, Y: c.Y + hh},
		{X: c.X - hw, Y: c.Y + hh},
	}
}

// dedupe drops consecutive repeated vertices and a closing vertex equal to
// the first.
func dedupe(ring []r2.Vec) []r2.Vec {
	out := make([]r2.Vec, 0, len(ring))
	for _, p := range ring {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	if n := len(out); n > 1 && out[0] == out[n-1] {
		out = out[:n-1]
	}
	return out
}
