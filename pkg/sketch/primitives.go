package sketch

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// EdgeKind distinguishes open sketch edges.
type EdgeKind int

const (
	EdgeSegment EdgeKind = iota
	EdgeArc
	EdgeCurve
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeSegment:
		return "segment"
	case EdgeArc:
		return "arc"
	case EdgeCurve:
		return "curve"
	default:
		return "unknown"
	}
}

// Edge is an open sketch edge pending closure into a face.
type Edge interface {
	Kind() EdgeKind
	Start() r2.Vec
	End() r2.Vec
	// Reverse returns the same edge traversed end to start.
	Reverse() Edge
	// SignedArea is the edge's contribution to the enclosed area of a loop,
	// the line integral (x dy - y dx) / 2 along the edge.
	SignedArea() float64
}

// ---------------------------------------------------------------------------
// Segment
// ---------------------------------------------------------------------------

// SegmentEdge is a straight edge.
type SegmentEdge struct {
	P0, P1 r2.Vec
}

func (e SegmentEdge) Kind() EdgeKind  { return EdgeSegment }
func (e SegmentEdge) Start() r2.Vec   { return e.P0 }
func (e SegmentEdge) End() r2.Vec     { return e.P1 }
func (e SegmentEdge) Reverse() Edge   { return SegmentEdge{P0: e.P1, P1: e.P0} }
func (e SegmentEdge) Length() float64 { return r2.Norm(r2.Sub(e.P1, e.P0)) }

func (e SegmentEdge) SignedArea() float64 {
	return r2.Cross(e.P0, e.P1) / 2
}

// ---------------------------------------------------------------------------
// Arc
// ---------------------------------------------------------------------------

// ArcEdge is a circular arc through three points.
type ArcEdge struct {
	P0, Mid, P1 r2.Vec
}

func (e ArcEdge) Kind() EdgeKind { return EdgeArc }
func (e ArcEdge) Start() r2.Vec  { return e.P0 }
func (e ArcEdge) End() r2.Vec    { return e.P1 }
func (e ArcEdge) Reverse() Edge  { return ArcEdge{P0: e.P1, Mid: e.Mid, P1: e.P0} }

// Circle returns the arc's center and radius. ok is false when the three
// points are collinear and the arc degenerates to a segment.
func (e ArcEdge) Circle() (center r2.Vec, radius float64, ok bool) {
	a, b, c := e.P0, e.Mid, e.P1
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-12 {
		return r2.Vec{}, 0, false
	}
	a2, b2, c2 := r2.Norm2(a), r2.Norm2(b), r2.Norm2(c)
	center = r2.Vec{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}
	return center, r2.Norm(r2.Sub(a, center)), true
}

// Angles returns the start angle and the signed sweep, positive for
// counter-clockwise, of the arc as it passes through Mid.
func (e ArcEdge) Angles() (start, sweep float64) {
	center, _, ok := e.Circle()
	if !ok {
		return 0, 0
	}
	start = angle(center, e.P0)
	ccw := normAngle(angle(center, e.P1) - start)
	mid := normAngle(angle(center, e.Mid) - start)
	if mid < ccw {
		return start, ccw
	}
	return start, ccw - 2*math.Pi
}

// PointAt returns the point at fraction f in [0, 1] along the arc.
func (e ArcEdge) PointAt(f float64) r2.Vec {
	center, radius, ok := e.Circle()
	if !ok {
		return r2.Add(e.P0, r2.Scale(f, r2.Sub(e.P1, e.P0)))
	}
	start, sweep := e.Angles()
	a := start + f*sweep
	return r2.Vec{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
}

func (e ArcEdge) SignedArea() float64 {
	chord := r2.Cross(e.P0, e.P1) / 2
	_, radius, ok := e.Circle()
	if !ok {
		return chord
	}
	_, sweep := e.Angles()
	// Circular segment between chord and arc, signed by direction.
	seg := radius * radius / 2 * (math.Abs(sweep) - math.Sin(math.Abs(sweep)))
	if sweep < 0 {
		seg = -seg
	}
	return chord + seg
}

func angle(center, p r2.Vec) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X)
}

// normAngle maps a into [0, 2*pi).
func normAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// ---------------------------------------------------------------------------
// Curve
// ---------------------------------------------------------------------------

// CurveEdge is an exact B-spline edge.
type CurveEdge struct {
	Curve *BSpline
}

func (e CurveEdge) Kind() EdgeKind { return EdgeCurve }
func (e CurveEdge) Start() r2.Vec  { return e.Curve.StartPoint() }
func (e CurveEdge) End() r2.Vec    { return e.Curve.EndPoint() }
func (e CurveEdge) Reverse() Edge  { return CurveEdge{Curve: e.Curve.Reverse()} }

func (e CurveEdge) SignedArea() float64 {
	return curveArea(e.Curve)
}

// ---------------------------------------------------------------------------
// Regions
// ---------------------------------------------------------------------------

// RegionKind distinguishes self-closed sketch regions.
type RegionKind int

const (
	RegionCircle RegionKind = iota
	RegionRect
	RegionPolygon
)

func (k RegionKind) String() string {
	switch k {
	case RegionCircle:
		return "circle"
	case RegionRect:
		return "rect"
	case RegionPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Region is a filled, self-closed sketch primitive.
type Region interface {
	Kind() RegionKind
	Area() float64
	// Bounds returns the axis-aligned bounding box.
	Bounds() (min, max r2.Vec)
}

// CircleRegion is a filled circle.
type CircleRegion struct {
	Center r2.Vec
	Radius float64
}

func (r CircleRegion) Kind() RegionKind { return RegionCircle }
func (r CircleRegion) Area() float64    { return math.Pi * r.Radius * r.Radius }

func (r CircleRegion) Bounds() (min, max r2.Vec) {
	d := r2.Vec{X: r.Radius, Y: r.Radius}
	return r2.Sub(r.Center, d), r2.Add(r.Center, d)
}

// RectRegion is a filled axis-aligned rectangle.
type RectRegion struct {
	Center        r2.Vec
	Width, Height float64
}

func (r RectRegion) Kind() RegionKind { return RegionRect }
func (r RectRegion) Area() float64    { return r.Width * r.Height }

func (r RectRegion) Bounds() (min, max r2.Vec) {
	d := r2.Vec{X: r.Width / 2, Y: r.Height / 2}
	return r2.Sub(r.Center, d), r2.Add(r.Center, d)
}

// PolygonRegion is a filled polygon. Ring is closed: its last vertex repeats
// the first.
type PolygonRegion struct {
	Ring []r2.Vec
}

func (r PolygonRegion) Kind() RegionKind { return RegionPolygon }

// Area is the absolute shoelace area of the ring.
func (r PolygonRegion) Area() float64 {
	var a float64
	for i := 0; i+1 < len(r.Ring); i++ {
		a += r2.Cross(r.Ring[i], r.Ring[i+1])
	}
	return math.Abs(a) / 2
}

func (r PolygonRegion) Bounds() (min, max r2.Vec) {
	return bounds(r.Ring)
}

func bounds(ps []r2.Vec) (min, max r2.Vec) {
	if len(ps) == 0 {
		return
	}
	min, max = ps[0], ps[0]
	for _, p := range ps[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}
