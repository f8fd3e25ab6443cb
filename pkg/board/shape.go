package board

import "fmt"

// Kind identifies a board shape variant.
type Kind int

const (
	KindSegment Kind = iota
	KindRect
	KindArc
	KindCircle
	KindPolygon
	KindCurve
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindSegment:
		return "segment"
	case KindRect:
		return "rect"
	case KindArc:
		return "arc"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindCurve:
		return "curve"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Category splits shape kinds into those that must be chained into a loop
// and those that enclose a region on their own.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryOpen             // arc, segment, curve
	CategoryFull             // circle, rect, polygon
)

func (c Category) String() string {
	switch c {
	case CategoryOpen:
		return "open"
	case CategoryFull:
		return "full"
	default:
		return "unknown"
	}
}

// Category returns the fixed category of a shape kind.
func (k Kind) Category() Category {
	switch k {
	case KindArc, KindSegment, KindCurve:
		return CategoryOpen
	case KindCircle, KindRect, KindPolygon:
		return CategoryFull
	default:
		return CategoryUnknown
	}
}

// Shape is a graphic item read from a board drawing layer or a footprint.
// The set of implementations is closed to this package.
type Shape interface {
	Kind() Kind
	OnLayer() Layer
	shape()
}

// Segment is a straight line from Start to End.
type Segment struct {
	Layer Layer `json:"layer"`
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Arc is a circular arc through Start, Mid and End.
type Arc struct {
	Layer Layer `json:"layer"`
	Start Point `json:"start"`
	Mid   Point `json:"mid"`
	End   Point `json:"end"`
}

// Circle is a filled circle.
type Circle struct {
	Layer  Layer `json:"layer"`
	Center Point `json:"center"`
	Radius int64 `json:"radius"`
}

// Rect is an axis-aligned rectangle given by two opposite corners, in any order.
type Rect struct {
	Layer Layer `json:"layer"`
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Curve is a cubic Bezier from Start to End with control points C1 and C2.
type Curve struct {
	Layer Layer `json:"layer"`
	Start Point `json:"start"`
	C1    Point `json:"c1"`
	C2    Point `json:"c2"`
	End   Point `json:"end"`
}

// Polygon is a filled polygon. The ring is implicitly closed.
type Polygon struct {
	Layer  Layer   `json:"layer"`
	Points []Point `json:"points"`
}

// Text is a text item. It lives on graphic layers alongside the geometric
// shapes but carries no outline geometry.
type Text struct {
	Layer Layer  `json:"layer"`
	Value string `json:"value"`
	At    Point  `json:"at"`
}

func (Segment) Kind() Kind { return KindSegment }
func (Arc) Kind() Kind     { return KindArc }
func (Circle) Kind() Kind  { return KindCircle }
func (Rect) Kind() Kind    { return KindRect }
func (Curve) Kind() Kind   { return KindCurve }
func (Polygon) Kind() Kind { return KindPolygon }
func (Text) Kind() Kind    { return KindText }

func (s Segment) OnLayer() Layer { return s.Layer }
func (s Arc) OnLayer() Layer     { return s.Layer }
func (s Circle) OnLayer() Layer  { return s.Layer }
func (s Rect) OnLayer() Layer    { return s.Layer }
func (s Curve) OnLayer() Layer   { return s.Layer }
func (s Polygon) OnLayer() Layer { return s.Layer }
func (s Text) OnLayer() Layer    { return s.Layer }

func (Segment) shape() {}
func (Arc) shape()     {}
func (Circle) shape()  {}
func (Rect) shape()    {}
func (Curve) shape()   {}
func (Polygon) shape() {}
func (Text) shape()    {}

// Center returns the rectangle's declared center, the midpoint of its
// corners rounded down to whole board units.
func (r Rect) Center() Point {
	return Point{X: midpoint(r.Start.X, r.End.X), Y: midpoint(r.Start.Y, r.End.Y)}
}

// midpoint rounds toward negative infinity whatever the sign or corner order.
func midpoint(a, b int64) int64 {
	s := a + b
	if s < 0 && s%2 != 0 {
		return s/2 - 1
	}
	return s / 2
}

// Size returns the absolute width and height of the rectangle.
func (r Rect) Size() (w, h int64) {
	minX, maxX := minmax(r.Start.X, r.End.X)
	minY, maxY := minmax(r.Start.Y, r.End.Y)
	return maxX - minX, maxY - minY
}

func minmax(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// Translate returns a copy of s moved by d.
func Translate(s Shape, d Point) Shape {
	switch v := s.(type) {
	case Segment:
		v.Start, v.End = v.Start.Add(d), v.End.Add(d)
		return v
	case Arc:
		v.Start, v.Mid, v.End = v.Start.Add(d), v.Mid.Add(d), v.End.Add(d)
		return v
	case Circle:
		v.Center = v.Center.Add(d)
		return v
	case Rect:
		v.Start, v.End = v.Start.Add(d), v.End.Add(d)
		return v
	case Curve:
		v.Start, v.C1, v.C2, v.End = v.Start.Add(d), v.C1.Add(d), v.C2.Add(d), v.End.Add(d)
		return v
	case Polygon:
		pts := make([]Point, len(v.Points))
		for i, p := range v.Points {
			pts[i] = p.Add(d)
		}
		v.Points = pts
		return v
	case Text:
		v.At = v.At.Add(d)
		return v
	}
	return s
}
