package sdfx

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/kisketch/pkg/kernel"
	"github.com/chazu/kisketch/pkg/sketch"
	"gonum.org/v1/gonum/spatial/r2"
)

func square(x0, y0, size float64) []sketch.Edge {
	a := r2.Vec{X: x0, Y: y0}
	b := r2.Vec{X: x0 + size, Y: y0}
	c := r2.Vec{X: x0 + size, Y: y0 + size}
	d := r2.Vec{X: x0, Y: y0 + size}
	return []sketch.Edge{
		sketch.SegmentEdge{P0: a, P1: b},
		sketch.SegmentEdge{P0: b, P1: c},
		sketch.SegmentEdge{P0: c, P1: d},
		sketch.SegmentEdge{P0: d, P1: a},
	}
}

func checkBounds(t *testing.T, r kernel.Region, wantMin, wantMax [2]float64, tol float64) {
	t.Helper()
	min, max := r.BoundingBox()
	for i := 0; i < 2; i++ {
		if math.Abs(min[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], wantMax[i])
		}
	}
}

func TestCircle(t *testing.T) {
	k := New()
	c, err := k.Circle(r2.Vec{X: 10, Y: -5}, 2)
	if err != nil {
		t.Fatalf("Circle failed: %v", err)
	}
	checkBounds(t, c, [2]float64{8, -7}, [2]float64{12, -3}, 0.01)
	if !c.Contains(10, -5) {
		t.Error("circle should contain its center")
	}
	if c.Contains(12.5, -5) {
		t.Error("circle should not contain (12.5, -5)")
	}
	for _, radius := range []float64{0, -1} {
		if _, err := k.Circle(r2.Vec{}, radius); err == nil {
			t.Errorf("Circle with radius %g should fail", radius)
		}
	}
}

func TestRect(t *testing.T) {
	k := New()
	r := k.Rect(r2.Vec{X: 1, Y: 2}, 4, 2)
	checkBounds(t, r, [2]float64{-1, 1}, [2]float64{3, 3}, 0.01)
	if !r.Contains(2.9, 2.9) || r.Contains(3.1, 2) {
		t.Error("rect containment is wrong near its corner")
	}
}

func TestPolygon(t *testing.T) {
	k := New()
	tri := []r2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}, {X: 0, Y: 0}}
	p, err := k.Polygon(tri)
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	if !p.Contains(1, 1) || p.Contains(3, 3) {
		t.Error("triangle containment is wrong")
	}
	if _, err := k.Polygon(tri[:2]); err == nil {
		t.Error("Polygon with 2 vertices should fail")
	}
}

func TestFaceWithHole(t *testing.T) {
	k := New()
	// The hole comes first and the outer square is listed clockwise; the
	// larger loop is still the boundary.
	edges := append(square(4, 4, 2), square(0, 0, 10)...)
	face, err := k.Face(edges)
	if err != nil {
		t.Fatalf("Face failed: %v", err)
	}
	checkBounds(t, face, [2]float64{0, 0}, [2]float64{10, 10}, 0.01)
	if !face.Contains(1, 1) {
		t.Error("face should contain (1, 1)")
	}
	if face.Contains(5, 5) {
		t.Error("face should not contain the hole center (5, 5)")
	}
}

func TestFaceWithArc(t *testing.T) {
	k := New()
	// Half disc of radius 5 above the X axis.
	edges := []sketch.Edge{
		sketch.SegmentEdge{P0: r2.Vec{X: -5}, P1: r2.Vec{X: 5}},
		sketch.ArcEdge{P0: r2.Vec{X: 5}, Mid: r2.Vec{Y: 5}, P1: r2.Vec{X: -5}},
	}
	face, err := k.Face(edges)
	if err != nil {
		t.Fatalf("Face failed: %v", err)
	}
	checkBounds(t, face, [2]float64{-5, 0}, [2]float64{5, 5}, 0.05)
	if !face.Contains(0, 4.9) || face.Contains(0, -0.1) {
		t.Error("half disc containment is wrong")
	}
}

func TestFaceUnclosed(t *testing.T) {
	k := New()
	_, err := k.Face(square(0, 0, 1)[:3])
	if !errors.Is(err, sketch.ErrUnclosedChain) {
		t.Fatalf("Face error = %v, want ErrUnclosedChain", err)
	}
}

func TestUnionAndDifference(t *testing.T) {
	k := New()
	a := k.Rect(r2.Vec{}, 2, 2)
	b := k.Translate(k.Rect(r2.Vec{}, 2, 2), 3, 0)
	u := k.Union(a, b)
	checkBounds(t, u, [2]float64{-1, -1}, [2]float64{4, 1}, 0.01)
	if !u.Contains(0, 0) || !u.Contains(3, 0) || u.Contains(1.5, 0) {
		t.Error("union containment is wrong")
	}
	if k.Union(a) != a {
		t.Error("Union of a single region should return it unchanged")
	}

	hole, err := k.Circle(r2.Vec{}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	d := k.Difference(a, hole)
	if d.Contains(0, 0) || !d.Contains(0.8, 0.8) {
		t.Error("difference containment is wrong")
	}
}

func TestRealizeThroughKernel(t *testing.T) {
	k := New()
	s := &sketch.Sketch{Regions: []sketch.Region{
		sketch.CircleRegion{Center: r2.Vec{}, Radius: 1},
		sketch.RectRegion{Center: r2.Vec{X: 5}, Width: 2, Height: 2},
	}}
	r, err := kernel.Realize(k, s)
	if err != nil {
		t.Fatalf("Realize failed: %v", err)
	}
	checkBounds(t, r, [2]float64{-1, -1}, [2]float64{6, 1}, 0.01)
}

func TestWriteFiles(t *testing.T) {
	k := New()
	k.MeshCells = 50
	r := k.Rect(r2.Vec{}, 10, 5)
	dir := t.TempDir()

	dxf := filepath.Join(dir, "rect.dxf")
	if err := k.WriteDXF(r, dxf); err != nil {
		t.Fatalf("WriteDXF failed: %v", err)
	}
	svg := filepath.Join(dir, "rect.svg")
	if err := k.WriteSVG(r, svg); err != nil {
		t.Fatalf("WriteSVG failed: %v", err)
	}
	for _, p := range []string{dxf, svg} {
		fi, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if fi.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
		t.Logf("%s: %d bytes", filepath.Base(p), fi.Size())
	}

	if err := k.WriteDXF(nil, dxf); !errors.Is(err, kernel.ErrEmpty) {
		t.Errorf("WriteDXF(nil) error = %v, want ErrEmpty", err)
	}
}
