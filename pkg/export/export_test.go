package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/kisketch/pkg/kernel"
	"github.com/chazu/kisketch/pkg/sketch"
	"gonum.org/v1/gonum/spatial/r2"
)

func halfDisc() *sketch.Sketch {
	return &sketch.Sketch{Edges: []sketch.Edge{
		sketch.SegmentEdge{P0: r2.Vec{X: -5}, P1: r2.Vec{X: 5}},
		sketch.ArcEdge{P0: r2.Vec{X: 5}, Mid: r2.Vec{Y: 5}, P1: r2.Vec{X: -5}},
	}}
}

func TestSVGFace(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, halfDisc(), Options{Layer: "Edge.Cuts"}); err != nil {
		t.Fatalf("SVG failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`id="Edge.Cuts"`,
		`viewBox="-5 -5 10 5"`,
		"M -5,0 L 5,0 A 5 5 0 0 0 -5,0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q:\n%s", want, out)
		}
	}
}

func TestSVGCurveAndRegions(t *testing.T) {
	curve := &sketch.Sketch{Edges: []sketch.Edge{
		sketch.CurveEdge{Curve: sketch.Bezier(
			r2.Vec{}, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 2, Y: 1}, r2.Vec{X: 3},
		)},
		sketch.SegmentEdge{P0: r2.Vec{X: 3}, P1: r2.Vec{}},
	}}
	var buf bytes.Buffer
	if err := SVG(&buf, curve, Options{}); err != nil {
		t.Fatalf("SVG failed: %v", err)
	}
	if !strings.Contains(buf.String(), "C 1,-1 2,-1 3,0") {
		t.Errorf("cubic not emitted as a Bézier:\n%s", buf.String())
	}

	union := &sketch.Sketch{Regions: []sketch.Region{
		sketch.CircleRegion{Center: r2.Vec{}, Radius: 1},
		sketch.RectRegion{Center: r2.Vec{X: 4}, Width: 2, Height: 2},
	}}
	buf.Reset()
	if err := SVG(&buf, union, Options{Margin: 1}); err != nil {
		t.Fatalf("SVG failed: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, "<path"); got != 2 {
		t.Errorf("got %d paths, want 2", got)
	}
	if !strings.Contains(out, "M 1,0 A 1 1 0 0 0 -1,0 A 1 1 0 0 0 1,0 Z") {
		t.Errorf("circle path missing:\n%s", out)
	}
}

func TestSVGFaceChainsLoops(t *testing.T) {
	seg := func(x0, y0, x1, y1 float64) sketch.Edge {
		return sketch.SegmentEdge{P0: r2.Vec{X: x0, Y: y0}, P1: r2.Vec{X: x1, Y: y1}}
	}
	s := &sketch.Sketch{Edges: []sketch.Edge{
		seg(0, 0, 2, 0),
		seg(0, 2, 2, 2),
		seg(2, 0, 2, 2),
		seg(0, 2, 0, 0),
		seg(0.5, 0.5, 1.5, 0.5),
		seg(1.5, 0.5, 1.5, 1.5),
		seg(1.5, 1.5, 0.5, 1.5),
		seg(0.5, 1.5, 0.5, 0.5),
	}}
	var buf bytes.Buffer
	if err := SVG(&buf, s, Options{}); err != nil {
		t.Fatalf("SVG failed: %v", err)
	}
	want := "M 0,0 L 2,0 L 2,-2 L 0,-2 L 0,0 Z " +
		"M 0.5,-0.5 L 1.5,-0.5 L 1.5,-1.5 L 0.5,-1.5 L 0.5,-0.5 Z"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("SVG path = %s\nwant %q", buf.String(), want)
	}

	open := &sketch.Sketch{Edges: s.Edges[:3]}
	if err := SVG(&bytes.Buffer{}, open, Options{}); !errors.Is(err, sketch.ErrUnclosedChain) {
		t.Errorf("SVG(open) error = %v, want ErrUnclosedChain", err)
	}
}

func TestDXFFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "outline.dxf")
	s := halfDisc()
	s.Regions = nil
	if err := DXF(s, p, Options{Layer: "Edge.Cuts"}); err != nil {
		t.Fatalf("DXF failed: %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"LINE", "ARC", "Edge.Cuts"} {
		if !strings.Contains(out, want) {
			t.Errorf("DXF output missing %q", want)
		}
	}
}

func TestSVGFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "outline.svg")
	if err := SVGFile(halfDisc(), p, Options{}); err != nil {
		t.Fatalf("SVGFile failed: %v", err)
	}
	if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
		t.Fatalf("SVG file not written: %v", err)
	}
}

func TestEmptySketch(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, &sketch.Sketch{}, Options{}); !errors.Is(err, kernel.ErrEmpty) {
		t.Errorf("SVG(empty) error = %v, want ErrEmpty", err)
	}
	if err := DXF(nil, filepath.Join(t.TempDir(), "x.dxf"), Options{}); !errors.Is(err, kernel.ErrEmpty) {
		t.Errorf("DXF(nil) error = %v, want ErrEmpty", err)
	}
}
