// Package export writes assembled sketches as exact vector drawings.
// Segments, arcs and circles are emitted as native DXF entities or SVG path
// commands; single-span cubic curves become SVG cubic Béziers and anything
// else is flattened through the kernel.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/chazu/kisketch/pkg/kernel"
	"github.com/chazu/kisketch/pkg/sketch"
	"github.com/yofu/dxf"
	"gonum.org/v1/gonum/spatial/r2"
)

// Options control vector output.
type Options struct {
	Layer    string  // DXF layer name, SVG group id
	Flatness float64 // deviation bound for flattened curves, mm
	Stroke   float64 // SVG stroke width, mm
	Margin   float64 // SVG margin around the bounds, mm
}

func (o Options) withDefaults() Options {
	if o.Layer == "" {
		o.Layer = "0"
	}
	if o.Flatness <= 0 {
		o.Flatness = kernel.DefaultFlatness
	}
	if o.Stroke <= 0 {
		o.Stroke = 0.1
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	return o
}

// ---------------------------------------------------------------------------
// DXF
// ---------------------------------------------------------------------------

// DXF writes the sketch to a DXF file at path.
func DXF(s *sketch.Sketch, path string, opt Options) error {
	if s == nil || s.IsEmpty() {
		return kernel.ErrEmpty
	}
	opt = opt.withDefaults()

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(opt.Layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("export: dxf layer %q: %w", opt.Layer, err)
	}

	line := func(a, b r2.Vec) error {
		_, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0)
		return err
	}
	polyline := func(pts []r2.Vec, closed bool) error {
		for i := 0; i+1 < len(pts); i++ {
			if err := line(pts[i], pts[i+1]); err != nil {
				return err
			}
		}
		if closed && len(pts) > 2 {
			return line(pts[len(pts)-1], pts[0])
		}
		return nil
	}

	for i, e := range s.Edges {
		var err error
		switch v := e.(type) {
		case sketch.SegmentEdge:
			err = line(v.P0, v.P1)
		case sketch.ArcEdge:
			center, radius, ok := v.Circle()
			if !ok {
				err = line(v.P0, v.P1)
				break
			}
			// DXF arcs run counter-clockwise from start to end angle.
			start, sweep := v.Angles()
			end := start + sweep
			if sweep < 0 {
				start, end = end, start
			}
			_, err = d.Arc(center.X, center.Y, 0, radius, degrees(start), degrees(end))
		default:
			err = polyline(kernel.FlattenEdge(e, opt.Flatness), false)
		}
		if err != nil {
			return fmt.Errorf("export: dxf edge %d: %w", i, err)
		}
	}

	for i, r := range s.Regions {
		var err error
		switch v := r.(type) {
		case sketch.CircleRegion:
			_, err = d.Circle(v.Center.X, v.Center.Y, 0, v.Radius)
		case sketch.RectRegion:
			err = polyline(kernel.RectRing(v), true)
		case sketch.PolygonRegion:
			err = polyline(openRing(v.Ring), true)
		}
		if err != nil {
			return fmt.Errorf("export: dxf region %d: %w", i, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// ---------------------------------------------------------------------------
// SVG
// ---------------------------------------------------------------------------

// SVG writes the sketch as an SVG document. The Y axis is flipped so the
// drawing reads the same way up as the sketch.
func SVG(w io.Writer, s *sketch.Sketch, opt Options) error {
	if s == nil || s.IsEmpty() {
		return kernel.ErrEmpty
	}
	opt = opt.withDefaults()

	min, max := s.Bounds()
	x0, y0 := min.X-opt.Margin, flipY(max.Y)-opt.Margin
	width := max.X - min.X + 2*opt.Margin
	height := max.Y - min.Y + 2*opt.Margin

	canvas := svg.New(w)
	canvas.Startraw(
		fmt.Sprintf(`width="%gmm" height="%gmm"`, width, height),
		fmt.Sprintf(`viewBox="%g %g %g %g"`, x0, y0, width, height),
	)
	canvas.Gid(opt.Layer)
	style := fmt.Sprintf("fill:none;stroke:black;stroke-width:%g;fill-rule:evenodd", opt.Stroke)

	if s.IsFace() {
		loops, err := s.Loops(s.ChainTolerance())
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		canvas.Path(facePath(loops, opt.Flatness), style)
	}
	for _, r := range s.Regions {
		canvas.Path(regionPath(r), style)
	}

	canvas.Gend()
	canvas.End()
	return nil
}

// SVGFile writes the sketch as an SVG document at path.
func SVGFile(s *sketch.Sketch, path string, opt Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return SVG(f, s, opt)
}

// pathBuilder accumulates SVG path data in flipped Y coordinates.
type pathBuilder struct {
	b strings.Builder
}

func (p *pathBuilder) cmd(c string, pts ...r2.Vec) {
	if p.b.Len() > 0 {
		p.b.WriteByte(' ')
	}
	p.b.WriteString(c)
	for _, v := range pts {
		fmt.Fprintf(&p.b, " %g,%g", v.X, flipY(v.Y))
	}
}

// arcTo appends an elliptical arc command. Flipping Y turns counter-clockwise
// sketch arcs into negative-angle SVG arcs, so only clockwise ones set the
// sweep flag.
func (p *pathBuilder) arcTo(radius, sweep float64, end r2.Vec) {
	large, dir := 0, 0
	if math.Abs(sweep) > math.Pi {
		large = 1
	}
	if sweep < 0 {
		dir = 1
	}
	if p.b.Len() > 0 {
		p.b.WriteByte(' ')
	}
	fmt.Fprintf(&p.b, "A %g %g 0 %d %d %g,%g", radius, radius, large, dir, end.X, flipY(end.Y))
}

// facePath draws each chained loop as its own closed subpath.
func facePath(loops []sketch.Loop, flatness float64) string {
	var p pathBuilder
	for _, l := range loops {
		for i, e := range l.Edges {
			if i == 0 {
				p.cmd("M", e.Start())
			}
			switch v := e.(type) {
			case sketch.SegmentEdge:
				p.cmd("L", v.P1)
			case sketch.ArcEdge:
				_, radius, ok := v.Circle()
				if !ok {
					p.cmd("L", v.P1)
					break
				}
				_, sweep := v.Angles()
				p.arcTo(radius, sweep, v.P1)
			case sketch.CurveEdge:
				if c := v.Curve; c.Degree == 3 && len(c.Poles) == 4 {
					p.cmd("C", c.Poles[1], c.Poles[2], c.Poles[3])
					break
				}
				pts := kernel.FlattenEdge(e, flatness)
				p.cmd("L", pts[1:]...)
			}
		}
		p.cmd("Z")
	}
	return p.b.String()
}

func regionPath(r sketch.Region) string {
	var p pathBuilder
	switch v := r.(type) {
	case sketch.CircleRegion:
		a := r2.Vec{X: v.Center.X + v.Radius, Y: v.Center.Y}
		b := r2.Vec{X: v.Center.X - v.Radius, Y: v.Center.Y}
		p.cmd("M", a)
		p.arcTo(v.Radius, math.Pi, b)
		p.arcTo(v.Radius, math.Pi, a)
	case sketch.RectRegion:
		ring := kernel.RectRing(v)
		p.cmd("M", ring[0])
		p.cmd("L", ring[1:]...)
	case sketch.PolygonRegion:
		ring := openRing(v.Ring)
		if len(ring) == 0 {
			return ""
		}
		p.cmd("M", ring[0])
		p.cmd("L", ring[1:]...)
	}
	p.cmd("Z")
	return p.b.String()
}

// flipY negates y without producing negative zero.
func flipY(y float64) float64 {
	if y == 0 {
		return 0
	}
	return -y
}

// openRing drops a closing vertex equal to the first.
func openRing(ring []r2.Vec) []r2.Vec {
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		return ring[:n-1]
	}
	return ring
}
