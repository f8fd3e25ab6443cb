// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/kisketch/pkg/kernel"
	"github.com/chazu/kisketch/pkg/sketch"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching squares resolution for file output.
const DefaultMeshCells = 400

// sdfxRegion wraps an sdf.SDF2 to implement kernel.Region.
type sdfxRegion struct {
	s sdf.SDF2
}

// BoundingBox returns the axis-aligned bounding box.
func (r *sdfxRegion) BoundingBox() (min, max [2]float64) {
	bb := r.s.BoundingBox()
	return [2]float64{bb.Min.X, bb.Min.Y}, [2]float64{bb.Max.X, bb.Max.Y}
}

// Contains reports whether the signed distance at (x, y) is not positive.
func (r *sdfxRegion) Contains(x, y float64) bool {
	return r.s.Evaluate(v2.Vec{X: x, Y: y}) <= 0
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	// Tolerance is the endpoint matching distance used to chain face edges.
	Tolerance float64
	// Flatness bounds the deviation of flattened arcs and curves.
	Flatness float64
	// MeshCells is the marching squares resolution for WriteDXF and WriteSVG.
	MeshCells int
}

// New returns a new SdfxKernel with default tolerances.
func New() *SdfxKernel {
	return &SdfxKernel{
		Tolerance: sketch.DefaultTolerance,
		Flatness:  kernel.DefaultFlatness,
		MeshCells: DefaultMeshCells,
	}
}

// unwrap extracts the underlying sdf.SDF2 from a kernel.Region.
func unwrap(r kernel.Region) sdf.SDF2 {
	return r.(*sdfxRegion).s
}

// wrap creates a kernel.Region from an sdf.SDF2.
func wrap(s sdf.SDF2) kernel.Region {
	return &sdfxRegion{s: s}
}

func vec(p r2.Vec) v2.Vec {
	return v2.Vec{X: p.X, Y: p.Y}
}

// Circle creates a filled disc. The radius must be positive.
func (k *SdfxKernel) Circle(center r2.Vec, radius float64) (kernel.Region, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("sdfx: circle radius %g must be positive", radius)
	}
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Circle2D: %w", err)
	}
	return wrap(sdf.Transform2D(s, sdf.Translate2d(vec(center)))), nil
}

// Rect creates an axis-aligned filled rectangle centered on center.
// sdf.Box2D is centered at the origin, so it is translated into place.
func (k *SdfxKernel) Rect(center r2.Vec, width, height float64) kernel.Region {
	s := sdf.Box2D(v2.Vec{X: width, Y: height}, 0)
	return wrap(sdf.Transform2D(s, sdf.Translate2d(vec(center))))
}

// Polygon creates a filled polygon from a ring. A repeated closing vertex
// is ignored.
func (k *SdfxKernel) Polygon(ring []r2.Vec) (kernel.Region, error) {
	var c kernel.Contours
	c.AddLoop(ring)
	if c.LoopCount() == 0 {
		return nil, errors.New("sdfx: empty polygon")
	}
	return k.polygon(c.Loop(0))
}

func (k *SdfxKernel) polygon(ring []r2.Vec) (kernel.Region, error) {
	if len(ring) < 3 {
		return nil, fmt.Errorf("sdfx: polygon needs at least 3 vertices, got %d", len(ring))
	}
	vs := make([]v2.Vec, len(ring))
	for i, p := range ring {
		vs[i] = vec(p)
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	return wrap(s), nil
}

// Face builds the region bounded by a set of edges. The edges must chain
// into closed loops; the loop with the largest area is the outer boundary
// and the rest are cut out of it as holes.
func (k *SdfxKernel) Face(edges []sketch.Edge) (kernel.Region, error) {
	loops, err := sketch.Chain(edges, k.Tolerance)
	if err != nil {
		return nil, err
	}

	outer := -1
	var best float64
	for i, l := range loops {
		if a := math.Abs(l.Area()); outer < 0 || a > best {
			outer, best = i, a
		}
	}

	var (
		boundary kernel.Region
		holes    []kernel.Region
	)
	for i, l := range loops {
		r, err := k.polygon(kernel.FlattenLoop(l.Edges, k.Flatness))
		if err != nil {
			return nil, fmt.Errorf("loop %d: %w", i, err)
		}
		if i == outer {
			boundary = r
		} else {
			holes = append(holes, r)
		}
	}
	if len(holes) == 0 {
		return boundary, nil
	}
	return k.Difference(boundary, k.Union(holes...)), nil
}

// Union returns the union of the regions.
func (k *SdfxKernel) Union(rs ...kernel.Region) kernel.Region {
	switch len(rs) {
	case 0:
		return nil
	case 1:
		return rs[0]
	}
	ss := make([]sdf.SDF2, len(rs))
	for i, r := range rs {
		ss[i] = unwrap(r)
	}
	return wrap(sdf.Union2D(ss...))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Region) kernel.Region {
	return wrap(sdf.Difference2D(unwrap(a), unwrap(b)))
}

// Translate moves a region by (dx, dy).
func (k *SdfxKernel) Translate(r kernel.Region, dx, dy float64) kernel.Region {
	m := sdf.Translate2d(v2.Vec{X: dx, Y: dy})
	return wrap(sdf.Transform2D(unwrap(r), m))
}

// WriteDXF renders the region boundary to a DXF file using marching squares.
func (k *SdfxKernel) WriteDXF(r kernel.Region, path string) error {
	if r == nil {
		return kernel.ErrEmpty
	}
	render.ToDXF(unwrap(r), path, render.NewMarchingSquaresQuadtree(k.cells()))
	return nil
}

// WriteSVG renders the region boundary to an SVG file using marching squares.
func (k *SdfxKernel) WriteSVG(r kernel.Region, path string) error {
	if r == nil {
		return kernel.ErrEmpty
	}
	render.ToSVG(unwrap(r), path, render.NewMarchingSquaresQuadtree(k.cells()))
	return nil
}

func (k *SdfxKernel) cells() int {
	if k.MeshCells <= 0 {
		return DefaultMeshCells
	}
	return k.MeshCells
}
