// Package kernel defines the abstract 2D geometry kernel interface that
// sketches are realized through. Implementations (sdfx) provide filled
// primitives, faces from closed edge chains, and boolean operations behind
// this interface, so the assembler never depends on a particular backend.
package kernel

import (
	"errors"
	"fmt"

	"github.com/chazu/kisketch/pkg/sketch"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrEmpty is returned when a sketch holds no geometry to realize.
var ErrEmpty = errors.New("kernel: empty sketch")

// Region is an opaque handle to a kernel planar region.
// Implementations wrap their internal representation.
type Region interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [2]float64)
	// Contains reports whether (x, y) lies inside or on the region.
	Contains(x, y float64) bool
}

// Kernel is the abstract 2D geometry kernel interface.
type Kernel interface {
	// Primitives
	Circle(center r2.Vec, radius float64) (Region, error)
	Rect(center r2.Vec, width, height float64) Region
	Polygon(ring []r2.Vec) (Region, error)
	Face(edges []sketch.Edge) (Region, error) // face from a closed edge chain

	// Boolean operations
	Union(rs ...Region) Region
	Difference(a, b Region) Region

	// Transforms
	Translate(r Region, dx, dy float64) Region

	// Output
	WriteDXF(r Region, path string) error
	WriteSVG(r Region, path string) error
}

// Realize builds the kernel region for an assembled sketch: the face of the
// edge chain, or the union of the filled regions.
func Realize(k Kernel, s *sketch.Sketch) (Region, error) {
	if s == nil || s.IsEmpty() {
		return nil, ErrEmpty
	}
	if s.IsFace() {
		return k.Face(s.Edges)
	}

	rs := make([]Region, 0, len(s.Regions))
	for i, sr := range s.Regions {
		var (
			r   Region
			err error
		)
		switch v := sr.(type) {
		case sketch.CircleRegion:
			r, err = k.Circle(v.Center, v.Radius)
		case sketch.RectRegion:
			r = k.Rect(v.Center, v.Width, v.Height)
		case sketch.PolygonRegion:
			r, err = k.Polygon(v.Ring)
		default:
			err = fmt.Errorf("unsupported region type %T", sr)
		}
		if err != nil {
			return nil, fmt.Errorf("kernel: region %d (%s): %w", i, sr.Kind(), err)
		}
		rs = append(rs, r)
	}
	return k.Union(rs...), nil
}
