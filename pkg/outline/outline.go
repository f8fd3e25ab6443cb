// Package outline resolves named shape groupings on a board, assembles each
// into a sketch and realizes it through a geometry kernel. One result is
// produced per request.
package outline

import (
	"errors"
	"fmt"

	"github.com/chazu/kisketch/pkg/board"
	"github.com/chazu/kisketch/pkg/kernel"
	"github.com/chazu/kisketch/pkg/sketch"
)

// ErrNoShapes is returned when a request selects nothing.
var ErrNoShapes = errors.New("outline: no shapes selected")

// Request names a grouping: every shape on Layer, restricted to the
// footprint Reference when one is given.
type Request struct {
	Name      string
	Layer     board.Layer
	Reference string
	// Local maps the grouping relative to the footprint position instead of
	// the board's auxiliary origin. Ignored without a Reference.
	Local bool
}

// Edges requests the board outline.
func Edges() Request {
	return Request{Name: "edges", Layer: board.EdgeCuts}
}

// Courtyard requests a footprint courtyard.
func Courtyard(ref string, front bool) Request {
	side := "front"
	if !front {
		side = "back"
	}
	return Request{
		Name:      ref + "-courtyard-" + side,
		Layer:     board.CourtyardLayer(front),
		Reference: ref,
	}
}

// Result is the outcome of one request.
type Result struct {
	Request     Request
	Sketch      *sketch.Sketch
	Region      kernel.Region
	Contours    *kernel.Contours
	Diagnostics []sketch.Diagnostic
}

// Options tune a Build.
type Options struct {
	Tolerance float64 // endpoint matching, mm
	Flatness  float64 // contour flattening, mm
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = sketch.DefaultTolerance
	}
	if o.Flatness <= 0 {
		o.Flatness = kernel.DefaultFlatness
	}
	return o
}

// Build resolves every request against the board and realizes it through k.
// Diagnostics are reported to sink as they occur and also kept on each
// result. Build is read-only and never mutates the board; it stops at the
// first failing request.
func Build(b *board.Board, reqs []Request, k kernel.Kernel, sink sketch.Sink, opts Options) ([]*Result, error) {
	if b == nil {
		return nil, nil
	}
	opts = opts.withDefaults()

	results := make([]*Result, 0, len(reqs))
	for _, req := range reqs {
		res, err := build(b, req, k, sink, opts)
		if err != nil {
			return nil, fmt.Errorf("outline %s: %w", req.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func build(b *board.Board, req Request, k kernel.Kernel, sink sketch.Sink, opts Options) (*Result, error) {
	shapes, origin, err := resolve(b, req)
	if err != nil {
		return nil, err
	}
	if len(shapes) == 0 {
		return nil, ErrNoShapes
	}

	rec := &sketch.Recorder{}
	a := sketch.NewAssembler(sketch.NewMapper(origin), sketch.Tee(sink, rec))
	a.Tolerance = opts.Tolerance

	s, err := a.Assemble(shapes)
	if err != nil {
		return nil, err
	}
	region, err := kernel.Realize(k, s)
	if err != nil {
		return nil, err
	}
	contours, err := kernel.Outline(s, opts.Flatness)
	if err != nil {
		return nil, err
	}
	contours.Name = req.Name

	return &Result{
		Request:     req,
		Sketch:      s,
		Region:      region,
		Contours:    contours,
		Diagnostics: rec.Diagnostics,
	}, nil
}

// resolve selects the request's shapes and the origin they are mapped from.
func resolve(b *board.Board, req Request) ([]board.Shape, board.Point, error) {
	if req.Reference == "" {
		return b.Layer(req.Layer), b.AuxOrigin, nil
	}
	shapes, err := b.LayerOf(req.Reference, req.Layer)
	if err != nil {
		return nil, board.Point{}, err
	}
	origin := b.AuxOrigin
	if req.Local {
		origin = b.MustFootprint(req.Reference).Position
	}
	return shapes, origin, nil
}
