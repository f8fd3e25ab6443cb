// Package config loads kisketch project files.
package config

import (
	"time"

	"github.com/chazu/kisketch/pkg/board"
	"github.com/chazu/kisketch/pkg/engine"
	"github.com/chazu/kisketch/pkg/height"
	"github.com/chazu/kisketch/pkg/kernel"
	"github.com/chazu/kisketch/pkg/kernel/sdfx"
	"github.com/chazu/kisketch/pkg/outline"
	"github.com/chazu/kisketch/pkg/sketch"
)

// DefaultFile is the project file looked up next to a board.
const DefaultFile = "kisketch.yaml"

// DefaultHeight is the fallback component height in mm.
const DefaultHeight = 5.0

// Render selects how an output file is drawn.
type Render string

const (
	// RenderExact writes the sketch's own segments, arcs and curves.
	RenderExact Render = "exact"
	// RenderKernel writes the kernel region's boundary, which resolves
	// overlapping regions and holes.
	RenderKernel Render = "kernel"
)

type Project struct {
	Board     string        // board description path
	Origin    *board.Point  // overrides the board's aux origin
	Tolerance float64       // endpoint matching, mm
	Flatness  float64       // curve flattening, mm
	MeshCells int           // marching squares resolution for kernel output
	Timeout   time.Duration // board evaluation limit
	ModelVars map[string]string
	Heights   Heights
	Outputs   []Output
}

type Heights struct {
	Default    float64
	Models     height.TableProbe
	References map[string]float64
}

type Output struct {
	Request outline.Request
	DXF     string
	SVG     string
	Render  Render
}

// Default returns the configuration used when no project file exists: the
// board outline written nowhere.
func Default() Project {
	return Project{
		Tolerance: sketch.DefaultTolerance,
		Flatness:  kernel.DefaultFlatness,
		MeshCells: sdfx.DefaultMeshCells,
		Timeout:   engine.EvalTimeout,
		ModelVars: copyVars(board.DefaultModelVars),
		Heights: Heights{
			Default:    DefaultHeight,
			Models:     height.TableProbe{},
			References: map[string]float64{},
		},
	}
}

func copyVars(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
