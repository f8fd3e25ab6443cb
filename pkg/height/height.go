// Package height estimates component heights from the 3D models attached to
// footprints. Reading model geometry is left to a Probe; the estimate always
// reports whether it fell back to the caller's default.
package height

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/kisketch/pkg/board"
)

// MinClearance is the smallest margin added on top of a model.
const MinClearance = 0.2

// ClearanceRatio is the margin added on top of a model relative to its height.
const ClearanceRatio = 0.1

var (
	// ErrNoModels is reported when a footprint has no 3D models.
	ErrNoModels = errors.New("height: footprint has no models")
	// ErrUnknownModel is returned by probes that cannot measure a model.
	ErrUnknownModel = errors.New("height: unknown model")
	// ErrNoFootprints is returned by Max for an empty footprint list.
	ErrNoFootprints = errors.New("height: no footprints")
)

// Probe measures the Z coordinate, in mm, of the top face of a model file.
type Probe interface {
	TopZ(path string) (float64, error)
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(path string) (float64, error)

func (f ProbeFunc) TopZ(path string) (float64, error) { return f(path) }

// TableProbe looks model heights up by resolved path.
type TableProbe map[string]float64

func (t TableProbe) TopZ(path string) (float64, error) {
	z, ok := t[path]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownModel, path)
	}
	return z, nil
}

// Result is a height estimate. When Fallback is set, Value is the default
// the caller supplied and Err says why no estimate could be made.
type Result struct {
	Value    float64
	Fallback bool
	Err      error
}

// Estimate returns the height of a footprint's tallest model plus clearance:
// the highest top face plus model Z offset, raised by the larger of
// MinClearance and ClearanceRatio of itself. Model paths are resolved with
// board.ModelPath using vars. Any failure yields def with Fallback set.
func Estimate(fp *board.Footprint, probe Probe, vars map[string]string, def float64) Result {
	h, err := estimate(fp, probe, vars)
	if err != nil {
		return Result{Value: def, Fallback: true, Err: err}
	}
	return Result{Value: h}
}

func estimate(fp *board.Footprint, probe Probe, vars map[string]string) (float64, error) {
	if fp == nil {
		return 0, board.ErrNotFound
	}
	if len(fp.Models) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoModels, fp.Reference)
	}
	if probe == nil {
		return 0, errors.New("height: no probe")
	}

	h := math.Inf(-1)
	for _, m := range fp.Models {
		path := board.ModelPath(m.Filename, vars)
		z, err := probe.TopZ(path)
		if err != nil {
			return 0, fmt.Errorf("height: %s: %w", fp.Reference, err)
		}
		h = math.Max(h, z+m.Offset[2])
	}
	return h + math.Max(MinClearance, h*ClearanceRatio), nil
}

// Max returns the largest estimate over fps. A reference present in defaults
// uses that value as its fallback instead of def. The per-footprint results
// are returned in the order of fps.
func Max(fps []*board.Footprint, probe Probe, vars map[string]string, defaults map[string]float64, def float64) (float64, []Result, error) {
	if len(fps) == 0 {
		return 0, nil, ErrNoFootprints
	}
	results := make([]Result, len(fps))
	h := math.Inf(-1)
	for i, fp := range fps {
		d := def
		if v, ok := defaults[fp.Reference]; ok {
			d = v
		}
		results[i] = Estimate(fp, probe, vars, d)
		h = math.Max(h, results[i].Value)
	}
	return h, results, nil
}
