// Package app wires the board evaluator, the outline walk, the geometry
// kernel and the exporters into the operations the CLI exposes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chazu/kisketch/internal/config"
	"github.com/chazu/kisketch/pkg/board"
	"github.com/chazu/kisketch/pkg/engine"
	"github.com/chazu/kisketch/pkg/export"
	"github.com/chazu/kisketch/pkg/height"
	"github.com/chazu/kisketch/pkg/kernel/sdfx"
	"github.com/chazu/kisketch/pkg/outline"
	"github.com/chazu/kisketch/pkg/sketch"
)

// App holds the long-lived collaborators.
type App struct {
	engine  *engine.Engine
	kernel  *sdfx.SdfxKernel
	log     *slog.Logger
	project config.Project
}

// Problem is an error or warning tied, when known, to a source line.
type Problem struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("line %d: %s", p.Line, p.Message)
	}
	return p.Message
}

// Result is the full outcome of an evaluation.
type Result struct {
	Board    *board.Board
	Outlines []*outline.Result
	Errors   []Problem
	Warnings []Problem
}

// OK reports whether the evaluation produced no errors.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// New creates an App using the sdfx kernel configured from project.
func New(project config.Project, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	k := sdfx.New()
	k.Tolerance = project.Tolerance
	k.Flatness = project.Flatness
	k.MeshCells = project.MeshCells
	eng := engine.NewEngine()
	eng.Timeout = project.Timeout
	return &App{
		engine:  eng,
		kernel:  k,
		log:     log,
		project: project,
	}
}

// Project returns the configuration the App was built with.
func (a *App) Project() config.Project { return a.project }

// EvaluateFile reads a board description and evaluates it.
func (a *App) EvaluateFile(ctx context.Context, path string, reqs []outline.Request) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	return a.Evaluate(ctx, string(src), reqs), nil
}

// Evaluate turns board description source into a board and realizes each
// requested grouping. Errors and warnings are collected on the result.
func (a *App) Evaluate(ctx context.Context, source string, reqs []outline.Request) *Result {
	result := &Result{}

	// Step 1: Evaluate the source into a board.
	b, evalErrs, err := a.engine.EvaluateContext(ctx, source)
	if err != nil {
		a.log.Error("evaluate.fatal", "err", err)
		result.Errors = append(result.Errors, Problem{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, Problem{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}
	result.Board = b

	if o := a.project.Origin; o != nil {
		b.AuxOrigin = *o
	}
	a.log.Debug("board.evaluated",
		"drawings", len(b.Drawings),
		"footprints", len(b.Footprints),
		"aux_origin", fmt.Sprintf("%d,%d", b.AuxOrigin.X, b.AuxOrigin.Y))

	// Step 3: Validate the board.
	vr := board.Validate(b)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, Problem{Message: w.Error()})
	}
	if !vr.OK() {
		for _, e := range vr.Errors {
			result.Errors = append(result.Errors, Problem{Message: e.Error()})
		}
		return result
	}

	if len(reqs) == 0 {
		return result
	}

	// Step 4: Assemble and realize each grouping.
	rec := &sketch.Recorder{}
	sink := sketch.Tee(sketch.LogSink{Logger: a.log}, rec)
	outlines, err := outline.Build(b, reqs, a.kernel, sink, outline.Options{
		Tolerance: a.project.Tolerance,
		Flatness:  a.project.Flatness,
	})
	for _, d := range rec.Diagnostics {
		result.Warnings = append(result.Warnings, Problem{Message: fmt.Sprintf("%s (shape %d)", d.Message, d.Index)})
	}
	if err != nil {
		a.log.Error("outline.failed", "err", err)
		result.Errors = append(result.Errors, Problem{Message: err.Error()})
		return result
	}
	result.Outlines = outlines
	return result
}

// Write renders each outline to the files named by the matching output.
// Outlines without an output, and outputs without files, are skipped.
func (a *App) Write(outlines []*outline.Result, outputs []config.Output) error {
	byName := make(map[string]*outline.Result, len(outlines))
	for _, o := range outlines {
		byName[o.Request.Name] = o
	}

	for _, out := range outputs {
		res, ok := byName[out.Request.Name]
		if !ok {
			continue
		}
		opt := export.Options{Layer: string(out.Request.Layer), Flatness: a.project.Flatness}

		if out.DXF != "" {
			if err := ensureDir(out.DXF); err != nil {
				return err
			}
			var err error
			if out.Render == config.RenderKernel {
				err = a.kernel.WriteDXF(res.Region, out.DXF)
			} else {
				err = export.DXF(res.Sketch, out.DXF, opt)
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", out.DXF, err)
			}
			a.log.Info("output.written", "name", out.Request.Name, "path", out.DXF, "render", string(out.Render))
		}
		if out.SVG != "" {
			if err := ensureDir(out.SVG); err != nil {
				return err
			}
			var err error
			if out.Render == config.RenderKernel {
				err = a.kernel.WriteSVG(res.Region, out.SVG)
			} else {
				err = export.SVGFile(res.Sketch, out.SVG, opt)
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", out.SVG, err)
			}
			a.log.Info("output.written", "name", out.Request.Name, "path", out.SVG, "render", string(out.Render))
		}
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// HeightReport is the height estimate for a set of footprints.
type HeightReport struct {
	Max     float64
	Results map[string]height.Result
}

// Heights estimates the tallest of the named footprints using the model
// heights table from the project. Fallbacks are logged as warnings.
func (a *App) Heights(b *board.Board, refs []string) (*HeightReport, error) {
	fps := make([]*board.Footprint, 0, len(refs))
	for _, ref := range refs {
		fp := b.Footprint(ref)
		if fp == nil {
			return nil, &board.NotFoundError{Reference: ref}
		}
		fps = append(fps, fp)
	}

	h := a.project.Heights
	maxH, results, err := height.Max(fps, h.Models, a.project.ModelVars, h.References, h.Default)
	if err != nil {
		return nil, err
	}

	report := &HeightReport{Max: maxH, Results: make(map[string]height.Result, len(fps))}
	for i, fp := range fps {
		r := results[i]
		report.Results[fp.Reference] = r
		if r.Fallback {
			a.log.Warn("height.fallback", "reference", fp.Reference, "value", r.Value, "err", r.Err)
		}
	}
	return report, nil
}
