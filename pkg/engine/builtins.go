package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/kisketch/pkg/board"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a board.Point.
type sexpPoint struct {
	p board.Point
}

func (s *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pt %d %d)", s.p.X, s.p.Y)
}
func (s *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a board.Shape so footprint graphics can be passed to
// `footprint`.
type sexpShape struct {
	shape board.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s :layer %q)", s.shape.Kind(), s.shape.OnLayer())
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpModel wraps a board.Model.
type sexpModel struct {
	m board.Model
}

func (s *sexpModel) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(model %q)", s.m.Filename)
}
func (s *sexpModel) Type() *zygo.RegisteredType { return nil }

// sexpFootprintRef refers to a footprint already added to the board.
type sexpFootprintRef struct {
	ref string
}

func (s *sexpFootprintRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(footprint %q)", s.ref)
}
func (s *sexpFootprintRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// point reads a required point keyword.
func (a kwArgs) point(fn, key string) (board.Point, error) {
	v, ok := a.kw[key]
	if !ok {
		return board.Point{}, fmt.Errorf("%s: missing :%s", fn, key)
	}
	p, err := toPoint(v)
	if err != nil {
		return board.Point{}, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return p, nil
}

// layer reads the required :layer keyword.
func (a kwArgs) layer(fn string) (board.Layer, error) {
	v, ok := a.kw["layer"]
	if !ok {
		return "", fmt.Errorf("%s: missing :layer", fn)
	}
	s, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("%s: layer: %w", fn, err)
	}
	return board.Layer(s), nil
}

// number reads an optional numeric keyword.
func (a kwArgs) number(fn, key string, def float64) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toCoord extracts a board coordinate. Floats are rounded to the nearest unit.
func toCoord(s zygo.Sexp) (int64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		if math.IsNaN(v.Val) || math.IsInf(v.Val, 0) {
			return 0, fmt.Errorf("coordinate %v is not finite", v.Val)
		}
		return int64(math.Round(v.Val)), nil
	}
	return 0, fmt.Errorf("expected coordinate, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a board.Point from a sexpPoint.
func toPoint(s zygo.Sexp) (board.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return board.Point{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// toPoints extracts a list of points.
func toPoints(s zygo.Sexp) ([]board.Point, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	pts := make([]board.Point, 0, len(items))
	for i, item := range items {
		p, err := toPoint(item)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Shape constructors shared by the gr-* and fp-* builtins
// ---------------------------------------------------------------------------

// shapeBuilder parses the arguments of one graphic item.
type shapeBuilder func(fn string, pa kwArgs) (board.Shape, error)

var shapeBuilders = map[string]shapeBuilder{
	// (gr-line :layer "Edge.Cuts" :start (pt 0 0) :end (pt 10 0))
	"line": func(fn string, pa kwArgs) (board.Shape, error) {
		layer, err := pa.layer(fn)
		if err != nil {
			return nil, err
		}
		start, err := pa.point(fn, "start")
		if err != nil {
			return nil, err
		}
		end, err := pa.point(fn, "end")
		if err != nil {
			return nil, err
		}
		return board.Segment{Start: start, End: end, Layer: layer}, nil
	},

	// (gr-arc :layer "Edge.Cuts" :start (pt ..) :mid (pt ..) :end (pt ..))
	"arc": func(fn string, pa kwArgs) (board.Shape, error) {
		layer, err := pa.layer(fn)
		if err != nil {
			return nil, err
		}
		var pts [3]board.Point
		for i, key := range []string{"start", "mid", "end"} {
			if pts[i], err = pa.point(fn, key); err != nil {
				return nil, err
			}
		}
		return board.Arc{Start: pts[0], Mid: pts[1], End: pts[2], Layer: layer}, nil
	},

	// (gr-circle :layer "F.CrtYd" :center (pt ..) :radius 500000)
	// (gr-circle :layer "F.CrtYd" :center (pt ..) :end (pt ..))
	"circle": func(fn string, pa kwArgs) (board.Shape, error) {
		layer, err := pa.layer(fn)
		if err != nil {
			return nil, err
		}
		center, err := pa.point(fn, "center")
		if err != nil {
			return nil, err
		}
		c := board.Circle{Center: center, Layer: layer}
		switch {
		case pa.kw["radius"] != nil:
			if c.Radius, err = toCoord(pa.kw["radius"]); err != nil {
				return nil, fmt.Errorf("%s: radius: %w", fn, err)
			}
		case pa.kw["end"] != nil:
			end, err := pa.point(fn, "end")
			if err != nil {
				return nil, err
			}
			d := end.Sub(center)
			c.Radius = int64(math.Round(math.Hypot(float64(d.X), float64(d.Y))))
		default:
			return nil, fmt.Errorf("%s: missing :radius or :end", fn)
		}
		return c, nil
	},

	// (gr-rect :layer "F.CrtYd" :start (pt ..) :end (pt ..))
	"rect": func(fn string, pa kwArgs) (board.Shape, error) {
		layer, err := pa.layer(fn)
		if err != nil {
			return nil, err
		}
		start, err := pa.point(fn, "start")
		if err != nil {
			return nil, err
		}
		end, err := pa.point(fn, "end")
		if err != nil {
			return nil, err
		}
		return board.Rect{Start: start, End: end, Layer: layer}, nil
	},

	// (gr-curve :layer "Edge.Cuts" :pts (list (pt ..) (pt ..) (pt ..) (pt ..)))
	"curve": func(fn string, pa kwArgs) (board.Shape, error) {
		layer, err := pa.layer(fn)
		if err != nil {
			return nil, err
		}
		v, ok := pa.kw["pts"]
		if !ok {
			return nil, fmt.Errorf("%s: missing :pts", fn)
		}
		pts, err := toPoints(v)
		if err != nil {
			return nil, fmt.Errorf("%s: pts: %w", fn, err)
		}
		if len(pts) != 4 {
			return nil, fmt.Errorf("%s: pts: need 4 control points, got %d", fn, len(pts))
		}
		return board.Curve{Start: pts[0], C1: pts[1], C2: pts[2], End: pts[3], Layer: layer}, nil
	},

	// (gr-poly :layer "F.CrtYd" :pts (list (pt ..) ...))
	"poly": func(fn string, pa kwArgs) (board.Shape, error) {
		layer, err := pa.layer(fn)
		if err != nil {
			return nil, err
		}
		v, ok := pa.kw["pts"]
		if !ok {
			return nil, fmt.Errorf("%s: missing :pts", fn)
		}
		pts, err := toPoints(v)
		if err != nil {
			return nil, fmt.Errorf("%s: pts: %w", fn, err)
		}
		return board.Polygon{Points: pts, Layer: layer}, nil
	},

	// (gr-text "REV A" :layer "F.SilkS" :at (pt ..))
	"text": func(fn string, pa kwArgs) (board.Shape, error) {
		layer, err := pa.layer(fn)
		if err != nil {
			return nil, err
		}
		if len(pa.positional) < 1 {
			return nil, fmt.Errorf("%s requires a text argument", fn)
		}
		value, err := toString(pa.positional[0])
		if err != nil {
			return nil, fmt.Errorf("%s: text: %w", fn, err)
		}
		at, err := pa.point(fn, "at")
		if err != nil {
			return nil, err
		}
		return board.Text{Value: value, At: at, Layer: layer}, nil
	},
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all board description builtins into a zygomys
// environment. The builtins populate the provided board during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *board.Board) {

	// -----------------------------------------------------------------------
	// (pt 1000000 -500000)
	// -----------------------------------------------------------------------
	env.AddFunction("pt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("pt requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toCoord(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: x: %w", err)
		}
		y, err := toCoord(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: y: %w", err)
		}
		return &sexpPoint{p: board.Pt(x, y)}, nil
	})

	// -----------------------------------------------------------------------
	// (mm 2.54) -> 2540000
	// -----------------------------------------------------------------------
	env.AddFunction("mm", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("mm requires exactly 1 argument, got %d", len(args))
		}
		f, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mm: %w", err)
		}
		return &zygo.SexpInt{Val: board.FromMM(f)}, nil
	})

	// -----------------------------------------------------------------------
	// (aux-origin (pt ..))
	// -----------------------------------------------------------------------
	env.AddFunction("aux_origin", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("aux-origin requires a point argument")
		}
		p, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("aux-origin: %w", err)
		}
		b.AuxOrigin = p
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// gr-* add board drawings; fp-* return graphics for `footprint`.
	// Registered with underscores since the preprocessor rewrites gr-line
	// to gr_line.
	// -----------------------------------------------------------------------
	for kind, build := range shapeBuilders {
		gr, fp := "gr-"+kind, "fp-"+kind
		env.AddFunction("gr_"+kind, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			s, err := build(gr, parseArgs(args))
			if err != nil {
				return zygo.SexpNull, err
			}
			b.AddDrawing(s)
			return &sexpShape{shape: s}, nil
		})
		env.AddFunction("fp_"+kind, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			s, err := build(fp, parseArgs(args))
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpShape{shape: s}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (model "${KICAD6_3DMODEL_DIR}/Package_SO.3dshapes/SOIC-8.wrl" :offset-z 0.1)
	// -----------------------------------------------------------------------
	env.AddFunction("model", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("model requires a file name argument")
		}
		file, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("model: file: %w", err)
		}
		m := board.Model{Filename: file}
		for i, key := range []string{"offset-x", "offset-y", "offset-z"} {
			if m.Offset[i], err = pa.number("model", key, 0); err != nil {
				return zygo.SexpNull, err
			}
		}
		return &sexpModel{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (footprint "U1" :value "ATmega328P" :at (pt ..)
	//   (fp-rect :layer "F.CrtYd" ...)
	//   (model "..."))
	//
	// Graphics are given relative to :at and stored in board coordinates.
	// -----------------------------------------------------------------------
	env.AddFunction("footprint", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("footprint requires a reference argument")
		}
		ref, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("footprint: reference: %w", err)
		}
		if b.Footprint(ref) != nil {
			return zygo.SexpNull, fmt.Errorf("footprint: duplicate reference %q", ref)
		}

		fp := &board.Footprint{Reference: ref}
		if v, ok := pa.kw["value"]; ok {
			if fp.Value, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("footprint %s: value: %w", ref, err)
			}
		}
		if v, ok := pa.kw["at"]; ok {
			if fp.Position, err = toPoint(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("footprint %s: at: %w", ref, err)
			}
		}
		if v, ok := pa.kw["models"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("footprint %s: models: %w", ref, err)
			}
			pa.positional = append(pa.positional, items...)
		}

		for i, item := range pa.positional[1:] {
			switch v := item.(type) {
			case *sexpShape:
				fp.Graphics = append(fp.Graphics, board.Translate(v.shape, fp.Position))
			case *sexpModel:
				fp.Models = append(fp.Models, v.m)
			default:
				return zygo.SexpNull, fmt.Errorf("footprint %s: child %d: expected fp-* graphic or model, got %T (%s)",
					ref, i+1, item, item.SexpString(nil))
			}
		}

		b.AddFootprint(fp)
		return &sexpFootprintRef{ref: ref}, nil
	})
}
