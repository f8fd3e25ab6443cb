package board

import "fmt"

// Model is a 3D model attached to a footprint.
type Model struct {
	Filename string     `json:"filename"`
	Offset   [3]float64 `json:"offset"` // mm
}

// Footprint is a placed component with its own graphic items.
type Footprint struct {
	Reference string  `json:"reference"`
	Value     string  `json:"value"`
	Position  Point   `json:"position"`
	Graphics  []Shape `json:"-"`
	Models    []Model `json:"models,omitempty"`
}

// Board is a loaded board design. It is never mutated by the converter.
type Board struct {
	AuxOrigin  Point          `json:"aux_origin"`
	Drawings   []Shape        `json:"-"`
	Footprints []*Footprint   `json:"footprints"`
	NameIndex  map[string]int `json:"-"`
}

// New creates an empty board with its origin at (0, 0).
func New() *Board {
	return &Board{NameIndex: make(map[string]int)}
}

// AddDrawing appends a board-level graphic item.
func (b *Board) AddDrawing(s Shape) {
	b.Drawings = append(b.Drawings, s)
}

// AddFootprint appends a footprint and indexes its reference. It does not
// check for duplicates; Validate reports them.
func (b *Board) AddFootprint(fp *Footprint) {
	if b.NameIndex == nil {
		b.NameIndex = make(map[string]int)
	}
	b.Footprints = append(b.Footprints, fp)
	if fp.Reference != "" {
		b.NameIndex[fp.Reference] = len(b.Footprints) - 1
	}
}

// Footprint returns the footprint with the given reference designator, or nil.
func (b *Board) Footprint(ref string) *Footprint {
	i, ok := b.NameIndex[ref]
	if !ok {
		return nil
	}
	return b.Footprints[i]
}

// MustFootprint returns the footprint with the given reference, or panics.
func (b *Board) MustFootprint(ref string) *Footprint {
	fp := b.Footprint(ref)
	if fp == nil {
		panic(fmt.Sprintf("board: no footprint %q", ref))
	}
	return fp
}

// FootprintsWhere returns the footprints matching f, in board order.
func (b *Board) FootprintsWhere(f func(*Footprint) bool) []*Footprint {
	var out []*Footprint
	for _, fp := range b.Footprints {
		if f(fp) {
			out = append(out, fp)
		}
	}
	return out
}

// FootprintsWithValue returns the footprints whose value field equals v.
func (b *Board) FootprintsWithValue(v string) []*Footprint {
	return b.FootprintsWhere(func(fp *Footprint) bool { return fp.Value == v })
}

// Layer returns the board-level drawings on the given layer, in board order.
func (b *Board) Layer(layer Layer) []Shape {
	return onLayer(b.Drawings, layer)
}

// Edges returns the board outline drawings.
func (b *Board) Edges() []Shape {
	return b.Layer(EdgeCuts)
}

// LayerOf returns the graphics of footprint ref on the given layer.
func (b *Board) LayerOf(ref string, layer Layer) ([]Shape, error) {
	fp := b.Footprint(ref)
	if fp == nil {
		return nil, &NotFoundError{Reference: ref}
	}
	return onLayer(fp.Graphics, layer), nil
}

// Courtyard returns the courtyard graphics of footprint ref on the front or
// back side.
func (b *Board) Courtyard(ref string, front bool) ([]Shape, error) {
	return b.LayerOf(ref, CourtyardLayer(front))
}

// Position returns the placement point of footprint ref in board units.
func (b *Board) Position(ref string) (Point, error) {
	fp := b.Footprint(ref)
	if fp == nil {
		return Point{}, &NotFoundError{Reference: ref}
	}
	return fp.Position, nil
}

// Layers returns the distinct layers used by board drawings and footprint
// graphics, in first-seen order.
func (b *Board) Layers() []Layer {
	seen := make(map[Layer]bool)
	var out []Layer
	add := func(shapes []Shape) {
		for _, s := range shapes {
			if l := s.OnLayer(); !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	add(b.Drawings)
	for _, fp := range b.Footprints {
		add(fp.Graphics)
	}
	return out
}

func onLayer(shapes []Shape, layer Layer) []Shape {
	var out []Shape
	for _, s := range shapes {
		if s.OnLayer() == layer {
			out = append(out, s)
		}
	}
	return out
}

// NotFoundError reports a footprint reference missing from the board.
type NotFoundError struct {
	Reference string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("board: no footprint with reference %q", e.Reference)
}

// Is makes errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
