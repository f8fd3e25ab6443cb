package sketch

import (
	"github.com/chazu/kisketch/pkg/board"
	"gonum.org/v1/gonum/spatial/r2"
)

// Mapper converts board-frame points into the sketch frame: translate by the
// origin, scale board units to millimeters and flip Y. The origin is fixed at
// construction.
type Mapper struct {
	origin board.Point
}

// NewMapper returns a Mapper centered on origin.
func NewMapper(origin board.Point) Mapper {
	return Mapper{origin: origin}
}

// Origin returns the board point that maps to (0, 0).
func (m Mapper) Origin() board.Point {
	return m.origin
}

// Map converts a board point to sketch coordinates.
func (m Mapper) Map(p board.Point) r2.Vec {
	d := p.Sub(m.origin)
	return r2.Vec{X: board.ToMM(d.X), Y: -board.ToMM(d.Y)}
}

// MapAll converts points in order.
func (m Mapper) MapAll(ps ...board.Point) []r2.Vec {
	out := make([]r2.Vec, len(ps))
	for i, p := range ps {
		out[i] = m.Map(p)
	}
	return out
}

// Length converts a board length to millimeters. Lengths are not flipped.
func (m Mapper) Length(l int64) float64 {
	return board.ToMM(l)
}
