package board

import "math"

// IUPerMM is the number of board-native internal units per millimeter.
// Board files store lengths as integer nanometers.
const IUPerMM = 1_000_000

// ToMM converts a length in board units to millimeters.
func ToMM(iu int64) float64 {
	return float64(iu) / IUPerMM
}

// FromMM converts millimeters to the nearest board unit.
func FromMM(mm float64) int64 {
	return int64(math.Round(mm * IUPerMM))
}

// Point is a location in the board frame. Y grows downward.
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int64) Point {
	return Point{X: x, Y: y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}
