package kernel

import "gonum.org/v1/gonum/spatial/r2"

// Contours is a set of flattened closed polylines suitable for plotting or
// serialization. Points is flat with 2 floats per vertex (x, y); Loops holds
// the vertex index at which each loop starts. Loops are implicitly closed
// and do not repeat their first vertex.
type Contours struct {
	Points []float64 `json:"points"` // [x0,y0, x1,y1, ...]
	Loops  []int     `json:"loops"`  // start vertex of each loop
	Name   string    `json:"name"`   // which grouping this came from
}

// VertexCount returns the number of vertices.
func (c *Contours) VertexCount() int {
	return len(c.Points) / 2
}

// LoopCount returns the number of loops.
func (c *Contours) LoopCount() int {
	return len(c.Loops)
}

// IsEmpty returns true if there is no geometry.
func (c *Contours) IsEmpty() bool {
	return len(c.Points) == 0
}

// Loop returns the vertices of loop i.
func (c *Contours) Loop(i int) []r2.Vec {
	start := c.Loops[i]
	end := c.VertexCount()
	if i+1 < len(c.Loops) {
		end = c.Loops[i+1]
	}
	out := make([]r2.Vec, 0, end-start)
	for v := start; v < end; v++ {
		out = append(out, r2.Vec{X: c.Points[2*v], Y: c.Points[2*v+1]})
	}
	return out
}

// AddLoop appends a loop. A trailing vertex equal to the first is dropped.
func (c *Contours) AddLoop(ring []r2.Vec) {
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}
	if len(ring) == 0 {
		return
	}
	c.Loops = append(c.Loops, c.VertexCount())
	for _, p := range ring {
		c.Points = append(c.Points, p.X, p.Y)
	}
}
