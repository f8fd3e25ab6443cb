package sketch

import "gonum.org/v1/gonum/spatial/r2"

// DefaultTolerance is the endpoint matching distance in mm used when chaining
// edges into loops. Board coordinates are whole nanometers, so a hundred board
// units of slack absorbs rounding from editors without joining distinct points.
const DefaultTolerance = 1e-4

// Loop is one closed sequence of oriented edges.
type Loop struct {
	Edges   []Edge
	Indices []int // input index of each edge
}

// Area returns the loop's signed area.
func (l Loop) Area() float64 {
	return LoopArea(l.Edges)
}

// Chain connects edges into closed loops by matching endpoints within tol,
// reversing edges where needed, the way a B-rep wire builder does. Edges are
// consumed in input order: each loop starts at the first unused edge and
// prefers the earliest matching continuation, so an input already laid out
// head to tail is returned unchanged.
func Chain(edges []Edge, tol float64) ([]Loop, error) {
	used := make([]bool, len(edges))
	var loops []Loop

	for first := range edges {
		if used[first] {
			continue
		}
		used[first] = true
		loop := Loop{Edges: []Edge{edges[first]}, Indices: []int{first}}
		head := edges[first].Start()
		tail := edges[first].End()

		for dist(head, tail) > tol {
			next, reversed, gap := -1, false, -1.0
			for i, e := range edges {
				if used[i] {
					continue
				}
				if d := dist(tail, e.Start()); d <= tol {
					next, reversed = i, false
					break
				} else if gap < 0 || d < gap {
					gap = d
				}
				if d := dist(tail, e.End()); d <= tol {
					next, reversed = i, true
					break
				} else if gap < 0 || d < gap {
					gap = d
				}
			}
			if next < 0 {
				if gap < 0 {
					gap = dist(head, tail)
				}
				return nil, &UnclosedChainError{Edge: loop.Indices[len(loop.Indices)-1], Gap: gap}
			}
			used[next] = true
			e := edges[next]
			if reversed {
				e = e.Reverse()
			}
			loop.Edges = append(loop.Edges, e)
			loop.Indices = append(loop.Indices, next)
			tail = e.End()
		}
		loops = append(loops, loop)
	}
	return loops, nil
}

func dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}
