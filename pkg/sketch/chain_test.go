package sketch

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func edge(x0, y0, x1, y1 float64) Edge {
	return SegmentEdge{P0: r2.Vec{X: x0, Y: y0}, P1: r2.Vec{X: x1, Y: y1}}
}

func TestChainReordersAndReverses(t *testing.T) {
	edges := []Edge{
		edge(0, 0, 1, 0),
		edge(0, 1, 1, 1), // drawn against the loop direction
		edge(1, 0, 1, 1),
		edge(0, 1, 0, 0),
	}
	loops, err := Chain(edges, DefaultTolerance)
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(loops) != 1 {
		t.Fatalf("expected 1 loop, got %d", len(loops))
	}
	l := loops[0]
	want := []int{0, 2, 1, 3}
	for i, idx := range want {
		if l.Indices[i] != idx {
			t.Fatalf("indices = %v, want %v", l.Indices, want)
		}
	}
	for i := range l.Edges {
		next := l.Edges[(i+1)%len(l.Edges)]
		if dist(l.Edges[i].End(), next.Start()) > DefaultTolerance {
			t.Errorf("edge %d does not meet edge %d", i, (i+1)%len(l.Edges))
		}
	}
	if a := l.Area(); math.Abs(math.Abs(a)-1) > 1e-12 {
		t.Errorf("area = %f, want ±1", a)
	}
}

func TestChainHeadToTailUnchanged(t *testing.T) {
	edges := []Edge{edge(0, 0, 2, 0), edge(2, 0, 2, 2), edge(2, 2, 0, 0)}
	loops, err := Chain(edges, DefaultTolerance)
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	for i, e := range loops[0].Edges {
		if e != edges[i] {
			t.Errorf("edge %d = %v, want %v", i, e, edges[i])
		}
	}
}

func TestChainMultipleLoops(t *testing.T) {
	edges := []Edge{
		edge(0, 0, 10, 0), edge(10, 0, 10, 10), edge(10, 10, 0, 10), edge(0, 10, 0, 0),
		edge(2, 2, 4, 2), edge(4, 2, 3, 4), edge(3, 4, 2, 2),
	}
	loops, err := Chain(edges, DefaultTolerance)
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(loops) != 2 {
		t.Fatalf("expected 2 loops, got %d", len(loops))
	}
	if len(loops[0].Edges) != 4 || len(loops[1].Edges) != 3 {
		t.Errorf("loop sizes = %d, %d; want 4, 3", len(loops[0].Edges), len(loops[1].Edges))
	}
}

func TestChainTolerance(t *testing.T) {
	gap := DefaultTolerance / 2
	edges := []Edge{edge(0, 0, 1, 0), edge(1, gap, 0, 1), edge(0, 1, 0, gap)}
	if _, err := Chain(edges, DefaultTolerance); err != nil {
		t.Errorf("gap below tolerance should close: %v", err)
	}
	if _, err := Chain(edges, gap/10); err == nil {
		t.Error("gap above tolerance should not close")
	}
}

func TestChainUnclosed(t *testing.T) {
	edges := []Edge{edge(0, 0, 1, 0), edge(1, 0, 1, 1), edge(1, 1, 0, 1)}
	_, err := Chain(edges, DefaultTolerance)
	if !errors.Is(err, ErrUnclosedChain) {
		t.Fatalf("expected ErrUnclosedChain, got %v", err)
	}
	var uc *UnclosedChainError
	if !errors.As(err, &uc) {
		t.Fatalf("expected *UnclosedChainError, got %T", err)
	}
	if uc.Edge != 2 || math.Abs(uc.Gap-1) > 1e-12 {
		t.Errorf("error = %+v, want edge 2 gap 1", uc)
	}
}
