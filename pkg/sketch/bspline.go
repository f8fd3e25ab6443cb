package sketch

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// BSpline is a non-rational B-spline curve given the way B-rep kernels take
// it: poles, distinct knots with their multiplicities, and a degree.
type BSpline struct {
	Poles  []r2.Vec
	Knots  []float64
	Mults  []int
	Degree int
}

// NewBSpline validates and returns a B-spline. The slices are copied.
func NewBSpline(poles []r2.Vec, knots []float64, mults []int, degree int) (*BSpline, error) {
	c := &BSpline{
		Poles:  append([]r2.Vec(nil), poles...),
		Knots:  append([]float64(nil), knots...),
		Mults:  append([]int(nil), mults...),
		Degree: degree,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Bezier builds the exact cubic Bezier through four control points as a
// single-span clamped B-spline: degree 3, knots 0 and 1 each with
// multiplicity 4. Any other number of points is a programming error and
// panics with a *MalformedCurveError.
func Bezier(points ...r2.Vec) *BSpline {
	if len(points) != 4 {
		panic(&MalformedCurveError{Count: len(points)})
	}
	c, err := NewBSpline(points, []float64{0, 1}, []int{4, 4}, 3)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks the pole/knot/multiplicity relation
// sum(mults) == len(poles) + degree + 1.
func (c *BSpline) Validate() error {
	bad := func(format string, args ...any) error {
		return &MalformedCurveError{Count: len(c.Poles), Reason: fmt.Sprintf(format, args...)}
	}
	if c.Degree < 1 {
		return bad("degree %d, must be at least 1", c.Degree)
	}
	if len(c.Poles) < c.Degree+1 {
		return bad("%d poles for degree %d", len(c.Poles), c.Degree)
	}
	if len(c.Knots) < 2 || len(c.Knots) != len(c.Mults) {
		return bad("%d knots with %d multiplicities", len(c.Knots), len(c.Mults))
	}
	sum := 0
	for i, m := range c.Mults {
		if m < 1 || m > c.Degree+1 {
			return bad("knot %d multiplicity %d out of range", i, m)
		}
		if i > 0 && c.Knots[i] <= c.Knots[i-1] {
			return bad("knots not strictly increasing at %d", i)
		}
		sum += m
	}
	if sum != len(c.Poles)+c.Degree+1 {
		return bad("multiplicities sum to %d, want %d", sum, len(c.Poles)+c.Degree+1)
	}
	return nil
}

// FlatKnots expands the knot vector by multiplicity.
func (c *BSpline) FlatKnots() []float64 {
	var t []float64
	for i, k := range c.Knots {
		for j := 0; j < c.Mults[i]; j++ {
			t = append(t, k)
		}
	}
	return t
}

// Domain returns the parameter range the curve is defined on.
func (c *BSpline) Domain() (lo, hi float64) {
	t := c.FlatKnots()
	return t[c.Degree], t[len(t)-c.Degree-1]
}

// StartPoint returns the point at the start of the domain.
func (c *BSpline) StartPoint() r2.Vec {
	lo, _ := c.Domain()
	return c.Eval(lo)
}

// EndPoint returns the point at the end of the domain.
func (c *BSpline) EndPoint() r2.Vec {
	_, hi := c.Domain()
	return c.Eval(hi)
}

// Eval evaluates the curve at u with de Boor's algorithm. u is clamped to
// the domain.
func (c *BSpline) Eval(u float64) r2.Vec {
	t := c.FlatKnots()
	p := c.Degree
	n := len(c.Poles)

	lo, hi := t[p], t[n]
	if u < lo {
		u = lo
	}
	if u > hi {
		u = hi
	}

	// Span k with t[k] <= u < t[k+1]; the last span also owns u == hi.
	k := p
	for k < n-1 && u >= t[k+1] {
		k++
	}

	d := make([]r2.Vec, p+1)
	for j := 0; j <= p; j++ {
		d[j] = c.Poles[j+k-p]
	}
	for r := 1; r <= p; r++ {
		for j := p; j >= r; j-- {
			den := t[j+1+k-r] - t[j+k-p]
			alpha := 0.0
			if den != 0 {
				alpha = (u - t[j+k-p]) / den
			}
			d[j] = r2.Add(r2.Scale(1-alpha, d[j-1]), r2.Scale(alpha, d[j]))
		}
	}
	return d[p]
}

// Derivative returns the hodograph, a B-spline of one lower degree. The
// derivative of a degree-1 curve has degree 0, which Eval handles but
// Validate rejects.
func (c *BSpline) Derivative() *BSpline {
	t := c.FlatKnots()
	p := c.Degree
	n := len(c.Poles)

	q := make([]r2.Vec, n-1)
	for i := 0; i < n-1; i++ {
		den := t[i+p+1] - t[i+1]
		if den == 0 {
			continue
		}
		q[i] = r2.Scale(float64(p)/den, r2.Sub(c.Poles[i+1], c.Poles[i]))
	}

	knots, mults := compressKnots(t[1 : len(t)-1])
	return &BSpline{Poles: q, Knots: knots, Mults: mults, Degree: p - 1}
}

// compressKnots folds a flat knot vector back into distinct knots and
// multiplicities.
func compressKnots(flat []float64) ([]float64, []int) {
	var knots []float64
	var mults []int
	for _, k := range flat {
		if len(knots) > 0 && knots[len(knots)-1] == k {
			mults[len(mults)-1]++
			continue
		}
		knots = append(knots, k)
		mults = append(mults, 1)
	}
	return knots, mults
}

// Reverse returns the same curve traversed in the opposite direction.
func (c *BSpline) Reverse() *BSpline {
	lo, hi := c.Domain()
	poles := make([]r2.Vec, len(c.Poles))
	for i, p := range c.Poles {
		poles[len(poles)-1-i] = p
	}
	knots := make([]float64, len(c.Knots))
	mults := make([]int, len(c.Mults))
	for i := range c.Knots {
		j := len(c.Knots) - 1 - i
		knots[i] = lo + hi - c.Knots[j]
		mults[i] = c.Mults[j]
	}
	return &BSpline{Poles: poles, Knots: knots, Mults: mults, Degree: c.Degree}
}
