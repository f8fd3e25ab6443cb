package sketch

import (
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/spatial/r2"
)

// legendrePoints is the Gauss-Legendre order used per knot span. Four
// points integrate polynomials up to degree 7 exactly, which covers
// x(u)*y'(u) for cubic spans.
const legendrePoints = 4

// curveArea integrates (x dy - y dx) / 2 over the curve, span by span so
// the integrand is polynomial on each interval.
func curveArea(c *BSpline) float64 {
	d := c.Derivative()
	integrand := func(u float64) float64 {
		p := c.Eval(u)
		v := d.Eval(u)
		return r2.Cross(p, v) / 2
	}

	lo, hi := c.Domain()
	var area float64
	for i := 0; i+1 < len(c.Knots); i++ {
		a, b := c.Knots[i], c.Knots[i+1]
		if b <= lo || a >= hi {
			continue
		}
		area += quad.Fixed(integrand, a, b, legendrePoints, quad.Legendre{}, 0)
	}
	return area
}

// LoopArea returns the signed area enclosed by a closed loop, positive when
// counter-clockwise.
func LoopArea(loop []Edge) float64 {
	var a float64
	for _, e := range loop {
		a += e.SignedArea()
	}
	return a
}
