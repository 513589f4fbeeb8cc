package tween

import "sort"

// Cubic is a cubic interpolating spline through knots (t[i], y[i]):
//
//	s(x) = y[i] + b[i]*(x-t[i]) + c[i]*(x-t[i])² + d[i]*(x-t[i])³   for t[i] ≤ x < t[i+1]
//
// End conditions match the third derivatives at both ends to those of the
// cubics through the first four and last four knots (Forsythe, Malcolm and
// Moler). Outside the knot range the first or last polynomial is continued.
type Cubic struct {
	t, y    []float64
	b, c, d []float64
}

// Spline fits a cubic spline through the knots. t must be strictly
// increasing and at least as long as y.
func Spline(t, y []float64) *Cubic {
	n := len(y)
	s := &Cubic{
		t: t[:n], y: y,
		b: make([]float64, n), c: make([]float64, n), d: make([]float64, n),
	}
	if n < 2 {
		return s
	}
	b, c, d := s.b, s.c, s.d
	nm1, nm2 := n-1, n-2
	if n < 3 {
		b[0] = (y[1] - y[0]) / (t[1] - t[0])
		b[1] = b[0]
		return s
	}
	// tridiagonal system: b = diagonal, d = off diagonal, c = right hand side
	d[0] = t[1] - t[0]
	c[1] = (y[1] - y[0]) / d[0]
	for i := 1; i < nm1; i++ {
		d[i] = t[i+1] - t[i]
		b[i] = 2.0 * (d[i-1] + d[i])
		c[i+1] = (y[i+1] - y[i]) / d[i]
		c[i] = c[i+1] - c[i]
	}
	b[0] = -d[0]
	b[nm1] = -d[nm2]
	c[0] = 0.0
	c[nm1] = 0.0
	if n != 3 {
		c[0] = c[2]/(t[3]-t[1]) - c[1]/(t[2]-t[0])
		c[nm1] = c[nm2]/(t[nm1]-t[n-3]) - c[n-3]/(t[nm2]-t[n-4])
		c[0] = c[0] * d[0] * d[0] / (t[3] - t[0])
		c[nm1] = -c[nm1] * d[nm2] * d[nm2] / (t[nm1] - t[n-4])
	}
	for i := 1; i < n; i++ {
		tmp := d[i-1] / b[i-1]
		b[i] -= tmp * d[i-1]
		c[i] -= tmp * c[i-1]
	}
	c[nm1] /= b[nm1]
	for i := nm2; i >= 0; i-- {
		c[i] = (c[i] - d[i]*c[i+1]) / b[i]
	}
	b[nm1] = (y[nm1]-y[nm2])/d[nm2] + d[nm2]*(c[nm2]+2.0*c[nm1])
	for i := 0; i < nm1; i++ {
		b[i] = (y[i+1]-y[i])/d[i] - d[i]*(c[i+1]+2.0*c[i])
		d[i] = (c[i+1] - c[i]) / d[i]
		c[i] = 3.0 * c[i]
	}
	c[nm1] = 3.0 * c[nm1]
	d[nm1] = d[nm2]
	return s
}

// Eval evaluates the spline at x.
func (s *Cubic) Eval(x float64) float64 {
	if len(s.y) == 0 {
		return 0
	}
	i := s.interval(x)
	dx := x - s.t[i]
	return s.y[i] + dx*(s.b[i]+dx*(s.c[i]+dx*s.d[i]))
}

// Largest i with t[i] ≤ x, or 0 if x lies before the first knot.
func (s *Cubic) interval(x float64) int {
	i := sort.SearchFloat64s(s.t, x)
	if i < len(s.t) && s.t[i] == x {
		return i
	}
	if i == 0 {
		return 0
	}
	return i - 1
}
