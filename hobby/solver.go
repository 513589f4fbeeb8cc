package hobby

import (
	"fmt"
	"math"

	"github.com/npillmayer/linktween"
)

// ValidateForSolve checks if a path is solvable by Hobby interpolation.
func (path *Path) ValidateForSolve() error {
	if path == nil {
		return ErrNilPath
	}
	if err := path.checkKnotCount(); err != nil {
		return err
	}
	for i, z := range path.points {
		if !finite(z.X()) || !finite(z.Y()) {
			return fmt.Errorf("%w at knot %d", ErrInvalidKnot, i)
		}
	}
	for i := 0; i < path.joins(); i++ {
		if path.d(i) <= _epsilon {
			return fmt.Errorf("%w between knots %d and %d", ErrDegenerateSegment, i, (i+1)%path.N())
		}
	}
	return nil
}

func (path *Path) checkKnotCount() error {
	n := path.N()
	switch {
	case !path.IsCycle() && n < 2:
		return fmt.Errorf("%w: open path needs at least 2 knots, got %d", ErrTooFewKnots, n)
	case !path.IsCycle():
		return nil
	case n < 3:
		return fmt.Errorf("%w: cycle needs at least 3 knots, got %d", ErrTooFewKnots, n)
	case linktween.Dist(path.points[0], path.points[n-1]) <= _epsilon:
		return ErrCycleHasDuplicateTerminalKnot
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FindHobbyControls finds the parameters for Hobby-spline control points
// for a given skeleton path.
// It validates the path and returns an error for empty/invalid geometry.
//
// Clients may provide a container for the spline control points. If none
// is provided, i.e. controls == nil, the path's own container is used.
func FindHobbyControls(path *Path, controls *Controls) (*Controls, error) {
	if err := path.ValidateForSolve(); err != nil {
		return nil, err
	}
	if controls == nil {
		if path.Controls == nil {
			path.Controls = &Controls{}
		}
		controls = path.Controls
	}
	s := newSystem(path)
	if path.IsCycle() {
		s.solveCycle()
	} else {
		s.solveOpen()
	}
	s.place(controls)
	tracer().Debugf("hobby path = %s", AsString(path, controls))
	return controls, nil
}

// system is the tridiagonal system for the turning angles theta at the
// knots of a path. After elimination theta[i] = v[i] - u[i]*theta[i+1];
// for cycles w[i] is the weight of theta[0] in v[i].
type system struct {
	path           *Path
	u, v, w, theta []float64
}

func newSystem(path *Path) *system {
	m := path.N() + 2
	s := &system{
		path:  path,
		u:     make([]float64, m),
		v:     make([]float64, m),
		theta: make([]float64, m),
	}
	if path.IsCycle() {
		s.w = make([]float64, m)
	}
	return s
}

// solveOpen solves an open path with curl 1 at both ends. A single join
// is a straight line with all angles 0.
func (s *system) solveOpen() {
	last := s.path.N() - 1
	if last < 2 {
		return
	}
	a, b := s.tensions(0)
	c := square(a) / square(b)
	s.u[0] = ((3-a)*c + b) / (a*c + 3 - b)
	s.v[0] = -s.u[0] * s.path.psi(1)
	s.eliminate(last - 1)
	a, b = s.tensions(last - 1)
	c = square(b) / square(a)
	s.u[last] = (b*c + 3 - a) / ((3-b)*c + a)
	if den := s.u[last-1] - s.u[last]; math.Abs(den) > _epsilon {
		s.theta[last] = s.v[last-1] / den
	}
	s.substitute(last-1, 0)
}

// solveCycle solves a cyclic path, where theta[n] is theta[0].
func (s *system) solveCycle() {
	n := s.path.N()
	s.w[0] = 1
	s.eliminate(n)
	var a, b float64 = 0, 1
	for i := n; i > 0; i-- {
		a = s.v[i] - a*s.u[i]
		b = s.w[i] - b*s.u[i]
	}
	t0 := (s.v[n] - a*s.u[n]) / (1 - (s.w[n] - b*s.u[n]))
	s.v[0] = t0
	for i := 1; i <= n; i++ {
		s.v[i] += s.w[i] * t0
	}
	s.theta[0], s.theta[n] = t0, t0
	s.substitute(n-1, 1)
}

// eliminate runs forward elimination over the equations of knots 1..upto.
func (s *system) eliminate(upto int) {
	u, v, w := s.u, s.v, s.w
	for i := 1; i <= upto; i++ {
		a0, b1 := s.tensions(i - 1)
		a1, b2 := s.tensions(i)
		d0, d1 := s.path.d(i-1), s.path.d(i)
		A := a0 / (square(b1) * d0)
		B := (3 - a0) / (square(b1) * d0)
		C := (3 - b2) / (square(a1) * d1)
		D := b2 / (square(a1) * d1)
		t := B - u[i-1]*A + C
		u[i] = D / t
		v[i] = (-B*s.path.psi(i) - D*s.path.psi(i+1) - A*v[i-1]) / t
		if w != nil {
			w[i] = -A * w[i-1] / t
		}
	}
}

// substitute fills theta[from] down to theta[to] from theta[from+1].
func (s *system) substitute(from, to int) {
	for i := from; i >= to; i-- {
		s.theta[i] = s.v[i] - s.u[i]*s.theta[i+1]
	}
}

// tensions returns the reciprocal tensions leaving knot i and entering
// knot i+1.
func (s *system) tensions(i int) (float64, float64) {
	return recip(s.path.PostTension(i)), recip(s.path.PreTension(i + 1))
}

// place sets the control points of every join from the solved angles.
func (s *system) place(controls *Controls) {
	path := s.path
	n := path.N()
	for i := 0; i < path.joins(); i++ {
		phi := -path.psi(i+1) - s.theta[i+1]
		a, b := s.tensions(i)
		p2, p3 := controlPoints(phi, s.theta[i], a, b, path.delta(i))
		controls.SetPostControl(i%n, path.Z(i)+p2)
		controls.SetPreControl((i+1)%n, path.Z(i+1)-p3)
	}
}
