package hobby

import (
	"github.com/npillmayer/linktween"
)

// Nullpath creates an empty path, to be extended by subsequent builder
// calls. The following example builds a closed path of three knots:
//
//	path = Nullpath().Knot(P(0,0)).Curve().Knot(P(3,2)).Curve().Knot(P(5,2.5)).Curve().Cycle()
//
// Calling Cycle() or End() returns a path. Its control point container
// (path.Controls) is empty and to be filled by FindHobbyControls.
func Nullpath() *Path {
	return &Path{Controls: &Controls{}}
}

// Through creates a path with smooth knots at pts, every join using tension t.
// If closed is set, the path is a cycle.
func Through(pts []linktween.Pair, t float64, closed bool) *Path {
	path := Nullpath()
	path.points = make([]linktween.Pair, 0, len(pts))
	for _, pt := range pts {
		path.Knot(pt).TensionCurve(t, t)
	}
	if closed {
		return path.Cycle()
	}
	return path.End()
}

// End an open path. Part of builder functionality.
func (path *Path) End() *Path {
	return path
}

// Cycle closes a cyclic path. Part of builder functionality.
// A pre-tension given for the knot after the last one moves onto knot 0.
func (path *Path) Cycle() *Path {
	n := path.N()
	if n > 0 && len(path.tensions) > n {
		t := path.tensions[n]
		path.tensions = path.tensions[:n]
		path.SetPreTension(0, real(t))
	}
	path.cycle = true
	return path
}

// Knot adds a standard smooth knot to a path. Part of builder functionality.
func (path *Path) Knot(pr linktween.Pair) *Path {
	path.points = append(path.points, pr)
	return path
}

// Curve connects two knots with a smooth curve.
// Part of builder functionality.
func (path *Path) Curve() *Path {
	if path.N() == 0 {
		panic("cannot add curve to empty path")
	}
	return path.TensionCurve(1.0, 1.0)
}

// TensionCurve connects two knots with a tense curve.
// Part of builder functionality.
//
// Tensions are adapted to lie between 3/4 and 4 (absolute).
func (path *Path) TensionCurve(t1, t2 float64) *Path {
	if path.N() == 0 {
		panic("cannot add curve to empty path")
	}
	if t1 != 1.0 {
		path.SetPostTension(path.N()-1, t1)
	}
	if t2 != 1.0 {
		path.SetPreTension(path.N(), t2)
	}
	return path
}

// SetPreTension is a property setter.
func (path *Path) SetPreTension(i int, tension float64) *Path {
	path.tensions = extendC(path.tensions, i, 1+1i)
	post := imag(path.tensions[i])
	path.tensions[i] = linktween.P(clampTension(tension), post)
	return path
}

// SetPostTension is a property setter.
func (path *Path) SetPostTension(i int, tension float64) *Path {
	path.tensions = extendC(path.tensions, i, 1+1i)
	pre := real(path.tensions[i])
	path.tensions[i] = linktween.P(pre, clampTension(tension))
	return path
}

func clampTension(t float64) float64 {
	if t < 0 {
		t = -t
	}
	if t < 0.75 {
		return 0.75
	} else if t > 4.0 {
		return 4.0
	}
	return t
}

// IsCycle is a predicate: is this path cyclic?
func (path *Path) IsCycle() bool {
	return path.cycle
}

// N returns the length of this path (knot count). For cyclic paths, the first and last knot
// should count as one.
func (path *Path) N() int {
	return len(path.points)
}

// Z returns the knot at position (i mod N).
func (path *Path) Z(i int) linktween.Pair {
	n := path.N()
	i = ((i % n) + n) % n
	return path.points[i]
}

// PreTension returns the tension before z.i.
func (path *Path) PreTension(i int) float64 {
	return real(getC(path.tensions, path.wrap(i), 1+1i))
}

// PostTension returns the tension after z.i.
func (path *Path) PostTension(i int) float64 {
	return imag(getC(path.tensions, path.wrap(i), 1+1i))
}

func (path *Path) wrap(i int) int {
	if path.cycle && path.N() > 0 {
		return i % path.N()
	}
	return i
}
