/*
Package linktween synthesizes inbetween frames of line features between
sparse keyframes, guided by link chains which track corresponding curves
across time.

The root package holds the small amount of 2D arithmetic shared by the
sub-packages: pairs, translations and centroids. The interpolation engine
lives in package interp, the geometry services in packages polyline and
hobby, and the temporal blending primitives in package tween.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package linktween

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/paulmach/orb"
)

// === Numeric Data Type =====================================================

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Clamp restricts n to the closed interval spanned by a and b, in either order.
func Clamp(n, a, b float64) float64 {
	if a > b {
		a, b = b, a
	}
	return math.Max(a, math.Min(b, n))
}

// === Pair Data Type ========================================================

// Pair is a 2D point in projected map coordinates.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(0, 0)

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// Equal compares two pairs.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// Scaled returns a new pair scaled by factor a.
func (p Pair) Scaled(a float64) Pair {
	return P(p.X()*a, p.Y()*a)
}

// Shifted returns a new pair translated by v.
func (p Pair) Shifted(v Pair) Pair {
	return Translation(v).Transform(p)
}

// Abs is the Euclidean length of p.
func (p Pair) Abs() float64 {
	return cmplx.Abs(p.C())
}

// Dist is the Euclidean distance between p and q.
func Dist(p, q Pair) float64 {
	return (q - p).Abs()
}

// Cross is the z-component of the cross product of p and q.
func Cross(p, q Pair) float64 {
	return p.X()*q.Y() - p.Y()*q.X()
}

// Lerp returns the point at fraction t on the way from p to q.
func Lerp(p, q Pair, t float64) Pair {
	return p + (q - p).Scaled(t)
}

// Orb converts a pair to an orb point.
func (p Pair) Orb() orb.Point {
	return orb.Point{p.X(), p.Y()}
}

// FromOrb converts an orb point to a pair.
func FromOrb(pt orb.Point) Pair {
	return P(pt.X(), pt.Y())
}

// Centroid returns the arithmetic mean of a point cloud. An empty cloud has
// its centroid at the origin.
func Centroid(pts []Pair) Pair {
	if len(pts) == 0 {
		return Origin
	}
	var sx, sy float64
	for _, pt := range pts {
		sx += pt.X()
		sy += pt.Y()
	}
	n := float64(len(pts))
	return P(sx/n, sy/n)
}

// === Affine Transformations ================================================

// AT is an affine transform, a matrix type used for transforming vectors.
type AT []float64 // a 3x3 matrix, flattened by rows

func newAT() AT {
	return make([]float64, 9)
}

func (m AT) get(row, col int) float64 {
	return m[row*3+col]
}

func (m AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*3 : (row+1)*3]
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	return m
}

// Translation transform. Translate a point by (dx,dy).
func Translation(p Pair) AT {
	m := Identity()
	m.set(0, 2, p.X())
	m.set(1, 2, p.Y())
	return m
}

func dotProd(vec1, vec2 []float64) float64 {
	return vec1[0]*vec2[0] + vec1[1]*vec2[1] + vec1[2]*vec2[2]
}

// Transform a 2D-point. The argument is unchanged and a new pair is returned.
func (m AT) Transform(p Pair) Pair {
	v := []float64{p.X(), p.Y(), 1.0}
	return P(dotProd(m.row(0), v), dotProd(m.row(1), v))
}
