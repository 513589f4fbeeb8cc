package hobby

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/npillmayer/linktween"
)

var nan = linktween.Pair(cmplx.NaN())

// Number of joins between knots: N-1 for open paths, N for cycles.
func (path *Path) joins() int {
	if path.IsCycle() {
		return path.N()
	}
	return path.N() - 1
}

func (path *Path) delta(i int) linktween.Pair {
	return path.Z(i+1) - path.Z(i)
}

func (path *Path) d(i int) float64 {
	return path.delta(i).Abs()
}

// Turning angle at z.i.
func (path *Path) psi(i int) float64 {
	psi := 0.0
	if path.IsCycle() || (i > 0 && i < path.N()-1) {
		psi = cmplx.Phase(path.delta(i).C()) - cmplx.Phase(path.delta(i-1).C())
	}
	return reduceAngle(psi)
}

func hobbyParamsAlphaBeta(theta, phi float64) (float64, float64) {
	constA := 1.41421356     // sqrt(2) -- empiric constants, as explained by J.Hobby
	constB := 0.0625         // 1/16
	constC := 0.38196601125  // (3 - sqrt(5)) / 2
	constCC := 0.61803398875 // 1 - c
	st, ct := math.Sin(theta), math.Cos(theta)
	sf, cf := math.Sin(phi), math.Cos(phi)
	alpha := constA * (st - constB*sf) * (sf - constB*st) * (ct - cf)
	beta := 1 + constCC*ct + constC*cf
	return alpha, beta
}

// Calculate control point offsets for the join with chord dvec.
func controlPoints(phi, theta, a, b float64, dvec linktween.Pair) (linktween.Pair, linktween.Pair) {
	alpha, beta := hobbyParamsAlphaBeta(theta, phi)
	rho := (2 + alpha) / beta
	sigma := (2 - alpha) / beta
	st, ct := math.Sin(theta), math.Cos(theta)
	sf, cf := math.Sin(phi), math.Cos(phi)
	dx, dy := real(dvec), imag(dvec)
	uv1 := linktween.P(dx*ct-dy*st, dx*st+dy*ct)
	uv2 := linktween.P(dx*cf+dy*sf, -dx*sf+dy*cf)
	return uv1.Scaled(a / 3 * rho), uv2.Scaled(b / 3 * sigma)
}

// Extend an array/slice of pairs to make room for index i.
// Will do nothing if the array is already large enough.
func extendC(arr []linktween.Pair, i int, deflt linktween.Pair) []linktween.Pair {
	l := len(arr)
	if i >= l {
		arr = append(arr, make([]linktween.Pair, i-l+1)...)
		for ; i >= l; i-- {
			arr[i] = deflt
		}
	}
	return arr
}

// Get a value from an array/slice if present, default value deflt otherwise.
func getC(arr []linktween.Pair, i int, deflt linktween.Pair) linktween.Pair {
	if i < 0 || i >= len(arr) {
		return deflt
	}
	return arr[i]
}

// Reduce an angle to fit into -pi .. pi.
func reduceAngle(a float64) float64 {
	if math.Abs(a) > pi {
		if a > 0 {
			a -= pi2
		} else {
			a += pi2
		}
	}
	return a
}

// Return 1/a for a.
func recip(a float64) float64 {
	if math.IsNaN(a) {
		return 1.0
	}
	return 1.0 / a
}

func square(a float64) float64 {
	return a * a
}

// AsString returns a path in MetaFont notation. If contr is non-nil,
// control points are included.
func AsString(path *Path, contr *Controls) string {
	var b strings.Builder
	for i := 0; i < path.N(); i++ {
		if i > 0 {
			if contr != nil {
				fmt.Fprintf(&b, " and %s\n  .. ", ptstring(contr.PreControl(i), true))
			} else {
				b.WriteString(" .. ")
			}
		}
		b.WriteString(ptstring(path.Z(i), false))
		if contr != nil && (i < path.N()-1 || path.IsCycle()) {
			fmt.Fprintf(&b, " .. controls %s", ptstring(contr.PostControl(i), true))
		}
	}
	if path.IsCycle() {
		if contr != nil {
			fmt.Fprintf(&b, " and %s\n ", ptstring(contr.PreControl(0), true))
		}
		b.WriteString(" .. cycle")
	}
	return b.String()
}

func ptstring(p linktween.Pair, iscontrol bool) string {
	if cmplx.IsNaN(p.C()) {
		return "(<unknown>)"
	}
	if iscontrol {
		return fmt.Sprintf("(%.4f,%.4f)", round(p.X()), round(p.Y()))
	}
	return fmt.Sprintf("(%.4g,%.4g)", round(p.X()), round(p.Y()))
}

func round(x float64) float64 {
	if x >= 0 {
		return float64(int64(x*10000.0+0.5)) / 10000.0
	}
	return float64(int64(x*10000.0-0.5)) / 10000.0
}
