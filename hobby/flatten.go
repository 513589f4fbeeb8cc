package hobby

import (
	"math"

	"github.com/npillmayer/linktween"
)

// maxSteps limits the subdivision of a single Bézier segment.
const maxSteps = 256

// Flatten evaluates the cubic Bézier segments of a solved path into a point
// sequence. Each segment is subdivided so that no step along its control
// polygon is longer than step. For cycles, the last point repeats the first.
func Flatten(path *Path, controls *Controls, step float64) []linktween.Pair {
	if path == nil || path.N() == 0 {
		return nil
	}
	if controls == nil {
		controls = path.Controls
	}
	pts := make([]linktween.Pair, 0, path.N()*4)
	pts = append(pts, path.Z(0))
	n := path.N()
	for i := 0; i < path.joins(); i++ {
		z0, z3 := path.Z(i), path.Z(i+1)
		z1, z2 := controls.PostControl(i%n), controls.PreControl((i+1)%n)
		if math.IsNaN(z1.X()) || math.IsNaN(z2.X()) {
			z1, z2 = z0, z3
		}
		k := steps(z0, z1, z2, z3, step)
		for j := 1; j <= k; j++ {
			pts = append(pts, bezier(z0, z1, z2, z3, float64(j)/float64(k)))
		}
	}
	return pts
}

func steps(z0, z1, z2, z3 linktween.Pair, step float64) int {
	l := linktween.Dist(z0, z1) + linktween.Dist(z1, z2) + linktween.Dist(z2, z3)
	if step <= 0 || l <= step {
		return 1
	}
	k := int(math.Ceil(l / step))
	if k > maxSteps {
		k = maxSteps
	}
	return k
}

// Evaluate a cubic Bézier at t in [0,1].
func bezier(z0, z1, z2, z3 linktween.Pair, t float64) linktween.Pair {
	if t >= 1 {
		return z3
	}
	s := 1 - t
	return z0.Scaled(s*s*s) + z1.Scaled(3*s*s*t) + z2.Scaled(3*s*t*t) + z3.Scaled(t*t*t)
}
