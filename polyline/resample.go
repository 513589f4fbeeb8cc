package polyline

import (
	"fmt"
	"math"

	"github.com/npillmayer/linktween"
	"github.com/npillmayer/linktween/hobby"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/resample"
)

// Options control re-splining.
type Options struct {
	Tension float64 // Hobby spline tension at every join
	Closed  bool    // fit a cyclic spline; the line must repeat its first point
	MaxIter int     // iteration budget for ResampleToCount
}

// DefaultOptions returns options for open lines with neutral tension.
func DefaultOptions() Options {
	return Options{Tension: 1.0, MaxIter: 64}
}

// Respline smooths l and redistributes it to points about res apart. The
// knots of l are filtered at res/2, a Hobby spline is fit through them and
// the flattened spline is resampled evenly by arc length to
// round(length/res)+1 points, at least 2. A line which has collapsed to a
// single point is returned as a copy.
func Respline(l Line, res float64, opts Options) (Line, error) {
	if len(l) == 0 {
		return nil, ErrEmptyLine
	}
	if !(res > 0) || math.IsInf(res, 0) {
		return nil, fmt.Errorf("%w: %g", ErrBadResolution, res)
	}
	knots := Condense(l, linktween.Epsilon)
	if len(knots) < 2 {
		return knots, nil
	}
	knots = Filter(knots, res/2)
	closed := opts.Closed && knots.IsClosed() && len(knots) > 3
	pts := knots.Pairs()
	if closed {
		pts = pts[:len(pts)-1]
	}
	tension := opts.Tension
	if tension == 0 {
		tension = 1.0
	}
	path := hobby.Through(pts, tension, closed)
	dense := knots
	if controls, err := hobby.FindHobbyControls(path, nil); err != nil {
		tracer().Debugf("respline: cannot fit spline, using knots: %v", err)
	} else {
		dense = New(hobby.Flatten(path, controls, res/4)...)
	}
	dense = Condense(dense, linktween.Epsilon)
	if len(dense) < 2 {
		return dense, nil
	}
	n := int(math.Round(dense.Length()/res)) + 1
	if n < 2 {
		n = 2
	}
	return evenly(dense, n), nil
}

// evenly redistributes l to exactly n points, evenly spaced by arc length.
func evenly(l Line, n int) Line {
	rs := Line(resample.Resample(orb.LineString(l.Clone()), planar.Distance, n))
	for len(rs) < n {
		rs = append(rs, rs[len(rs)-1])
	}
	return rs[:n]
}

// Stats reports on a ResampleToCount run.
type Stats struct {
	Iterations int     // number of respline attempts
	Resolution float64 // resolution of the accepted fit
	Converged  bool    // an exact count was found within the budget
	Replicated bool    // the line collapsed to a single point
}

// ResampleToCount re-splines l to exactly n points.
//
// The resolution is searched iteratively, starting from length/(n-1.005)
// of an initial fit. Too many points coarsen the resolution proportionally,
// too few refine it; resolutions which were observed to fail act as bounds
// and a step beyond a bound bisects instead. Every attempt starts from the
// current reference line. If the count is right but the length differs from
// the reference length by a resolution step or more, the fit becomes the new
// reference and the search restarts. If the budget is exhausted, the best fit
// found is redistributed to n points.
//
// A line which condenses to a single point is replicated n times.
func ResampleToCount(l Line, n int, opts Options) (Line, Stats, error) {
	var stats Stats
	if len(l) == 0 {
		return nil, stats, ErrEmptyLine
	}
	if n < 2 {
		return nil, stats, fmt.Errorf("%w: %d", ErrBadCount, n)
	}
	work := Condense(l, linktween.Epsilon)
	if len(work) == 1 || work.Length() <= linktween.Epsilon {
		stats.Replicated, stats.Converged = true, true
		out := make(Line, n)
		for i := range out {
			out[i] = work[0]
		}
		return out, stats, nil
	}
	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultOptions().MaxIter
	}
	length := work.Length()
	if len(work) > 2 {
		if fit, err := Respline(work, length/(float64(len(work))-1.005), opts); err == nil && len(fit) > 1 {
			length = fit.Length()
		}
	}
	var best Line
	bestDiff := math.MaxInt
	spres := length / (float64(n) - 1.005)
	spmin, spmax := 0.0, math.Inf(1)
	for stats.Iterations < maxIter {
		stats.Iterations++
		sline, err := Respline(work, spres, opts)
		if err != nil {
			return nil, stats, err
		}
		got := len(sline)
		if diff := abs(got - n); diff <= bestDiff {
			best, bestDiff, stats.Resolution = sline, diff, spres
		}
		sprev := spres
		switch {
		case got > n:
			spmin = math.Max(spmin, spres)
			spres *= float64(got-1) / float64(n-1)
			if spres >= spmax {
				spres = (sprev + spmax) / 2
			}
		case got < n:
			spmax = math.Min(spmax, spres)
			spres *= float64(got-1) / float64(n-1)
			if spres <= spmin {
				spres = (sprev + spmin) / 2
			}
		default:
			slen := sline.Length()
			if math.Abs(slen-length) < spres {
				stats.Converged = true
				return sline, stats, nil
			}
			tracer().Debugf("resample: length %.4g drifted from %.4g, refitting", slen, length)
			work, length = sline, slen
			spmin, spmax = 0.0, math.Inf(1)
			spres = length / (float64(n) - 1.005)
		}
		if spmax-spmin <= linktween.Epsilon*math.Max(1, spmin) {
			break
		}
	}
	tracer().Debugf("resample: no exact count %d after %d iterations, best differs by %d",
		n, stats.Iterations, bestDiff)
	if bestDiff == 0 {
		return best, stats, nil
	}
	return evenly(best, n), stats, nil
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
