package interp

import (
	"math"

	"github.com/npillmayer/linktween"
	"github.com/npillmayer/linktween/polyline"
)

// output is a curve and its labels, destined for an inbetween slot.
type output struct {
	slot   int
	curve  *Curve
	labels []*Label
}

// assembleFrame turns the blended points of one inbetween slot into a line
// at display resolution res. Points within res/CondenseDivisor of their
// predecessor in both coordinates are dropped, the rest is re-splined and
// cleared of loops. It returns false if no line is left.
func (r *run) assembleFrame(root *curveLink, slot int, pts []linktween.Pair, res float64, closed bool) (polyline.Line, bool) {
	minres := res / r.cfg.CondenseDivisor
	raw := make([]linktween.Pair, 0, len(pts))
	for isp, p := range pts {
		if isp > 0 {
			d := p - pts[isp-1]
			if math.Abs(d.X()) < minres && math.Abs(d.Y()) < minres {
				continue
			}
		}
		raw = append(raw, p)
	}
	t := r.field.Axis.Time(slot)
	line, err := polyline.Respline(polyline.New(raw...), res, r.cfg.options(closed))
	if err != nil || line.N() < 2 {
		r.report.warn(NoLine, root.ichain, -1, t, "no line after resplining %d points", len(raw))
		return nil, false
	}
	line, repairs, clean := polyline.RemoveLoops(line, r.cfg.MaxCrossingRepairs)
	if repairs > 0 {
		tracer().Debugf("link %d: removed %d loops at T%d", root.ichain, repairs, t)
	}
	if !clean {
		r.report.warn(UnresolvedCrossing, root.ichain, -1, t, "line still crosses itself after %d repairs", repairs)
	}
	return line, true
}

// checkEnvelope warns if the line of slot leaves the bounding box of the
// keyframe lines in data bracketing the slot's time by more than res.
func (r *run) checkEnvelope(root *curveLink, data []int, slot int, line polyline.Line, res float64) bool {
	t := r.field.Axis.Time(slot)
	lo, hi := 0, len(data)-1
	for i, ikey := range data {
		if r.keys[ikey].Time <= t {
			lo = i
		}
	}
	for i := len(data) - 1; i >= 0; i-- {
		if r.keys[data[i]].Time >= t {
			hi = i
		}
	}
	env := polyline.Envelope(r.table.line(root.keys[data[lo]].ref), r.table.line(root.keys[data[hi]].ref))
	box := polyline.Bounds(line)
	if polyline.Within(box, env, res) {
		return true
	}
	r.report.warn(Overshoot, root.ichain, data[lo], t,
		"line spans (%.4g,%.4g)-(%.4g,%.4g) outside keyframes (%.4g,%.4g)-(%.4g,%.4g)",
		box.Min.X, box.Min.Y, box.Max.X, box.Max.Y, env.Min.X, env.Min.Y, env.Max.X, env.Max.Y)
	return false
}

// allClosed reports whether every keyframe line in data is closed.
func (r *run) allClosed(root *curveLink, data []int) bool {
	for _, ikey := range data {
		if !r.table.line(root.keys[ikey].ref).IsClosed() {
			return false
		}
	}
	return len(data) > 0
}

// coveringKey is the last keyframe at or before time t, or the first one.
func (r *run) coveringKey(t, from int) int {
	ikey := max(from, 0)
	for ikey < len(r.keys)-1 && t >= r.keys[ikey+1].Time {
		ikey++
	}
	return ikey
}

// styleKey is the keyframe of root in [skey, ekey] closest to ikey which
// has a curve.
func (r *run) styleKey(root *curveLink, ikey int) int {
	j := min(max(ikey, root.skey), root.ekey)
	for d := 0; d <= root.ekey-root.skey; d++ {
		for _, c := range []int{j - d, j + d} {
			if c >= root.skey && c <= root.ekey && root.keys[c].ref.valid() {
				return c
			}
		}
	}
	return root.skey
}
