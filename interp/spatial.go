package interp

import (
	"fmt"
	"math"

	"github.com/npillmayer/linktween"
	"github.com/npillmayer/linktween/polyline"
)

// pointRange returns the range of line points strictly inside segment iseg
// of k, in the order of travel, and the number of points the segment
// contributes to its spline: the points in range plus its boundaries.
func (k *linkKey) pointRange(iseg int, last bool, np int) (ips, ipe, n int) {
	dss, dse := k.bounds(iseg, last, np)
	if k.flip {
		ips = int(dss)
		ipe = int(dse)
		if !last {
			ipe = int(dse + 1)
		}
		ipe = min(ipe, np-1)
		n = ips - ipe + 2
	} else {
		ips = int(dss)
		if iseg > 0 {
			ips = int(dss + 1)
		}
		ips = min(ips, np-1)
		ipe = int(dse)
		n = ipe - ips + 2
	}
	if !last {
		n++
	}
	return ips, ipe, max(n, 2)
}

// segmentPointCounts determines the point count of every segment as the
// weighted mean of the largest and smallest count over the keyframes in
// data, at least the configured minimum. It returns the counts and their
// sum.
func (r *run) segmentPointCounts(root *curveLink, data []int, nseg int) ([]int, int) {
	npseg := make([]int, nseg)
	nspts := 0
	for iseg := 0; iseg < nseg; iseg++ {
		npmin, npmax := 0, 0
		for i, ikey := range data {
			k := &root.keys[ikey]
			_, _, n := k.pointRange(iseg, iseg == nseg-1, r.table.line(k.ref).N())
			if i == 0 || n < npmin {
				npmin = n
			}
			if i == 0 || n > npmax {
				npmax = n
			}
		}
		np := int(math.Round(r.cfg.MaxWeight*float64(npmax) + r.cfg.MinWeight*float64(npmin)))
		npseg[iseg] = max(np, r.cfg.MinSegmentPoints)
		nspts += npseg[iseg]
		tracer().Debugf("link %d: segment %d gets %d points (%d/%d)", root.ichain, iseg, npseg[iseg], npmin, npmax)
	}
	return npseg, nspts
}

// segmentLine extracts segment iseg of the oriented line of k: its start
// boundary, the line points inside it and, unless it is the final segment,
// its end boundary.
func (k *linkKey) segmentLine(line polyline.Line, iseg int, last bool) polyline.Line {
	np := line.N()
	ips, ipe, _ := k.pointRange(iseg, last, np)
	w := polyline.Line{k.boundary(iseg, line).Orb()}
	if k.flip {
		w = append(w, polyline.Portion(line, ipe, ips, true)...)
	} else {
		w = append(w, polyline.Portion(line, ips, ipe, false)...)
	}
	if !last {
		w = append(w, k.boundary(iseg+1, line).Orb())
	}
	return w
}

// spatialSegment resamples segment iseg of every keyframe in data to n
// points. Element i of the result holds the points of keyframe data[i].
func (r *run) spatialSegment(root *curveLink, iseg, n int, last bool, data []int) ([][]linktween.Pair, error) {
	out := make([][]linktween.Pair, len(data))
	opts := r.cfg.options(false)
	for i, ikey := range data {
		k := &root.keys[ikey]
		w := k.segmentLine(r.table.line(k.ref), iseg, last)
		rs, stats, err := polyline.ResampleToCount(w, n, opts)
		if err != nil {
			return nil, fmt.Errorf("segment %d of key %d: %w", iseg, ikey, err)
		}
		if !stats.Converged {
			r.report.warn(ResampleNotConverged, root.ichain, ikey, r.keys[ikey].Time,
				"segment %d: resolution search for %d points unsettled after %d iterations", iseg, n, stats.Iterations)
		}
		out[i] = rs.Pairs()
	}
	return out, nil
}

// resolution derives the display resolution of a component from the
// smallest mean point spacing of its keyframe lines. Resolutions below 10
// are rounded, larger ones are rounded to multiples of 5.
func (r *run) resolution(root *curveLink, data []int) float64 {
	minlen := math.Inf(1)
	for _, ikey := range data {
		line := r.table.line(root.keys[ikey].ref)
		if line.N() < 2 {
			continue
		}
		minlen = math.Min(minlen, line.Length()/float64(line.N()-1))
	}
	if math.IsInf(minlen, 1) {
		minlen = 0
	}
	res := minlen * r.cfg.ResolutionFactor
	switch {
	case res < r.cfg.MinResolution:
		res = r.cfg.MinResolution
	case res < 10:
		res = math.Round(res)
	default:
		res = math.Round(res/5) * 5
	}
	return res
}
