package interp

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/linktween"
	"github.com/npillmayer/linktween/tween"
)

// blendComponent interpolates every point of the keyframe values vals,
// given at keyTimes, to the inbetween times. Element s of the result holds
// the points at times[s]. A single keyframe is replicated.
func (r *run) blendComponent(keyTimes []float64, vals [][]linktween.Pair, times []float64) [][]linktween.Pair {
	out := make([][]linktween.Pair, len(times))
	if len(vals) == 0 {
		return out
	}
	nspts := len(vals[0])
	for s := range out {
		out[s] = make([]linktween.Pair, nspts)
	}
	if len(keyTimes) <= 1 {
		for s := range out {
			copy(out[s], vals[0])
		}
		return out
	}
	params := r.cfg.params()
	track := make([]linktween.Pair, len(keyTimes))
	for isp := 0; isp < nspts; isp++ {
		for i := range keyTimes {
			track[i] = vals[i][isp]
		}
		blended := tween.QuasiLinear(keyTimes, track, times, params)
		for s := range out {
			out[s][isp] = blended[s]
		}
	}
	return out
}

// applyControls merges the keyframes of a component with its control
// times. The values at a control time are the blended points at that time,
// moved by the control offsets. Keyframe values win over controls at the
// same time. Controls outside the blended slots are dropped.
func (r *run) applyControls(root *curveLink, data []int, keyTimes []float64, vals [][]linktween.Pair,
	blended [][]linktween.Pair, smin int, npseg []int) ([]float64, [][]linktween.Pair) {
	merged := treemap.NewWithIntComparator()
	for i := range data {
		merged.Put(int(keyTimes[i]), vals[i])
	}
	ids := root.keys[data[0]].segmentIDs()
	emax := smin + len(blended) - 1
	for _, t := range root.ctrl.controlTimes() {
		slot, _ := r.field.Axis.Slot(t)
		if slot < smin || slot > emax {
			r.report.warn(ControlOffGrid, root.ichain, -1, t, "control node outside of interpolated range")
			continue
		}
		if _, isKey := merged.Get(t); isKey {
			continue
		}
		pts := make([]linktween.Pair, len(blended[slot-smin]))
		copy(pts, blended[slot-smin])
		offsets := controlOffsets(root.ctrl.at(t), pts, ids, npseg)
		for isp := range pts {
			pts[isp] += offsets[isp]
		}
		tracer().Debugf("link %d: control at T%d", root.ichain, t)
		merged.Put(t, pts)
	}
	if want := len(data) + root.ctrl.ncont; merged.Size() != want {
		r.report.warn(TooFewControlPoints, root.ichain, -1, -1, "too few link points: %d %d", merged.Size(), want)
	}
	times := make([]float64, 0, merged.Size())
	out := make([][]linktween.Pair, 0, merged.Size())
	it := merged.Iterator()
	for it.Next() {
		times = append(times, float64(it.Key().(int)))
		out = append(out, it.Value().([]linktween.Pair))
	}
	return times, out
}

// controlOffsets computes the displacement of every point at a control
// slot. Segment iseg with identity id is pinned by the entry of member
// id-1: its offset is the entry's position minus the segment's first point.
// Within a segment the offset runs linearly from the segment's own offset
// to that of the following segment. The first segment takes the offset of
// the second one throughout, the last segment keeps its own.
func controlOffsets(slot *controlSlot, pts []linktween.Pair, ids []int, npseg []int) []linktween.Pair {
	nseg, nspts := len(npseg), len(pts)
	dseg := make([]linktween.Pair, nseg)
	ipseg := 0
	for iseg := 0; iseg < nseg; iseg++ {
		if iseg < len(ids) && slot != nil {
			if target, ok := slot.target(ids[iseg] - 1); ok {
				dseg[iseg] = target - pts[ipseg]
			}
		}
		ipseg += npseg[iseg]
	}
	offsets := make([]linktween.Pair, nspts)
	ipseg = 0
	for iseg := 0; iseg < nseg; iseg++ {
		ips, ipe := ipseg, ipseg+npseg[iseg]-1
		if iseg == 0 {
			ips = 0
		}
		if iseg == nseg-1 {
			ipe = nspts - 1
		}
		d0, d1 := dseg[iseg], dseg[iseg]
		if iseg == 0 && nseg > 1 {
			d0 = dseg[1]
		}
		if iseg < nseg-1 {
			d1 = dseg[iseg+1]
		}
		idx := make([]float64, ipe-ips+1)
		for i := range idx {
			idx[i] = float64(ips + i)
		}
		d := tween.PieceWise([]float64{float64(ips), float64(ipe)}, []linktween.Pair{d0, d1}, idx)
		copy(offsets[ips:], d)
		ipseg += npseg[iseg]
	}
	return offsets
}
