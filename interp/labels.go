package interp

import (
	"math"

	"github.com/npillmayer/linktween"
)

// closestCurve returns the index of the curve nearest to p, or -1. Ties go
// to the earlier curve.
func closestCurve(curves []*Curve, p linktween.Pair) int {
	best, dmin := -1, math.Inf(1)
	for i, c := range curves {
		if c == nil || len(c.Line) == 0 {
			continue
		}
		if d, _, _ := c.Line.Closest(p); d < dmin {
			best, dmin = i, d
		}
	}
	return best
}

// labelsOnCurve returns the labels of the keyframe of ref whose nearest
// curve is the curve of ref.
func (r *run) labelsOnCurve(ref curveRef) []*Label {
	if !ref.valid() {
		return nil
	}
	key := &r.keys[ref.key]
	var labels []*Label
	for _, l := range key.Labels {
		if l == nil {
			continue
		}
		if closestCurve(key.Curves, l.Anchor) == ref.index {
			labels = append(labels, l)
		}
	}
	return labels
}

// labelMotion moves labels with the centroid of the blended points. The
// reference centroid is that of the slot of the style keyframe; it is
// recomputed only when the reference slot changes.
type labelMotion struct {
	ref  int
	kbar linktween.Pair
}

func newLabelMotion() *labelMotion {
	return &labelMotion{ref: -1}
}

// offset returns the label displacement at slot, given the blended points
// of all slots from smin on.
func (m *labelMotion) offset(slot, ref, smin int, blended [][]linktween.Pair) linktween.Pair {
	if ref == slot {
		return linktween.Origin
	}
	if ref != m.ref {
		m.ref = ref
		m.kbar = linktween.Centroid(blended[ref-smin])
	}
	return linktween.Centroid(blended[slot-smin]) - m.kbar
}

func shiftedLabels(labels []*Label, d linktween.Pair) []*Label {
	out := make([]*Label, len(labels))
	for i, l := range labels {
		out[i] = l.Shifted(d)
	}
	return out
}
