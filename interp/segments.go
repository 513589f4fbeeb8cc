package interp

import (
	"slices"

	"github.com/npillmayer/linktween"
	"github.com/npillmayer/linktween/polyline"
)

// end is the span position where the oriented line ends.
func (k *linkKey) end(np int) float64 {
	if k.flip {
		return 0
	}
	return float64(np - 1)
}

// endPoint is the point where the oriented line ends.
func (k *linkKey) endPoint(line polyline.Line) linktween.Pair {
	if k.flip {
		return line.First()
	}
	return line.Last()
}

// bounds returns the span positions of the start and end of segment i. last
// marks the final segment of the component, which runs to the end of the
// line. Segment indices past the keyframe's own segments collapse to the
// end of the line.
func (k *linkKey) bounds(i int, last bool, np int) (dss, dse float64) {
	e := k.end(np)
	if i >= len(k.segs) {
		return e, e
	}
	dss = k.segs[i].span
	if last || i+1 >= len(k.segs) {
		return dss, e
	}
	return dss, k.segs[i+1].span
}

// boundary is the start point of segment i, or the end of the line.
func (k *linkKey) boundary(i int, line polyline.Line) linktween.Pair {
	if i >= len(k.segs) {
		return k.endPoint(line)
	}
	return k.segs[i].pt
}

// containing returns the segment whose span range holds span.
func (k *linkKey) containing(span float64, np int) int {
	n := len(k.segs)
	for iseg := 0; iseg < n-1; iseg++ {
		dss, dse := k.segs[iseg].span, k.segs[iseg+1].span
		if k.flip {
			if dse <= span && span < dss {
				return iseg
			}
		} else if dss <= span && span < dse {
			return iseg
		}
	}
	return max(n-1, 0)
}

// afterNext is the span position of the boundary following segment i+1.
func (k *linkKey) afterNext(i, np int) float64 {
	if i+2 < len(k.segs) {
		return k.segs[i+2].span
	}
	return k.end(np)
}

func (k *linkKey) insert(at int, s segment) {
	k.segs = slices.Insert(k.segs, at, s)
}

// base creates the two initial segments: start of the oriented line to the
// boundary at span, and from there to the end.
func (k *linkKey) base(line polyline.Line, span float64, pt linktween.Pair) {
	np := line.N()
	start := segment{id: 0, span: 0, pt: line.First()}
	if k.flip {
		start = segment{id: 0, span: float64(np - 1), pt: line.Last()}
	}
	k.segs = []segment{start, {id: 1, span: span, pt: pt}}
}

// relative is the position of span along the oriented line, in [0,1].
func relative(span float64, np int, flip bool) float64 {
	if np < 2 {
		return 0
	}
	if flip {
		return (float64(np-1) - span) / float64(np-1)
	}
	return span / float64(np-1)
}

// initSegments creates two segments per keyframe from the root's own link
// nodes. Keyframes where the root has a shared curve but no link node get a
// pseudo boundary at the relative position of the nearest earlier link
// node, or of the first link node for keyframes before it.
func (r *run) initSegments(root *curveLink) {
	extrev := false
	rel := -1.0
	for ikey := range root.keys {
		k := &root.keys[ikey]
		if k.link {
			line := r.table.line(k.ref)
			span := spanOf(line, k.pos)
			k.base(line, span, k.pos)
			rel = relative(span, line.N(), k.flip)
			if !extrev {
				for jkey := 0; jkey < ikey; jkey++ {
					r.pseudoBase(&root.keys[jkey], rel)
				}
				extrev = true
			}
		} else if rel >= 0 {
			r.pseudoBase(k, rel)
		}
	}
}

func (r *run) pseudoBase(k *linkKey, rel float64) {
	if !k.ref.valid() {
		return
	}
	line := r.table.line(k.ref)
	span := float64(line.N()-1) * rel
	k.base(line, span, line.PointAt(span))
}

// splitSegments inserts the link nodes of every member into the root's
// segments. The node splits the segment which contains it; the new boundary
// gets the next free identity. Keyframes where the member is not linked get
// a pseudo boundary at the same relative position within the split
// segment, taken from the nearest earlier split, or the first split for
// keyframes before it.
func (r *run) splitSegments(root *curveLink, mem []*curveLink) {
	root.common = root.common[:0]
	for _, b := range mem {
		root.common = append(root.common, b.ichain)
		extrev := false
		rel, rseg, rflip := -1.0, 0, false
		for ikey := range root.keys {
			k, bk := &root.keys[ikey], &b.keys[ikey]
			if bk.link {
				if bk.ref != k.ref || len(k.segs) == 0 {
					continue
				}
				line := r.table.line(k.ref)
				np := line.N()
				span := min(spanOf(line, bk.pos), float64(np-1))
				iseg := k.containing(span, np)
				k.insert(iseg+1, segment{id: len(k.segs), span: span, pt: bk.pos})
				dss, dse := k.segs[iseg].span, k.afterNext(iseg, np)
				var dtop, dbot float64
				if k.flip {
					dtop, dbot = span-dse, dss-dse
				} else {
					dtop, dbot = span-dss, dse-dss
				}
				rel = 0
				if dbot > 0 {
					rel = dtop / dbot
				}
				rseg, rflip = iseg, k.flip
				if !extrev {
					for jkey := 0; jkey < ikey; jkey++ {
						r.pseudoSplit(&root.keys[jkey], rseg, rel, rflip)
					}
					extrev = true
				}
			} else if rel >= 0 {
				r.pseudoSplit(k, rseg, rel, rflip)
			}
		}
		tracer().Debugf("link %d: member %d splits segments", root.ichain, b.ichain)
	}
}

func (r *run) pseudoSplit(k *linkKey, rseg int, rel float64, rflip bool) {
	if !k.ref.valid() || len(k.segs) == 0 {
		return
	}
	line := r.table.line(k.ref)
	np := line.N()
	rseg = min(rseg, len(k.segs)-1)
	k.insert(rseg+1, segment{id: len(k.segs)})
	dss, dse := k.segs[rseg].span, k.afterNext(rseg, np)
	var span float64
	if k.flip {
		dbot := dss - dse
		if rflip {
			span = dbot*rel + dse
		} else {
			span = dbot*(1-rel) + dse
		}
	} else {
		dbot := dse - dss
		if rflip {
			span = dbot*(1-rel) + dss
		} else {
			span = dbot*rel + dss
		}
	}
	span = linktween.Clamp(span, 0, float64(np-1))
	k.segs[rseg+1].span = span
	k.segs[rseg+1].pt = line.PointAt(span)
}

// checkSegments compares the segments of every linked keyframe of root with
// the first linked keyframe. Differences in count or identity order are
// reported; the segments are used as they are.
func (r *run) checkSegments(root *curveLink) int {
	first := -1
	problems := 0
	for ikey := range root.keys {
		k := &root.keys[ikey]
		if !k.link {
			continue
		}
		if first < 0 {
			first = ikey
			continue
		}
		ref := &root.keys[first]
		if len(k.segs) != len(ref.segs) {
			r.report.warn(SegmentCountMismatch, root.ichain, ikey, r.keys[ikey].Time,
				"inconsistent number of curve links: %d:%d %d:%d", first, len(ref.segs), ikey, len(k.segs))
			problems++
			continue
		}
		for iseg := range k.segs {
			if k.segs[iseg].id != ref.segs[iseg].id {
				r.report.warn(SegmentOrderMismatch, root.ichain, ikey, r.keys[ikey].Time,
					"inconsistent curve link order: %d:%d %d:%d", first, ref.segs[iseg].id, ikey, k.segs[iseg].id)
				problems++
				break
			}
		}
	}
	return problems
}

// segmentIDs returns the identities of the segments of k.
func (k *linkKey) segmentIDs() []int {
	ids := make([]int, len(k.segs))
	for i, s := range k.segs {
		ids[i] = s.id
	}
	return ids
}
