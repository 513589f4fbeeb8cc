package interp

// orientation is the reference direction of a component.
type orientation struct {
	sense   Hand
	atstart bool // reference link node lies in the first half of its line
	key     int  // reference keyframe, -1 if the component is never linked
}

// symmetric asks the pattern table about the pattern of c. Unknown patterns
// are symmetric.
func (r *run) symmetric(c *Curve) bool {
	if r.patterns == nil {
		return true
	}
	sym, known := r.patterns.IsSymmetric(c.Style.Pattern)
	return !known || sym
}

// reference chooses the reference direction of root. The first linked
// keyframe in time order with an asymmetric pattern wins. Without one, the
// first linked keyframe is used. The reference records on which half of
// the line the link node lies and, for asymmetric patterns, the curve's
// sense.
func (r *run) reference(root *curveLink) orientation {
	o := orientation{sense: Right, atstart: true, key: -1}
	first := true
	for ikey := range root.keys {
		k := &root.keys[ikey]
		if !k.link {
			continue
		}
		line := r.table.line(k.ref)
		slen, length := arcTo(line, k.pos)
		curve := r.table.curve(k.ref)
		if !r.symmetric(curve) {
			o.key = ikey
			if curve.Sense != Right {
				o.sense = Left
			}
			o.atstart = slen <= length/2
			break
		}
		if first {
			o.key = ikey
			o.atstart = slen <= length/2
			first = false
		}
	}
	return o
}

// orientComponent decides for every keyframe whether the root's line has to
// be reversed to follow the reference direction. In keyframes where a member
// is linked to the same curve, the order of both link nodes along the line
// decides. Otherwise an asymmetric curve compares its sense with the
// reference sense, and a symmetric curve compares the half of the line its
// link node lies on with the reference half.
func (r *run) orientComponent(root *curveLink, mem []*curveLink) orientation {
	o := r.reference(root)
	tracer().Debugf("link %d: reference key %d, sense %s, at start %v", root.ichain, o.key, o.sense, o.atstart)
	for ikey := range root.keys {
		k := &root.keys[ikey]
		k.flip = false
		k.sense = o.sense
		if !k.link {
			continue
		}
		line := r.table.line(k.ref)
		oriented := false
		for _, b := range mem {
			bk := &b.keys[ikey]
			if !bk.link || bk.ref != k.ref {
				continue
			}
			si, sj := spanOf(line, k.pos), spanOf(line, bk.pos)
			if o.atstart {
				k.flip = si > sj
			} else {
				k.flip = si < sj
			}
			oriented = true
			break
		}
		if oriented {
			continue
		}
		curve := r.table.curve(k.ref)
		if !r.symmetric(curve) {
			k.flip = (o.sense == Right) != (curve.Sense == Right)
			continue
		}
		slen, length := arcTo(line, k.pos)
		k.flip = (o.atstart && slen > length/2) || (!o.atstart && slen <= length/2)
	}
	return o
}
