package interp

// mergeCommonLinks merges curve links which share their curve.
//
// Link b joins the component of an earlier root link c if, in every
// keyframe where both have a curve, the curves are the same and the two
// links are not merely meeting at joined line ends: one ending where the
// other begins. Candidates are always compared against the root, never
// against members merged before. A merge widens the root's ranges, hands
// b's control entries to the root under b's ordinal and shares curves
// between keyframes where only one of the two has one.
func mergeCommonLinks(links []*curveLink) {
	nkeys := 0
	if len(links) > 0 {
		nkeys = len(links[0].keys)
	}
	for _, c := range links {
		if !c.isRoot() {
			continue
		}
		ilink := 0
		for _, b := range links[c.ichain+1:] {
			if b.icom != b.ichain {
				continue
			}
			if !common(c, b, nkeys) {
				continue
			}
			b.icom = c.icom
			c.skey = minKey(c.skey, b.skey)
			c.ekey = max(c.ekey, b.ekey)
			c.splus = min(c.splus, b.splus)
			c.eplus = max(c.eplus, b.eplus)
			ilink++
			c.ctrl.merge(b.ctrl, ilink)
			for ikey := 0; ikey < nkeys; ikey++ {
				ck, bk := &c.keys[ikey], &b.keys[ikey]
				if !ck.ref.valid() && bk.ref.valid() {
					ck.link, ck.ref = false, bk.ref
				} else if !bk.ref.valid() && ck.ref.valid() {
					bk.link, bk.ref = false, ck.ref
				}
			}
			tracer().Debugf("link %d joins link %d as member %d", b.ichain, c.ichain, ilink)
		}
	}
}

// common reports whether c and b share their curve.
func common(c, b *curveLink, nkeys int) bool {
	found := false
	for ikey := 0; ikey < nkeys; ikey++ {
		ck, bk := &c.keys[ikey], &b.keys[ikey]
		if !ck.ref.valid() || !bk.ref.valid() {
			continue
		}
		if ck.ref != bk.ref {
			return false
		}
		if ikey > 0 && ikey < nkeys-1 {
			cPrev, cNext := c.keys[ikey-1].link, c.keys[ikey+1].link
			bPrev, bNext := b.keys[ikey-1].link, b.keys[ikey+1].link
			if cPrev && !cNext && !bPrev && bNext {
				return false
			}
			if !cPrev && cNext && bPrev && !bNext {
				return false
			}
		}
		found = true
	}
	return found
}

// minKey is the smaller of two key indices, where -1 means none.
func minKey(a, b int) int {
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	}
	return min(a, b)
}
