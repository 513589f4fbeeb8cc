package interp

import (
	"github.com/npillmayer/linktween"
	"github.com/npillmayer/linktween/polyline"
)

// curveRef is a stable handle of a keyframe curve. The zero value is not a
// valid handle; use noCurve.
type curveRef struct {
	key, index int
}

var noCurve = curveRef{key: -1, index: -1}

func (ref curveRef) valid() bool {
	return ref.index >= 0
}

// keyTable resolves curve handles for the keyframes of a run.
type keyTable struct {
	curves [][]*Curve
}

func newKeyTable(keys []Keyframe) keyTable {
	t := keyTable{curves: make([][]*Curve, len(keys))}
	for i := range keys {
		t.curves[i] = keys[i].Curves
	}
	return t
}

// resolve returns the handle of curve index in keyframe key, if that curve
// exists and has a line.
func (t keyTable) resolve(key, index int) (curveRef, bool) {
	if key < 0 || key >= len(t.curves) || index < 0 || index >= len(t.curves[key]) {
		return noCurve, false
	}
	c := t.curves[key][index]
	if c == nil || len(c.Line) == 0 {
		return noCurve, false
	}
	return curveRef{key: key, index: index}, true
}

func (t keyTable) curve(ref curveRef) *Curve {
	if !ref.valid() {
		return nil
	}
	return t.curves[ref.key][ref.index]
}

func (t keyTable) line(ref curveRef) polyline.Line {
	if c := t.curve(ref); c != nil {
		return c.Line
	}
	return nil
}

// segment is a boundary of a keyframe curve: arc position span, boundary
// point pt and stable identity id. The first curve link of a component
// creates segments 0 (start of line) and 1 (its link node); every further
// member inserts the next identity.
type segment struct {
	id   int
	span float64
	pt   linktween.Pair
}

// linkKey is the state of a curve link at one keyframe.
type linkKey struct {
	ref   curveRef       // curve, possibly shared from a sibling
	link  bool           // chain has a normal node on the curve here
	pos   linktween.Pair // position of that node
	segs  []segment
	flip  bool // reverse the line to follow the component's direction
	sense Hand
}

// curveLink is the per-run record of one link chain.
type curveLink struct {
	ichain       int
	skey, ekey   int // active keyframe range, -1 if never active
	splus, eplus int // early start and late end
	icom         int // index of the root of the component
	common       []int
	keys         []linkKey
	ctrl         *controlList
}

func (c *curveLink) isRoot() bool {
	return c.icom == c.ichain
}

func (c *curveLink) active() bool {
	return c.skey >= 0 && c.ekey >= c.skey
}

// buildCurveLinks creates a curve link for every chain. A chain is linked at
// a keyframe if it has a normal node there which attaches to an existing
// curve of that keyframe.
func (r *run) buildCurveLinks() []*curveLink {
	links := make([]*curveLink, len(r.chains))
	for ich := range r.chains {
		ch := &r.chains[ich]
		c := &curveLink{
			ichain: ich,
			skey:   -1,
			ekey:   -1,
			icom:   ich,
			keys:   make([]linkKey, len(r.keys)),
			ctrl:   buildControlList(ch, ich, r.field.Axis, r.report),
		}
		for ikey := range r.keys {
			k := &c.keys[ikey]
			k.ref = noCurve
			k.sense = Right
			node, ok := ch.nodeAt(NormalNode, r.keys[ikey].Time)
			if !ok || !node.There {
				continue
			}
			ref, ok := r.table.resolve(ikey, node.Attach)
			if !ok {
				tracer().Debugf("link %d: node at T%d attaches to no curve (%d)", ich, node.Time, node.Attach)
				continue
			}
			k.ref, k.link, k.pos = ref, true, node.Pos
			if c.skey < 0 {
				c.skey = ikey
			}
			c.ekey = ikey
		}
		if rng, ok := ch.activeRange(); ok {
			c.splus, c.eplus = rng.Start, rng.End
		} else if c.active() {
			c.splus, c.eplus = r.keys[c.skey].Time, r.keys[c.ekey].Time
		}
		tracer().Debugf("link %d: keys %d..%d, T%d..T%d", ich, c.skey, c.ekey, c.splus, c.eplus)
		links[ich] = c
	}
	return links
}

// members returns the curve links merged into root, in chain order,
// without root.
func members(links []*curveLink, root *curveLink) []*curveLink {
	var m []*curveLink
	for _, b := range links {
		if b != root && b.icom == root.ichain {
			m = append(m, b)
		}
	}
	return m
}

// spanOf returns the fractional span position of p on line.
func spanOf(line polyline.Line, p linktween.Pair) float64 {
	_, _, span := line.Closest(p)
	return span
}

// arcTo returns the arc length from the start of line to the point closest
// to p, and the length of line.
func arcTo(line polyline.Line, p linktween.Pair) (slen, length float64) {
	length = line.Length()
	slen = line.SpanLength(0, spanOf(line, p))
	return
}
