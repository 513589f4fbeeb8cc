package interp

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/linktween"
)

// controlEntry is the position a link chain takes at an inbetween time.
// link is the ordinal of the chain within its component, 0 for the root.
type controlEntry struct {
	pos  linktween.Pair
	link int
}

// controlSlot holds the entries of one inbetween time. A slot is there if
// at least one of its entries comes from a control node.
type controlSlot struct {
	there   bool
	entries []controlEntry
}

// controlList maps every inbetween time of the axis to its slot.
type controlList struct {
	slots *treemap.Map // int time -> *controlSlot
	ncont int          // number of slots which are there
}

// buildControlList creates the control list of chain ich. Every inbetween
// time starts with the chain's interpolated node, if any. A control node
// replaces the position of the interpolated node at its time; control nodes
// off the grid or without an interpolated node are dropped.
func buildControlList(ch *LinkChain, ich int, axis Axis, rep *Report) *controlList {
	cl := &controlList{slots: treemap.NewWithIntComparator()}
	for k := 0; k < axis.Count; k++ {
		t := axis.Time(k)
		slot := &controlSlot{}
		if n, ok := ch.nodeAt(InterpolatedNode, t); ok {
			slot.entries = []controlEntry{{pos: n.Pos, link: 0}}
		}
		cl.slots.Put(t, slot)
	}
	for _, n := range ch.Nodes {
		if n.Kind != ControlNode || !n.There {
			continue
		}
		v, found := cl.slots.Get(n.Time)
		if !found {
			rep.warn(ControlOffGrid, ich, -1, n.Time, "unmatched control node")
			continue
		}
		slot := v.(*controlSlot)
		if len(slot.entries) != 1 {
			rep.warn(ControlUninterpolated, ich, -1, n.Time, "uninterpolated control node")
			continue
		}
		if !slot.there {
			slot.there = true
			cl.ncont++
		}
		slot.entries[0].pos = n.Pos
	}
	return cl
}

// merge appends the entries of other to cl, tagged with link.
func (cl *controlList) merge(other *controlList, link int) {
	if other == nil || cl.slots.Size() != other.slots.Size() {
		return
	}
	it := other.slots.Iterator()
	for it.Next() {
		os := it.Value().(*controlSlot)
		if len(os.entries) == 0 {
			continue
		}
		v, ok := cl.slots.Get(it.Key())
		if !ok {
			continue
		}
		slot := v.(*controlSlot)
		if !slot.there && os.there {
			slot.there = true
			cl.ncont++
		}
		for _, e := range os.entries {
			slot.entries = append(slot.entries, controlEntry{pos: e.pos, link: link})
		}
	}
}

// controlTimes returns the times of the slots which are there, ascending.
func (cl *controlList) controlTimes() []int {
	var times []int
	it := cl.slots.Iterator()
	for it.Next() {
		if it.Value().(*controlSlot).there {
			times = append(times, it.Key().(int))
		}
	}
	return times
}

// at returns the slot at time t.
func (cl *controlList) at(t int) *controlSlot {
	if v, ok := cl.slots.Get(t); ok {
		return v.(*controlSlot)
	}
	return nil
}

// target returns the first position of link in the slot.
func (s *controlSlot) target(link int) (linktween.Pair, bool) {
	for _, e := range s.entries {
		if e.link == link {
			return e.pos, true
		}
	}
	return linktween.Origin, false
}
