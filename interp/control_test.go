package interp

import (
	"context"
	"strings"
	"testing"

	"github.com/npillmayer/linktween"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interpolated(t int, x, y float64) Node {
	return Node{Time: t, Kind: InterpolatedNode, There: true, Attach: -1, Pos: linktween.P(x, y)}
}

func control(t int, x, y float64) Node {
	return Node{Time: t, Kind: ControlNode, There: true, Attach: -1, Pos: linktween.P(x, y)}
}

func TestBuildControlList(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	ch := &LinkChain{Nodes: []Node{
		interpolated(15, 10, 10),
		interpolated(30, 20, 20),
		control(30, 25, 20),
		control(30, 27, 20),
		control(45, 30, 30),
		control(20, 40, 40),
	}}
	rep := &Report{}
	cl := buildControlList(ch, 0, Axis{First: 0, Step: 15, Count: 5}, rep)
	assert.Equal(t, 5, cl.slots.Size())
	assert.Equal(t, 1, cl.ncont)
	assert.Equal(t, []int{30}, cl.controlTimes())
	slot := cl.at(30)
	require.NotNil(t, slot)
	require.Len(t, slot.entries, 1)
	assert.Equal(t, linktween.P(27, 20), slot.entries[0].pos)
	assert.False(t, cl.at(15).there)
	assert.Equal(t, 1, rep.Count(ControlUninterpolated))
	assert.Equal(t, 1, rep.Count(ControlOffGrid))
	assert.Nil(t, cl.at(20))
}

func TestMergeControlLists(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	axis := Axis{First: 0, Step: 15, Count: 5}
	rep := &Report{}
	root := buildControlList(&LinkChain{Nodes: []Node{
		interpolated(30, 200, 200), control(30, 200, 220),
	}}, 0, axis, rep)
	member := buildControlList(&LinkChain{Nodes: []Node{
		interpolated(30, 800, 200), interpolated(45, 800, 250), control(45, 800, 270),
	}}, 1, axis, rep)
	root.merge(member, 1)
	assert.Equal(t, 2, root.ncont)
	assert.Equal(t, []int{30, 45}, root.controlTimes())
	p, ok := root.at(30).target(0)
	assert.True(t, ok)
	assert.Equal(t, linktween.P(200, 220), p)
	p, ok = root.at(30).target(1)
	assert.True(t, ok)
	assert.Equal(t, linktween.P(800, 200), p)
	_, ok = root.at(45).target(0)
	assert.False(t, ok)
	p, _ = root.at(45).target(1)
	assert.Equal(t, linktween.P(800, 270), p)
	//
	other := buildControlList(&LinkChain{}, 2, Axis{First: 0, Step: 15, Count: 3}, rep)
	root.merge(other, 2)
	assert.Equal(t, 2, root.ncont, "lists on different axes are not merged")
	assert.Empty(t, rep.Diagnostics)
}

func TestControlOffsetsTaper(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	pts := make([]linktween.Pair, 9)
	for i := range pts {
		pts[i] = linktween.P(float64(i), 0)
	}
	slot := &controlSlot{there: true, entries: []controlEntry{
		{pos: pts[3], link: 0},
		{pos: pts[6] + linktween.P(0, 6), link: 1},
	}}
	offsets := controlOffsets(slot, pts, []int{0, 1, 2}, []int{3, 3, 3})
	want := []float64{0, 0, 0, 0, 3, 6, 6, 6, 6}
	require.Len(t, offsets, len(want))
	for i, y := range want {
		assert.InDelta(t, 0, offsets[i].X(), 1e-12, "point %d", i)
		assert.InDelta(t, y, offsets[i].Y(), 1e-12, "point %d", i)
	}
	//
	none := controlOffsets(&controlSlot{}, pts, []int{0, 1, 2}, []int{3, 3, 3})
	for i := range none {
		assert.Equal(t, linktween.Origin, none[i])
	}
}

func TestControlOutsideRangeIsDropped(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	store := twoKeyStore()
	store.Frames = append(store.Frames, keyframe(90, straight(500, false)))
	store.Chains[0].Nodes = append(store.Chains[0].Nodes, interpolated(75, 300, 400), control(75, 300, 450))
	field := testField(7)
	sink := NewMemorySink()
	report, err := NewEngine(store, sink).Interpolate(context.Background(), field, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(ControlOffGrid))
	assert.Zero(t, report.Count(ComponentFailed))
	assert.Equal(t, 5, report.Curves)
	assert.Nil(t, sink.Frame(5).Curves, "slot past the chain's last node stays empty")
}

func TestReportText(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	rep := &Report{Components: 2, Curves: 7}
	rep.warn(NoLine, 1, -1, 30, "no line after resplining %d points", 3)
	assert.Equal(t, 1, rep.Count(NoLine))
	s := rep.String()
	assert.True(t, strings.HasPrefix(s, "2 components, 7 curves"), s)
	assert.Contains(t, s, "no-line [link 1, key -1, T30]: no line after resplining 3 points")
	assert.Equal(t, "DiagnosticKind(99)", DiagnosticKind(99).String())
}
