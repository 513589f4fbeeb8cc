package interp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/npillmayer/linktween"
	"github.com/npillmayer/linktween/polyline"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// straight is a line of 21 points from (100,y) to (900,y), 40 units apart.
func straight(y float64, reversed bool) polyline.Line {
	pts := make([]linktween.Pair, 21)
	for i := range pts {
		pts[i] = linktween.P(100+40*float64(i), y)
	}
	l := polyline.New(pts...)
	if reversed {
		return l.Reversed()
	}
	return l
}

// arc is the upper half of a circle of radius r around (500,500) with n
// points, running from (500-r,500) to (500+r,500).
func arc(r float64, n int, reversed bool) polyline.Line {
	pts := make([]linktween.Pair, n)
	for i := range pts {
		a := math.Pi * float64(i) / float64(n-1)
		pts[i] = linktween.P(500-r*math.Cos(a), 500+r*math.Sin(a))
	}
	l := polyline.New(pts...)
	if reversed {
		return l.Reversed()
	}
	return l
}

func keyframe(t int, lines ...polyline.Line) Keyframe {
	k := Keyframe{
		Time:         t,
		There:        true,
		Presentation: Presentation{"background": fmt.Sprintf("T%d", t)},
	}
	for _, l := range lines {
		k.Curves = append(k.Curves, &Curve{
			Line:       l,
			Style:      Style{Pattern: "front", Colour: "blue", Width: 2},
			Attributes: Attributes{"type": "cold"},
		})
	}
	return k
}

func normal(t, attach int, x, y float64) Node {
	return Node{Time: t, Kind: NormalNode, There: true, Attach: attach, Pos: linktween.P(x, y)}
}

func testField(count int) *Field {
	return &Field{
		Element: "fronts",
		Level:   "surface",
		Kind:    LineFeature,
		Linked:  true,
		Axis:    Axis{First: 0, Step: 15, Count: count},
	}
}

// twoKeyStore moves a straight line from y=100 at T0 to y=300 at T60.
func twoKeyStore() *MemoryStore {
	return &MemoryStore{
		Frames: []Keyframe{keyframe(60, straight(300, false)), keyframe(0, straight(100, false))},
		Chains: []LinkChain{{Nodes: []Node{normal(0, 0, 300, 100), normal(60, 0, 300, 300)}}},
	}
}

func TestInterpolateKeepsBoundariesAndStaysBetween(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	sink := NewMemorySink()
	e := NewEngine(twoKeyStore(), sink)
	field := testField(5)
	report, err := e.Interpolate(context.Background(), field, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Components)
	assert.Equal(t, 5, report.Curves)
	assert.True(t, field.Interpolated)
	assert.True(t, field.LabelsInterpolated)
	assert.Zero(t, report.Count(ComponentFailed))
	assert.Zero(t, report.Count(NoLine))
	assert.Zero(t, report.Count(Overshoot))
	for slot := 0; slot < 5; slot++ {
		f := sink.Frame(slot)
		require.NotNil(t, f, "slot %d", slot)
		require.Len(t, f.Curves, 1, "slot %d", slot)
		l := f.Curves[0].Line
		require.Greater(t, l.N(), 1)
		y := 100 + 50*float64(slot)
		assert.InDelta(t, 100, l.First().X(), 1e-6, "slot %d", slot)
		assert.InDelta(t, 900, l.Last().X(), 1e-6, "slot %d", slot)
		for i := 0; i < l.N(); i++ {
			p := l.At(i)
			assert.InDelta(t, y, p.Y(), 1e-6, "slot %d point %d", slot, i)
			assert.True(t, p.X() > 100-1e-6 && p.X() < 900+1e-6, "slot %d point %d off bounds: %v", slot, i, p)
			if slot > 0 && slot < 4 {
				assert.True(t, p.Y() > 100 && p.Y() < 300, "slot %d point %d not between keyframes", slot, i)
			}
		}
		box := polyline.Bounds(l)
		assert.True(t, box.Min.Y > 100-1e-6 && box.Max.Y < 300+1e-6, "slot %d overshoots the keyframes: %v", slot, box)
		assert.Equal(t, "blue", f.Curves[0].Style.Colour)
		assert.Equal(t, Right, f.Curves[0].Sense)
	}
	assert.Equal(t, "T0", sink.Frame(3).Presentation["background"])
	assert.Equal(t, "T60", sink.Frame(4).Presentation["background"])
}

func TestInterpolateIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	store := twoKeyStore()
	sink := NewMemorySink()
	e := NewEngine(store, sink)
	field := testField(5)
	require.True(t, e.InterpolateCurveField(context.Background(), field, false))
	writes := sink.Writes
	first := sink.Frame(2)
	require.True(t, e.InterpolateCurveField(context.Background(), field, false))
	assert.Equal(t, writes, sink.Writes, "second run should short-circuit")
	assert.Same(t, first, sink.Frame(2))
	//
	field.Interpolated, field.LabelsInterpolated = false, false
	again := NewMemorySink()
	e.Sink = again
	require.True(t, e.InterpolateCurveField(context.Background(), field, false))
	for slot := 0; slot < 5; slot++ {
		a, b := sink.Frame(slot).Curves[0].Line, again.Frame(slot).Curves[0].Line
		require.Equal(t, a.N(), b.N(), "slot %d", slot)
		for i := 0; i < a.N(); i++ {
			assert.InDelta(t, 0, linktween.Dist(a.At(i), b.At(i)), 1e-9)
		}
	}
}

func TestSingleKeyframeIsReplicated(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	k0 := keyframe(0, polyline.New(linktween.P(100, 100), linktween.P(300, 250), linktween.P(600, 180), linktween.P(900, 400)))
	k0.Labels = []*Label{{Anchor: linktween.P(310, 260), Text: "C"}}
	store := &MemoryStore{
		Frames: []Keyframe{k0, keyframe(60, straight(700, false))},
		Chains: []LinkChain{{
			Nodes: []Node{normal(0, 0, 300, 250)},
			Range: &TimeRange{Start: 0, End: 60},
		}},
	}
	sink := NewMemorySink()
	report, err := NewEngine(store, sink).Interpolate(context.Background(), testField(5), false)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Curves)
	orig := k0.Curves[0]
	for slot := 0; slot < 5; slot++ {
		f := sink.Frame(slot)
		require.NotNil(t, f)
		require.Len(t, f.Curves, 1)
		c := f.Curves[0]
		assert.Equal(t, orig.Line, c.Line, "slot %d", slot)
		assert.Equal(t, orig.Style, c.Style)
		assert.Equal(t, orig.Attributes, c.Attributes)
		require.Len(t, f.Labels, 1)
		assert.Equal(t, linktween.P(310, 260), f.Labels[0].Anchor)
	}
	sink.Frame(1).Curves[0].Attributes["type"] = "warm"
	assert.Equal(t, "cold", orig.Attributes["type"], "output must not alias keyframe attributes")
}

func TestControlNodePinsCurve(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	store := &MemoryStore{
		Frames: []Keyframe{keyframe(0, straight(100, false)), keyframe(60, straight(300, false))},
		Chains: []LinkChain{
			{Nodes: []Node{normal(0, 0, 200, 100), normal(60, 0, 200, 300)}},
			{Nodes: []Node{
				normal(0, 0, 800, 100),
				normal(60, 0, 800, 300),
				{Time: 30, Kind: InterpolatedNode, There: true, Attach: -1, Pos: linktween.P(800, 200)},
				{Time: 30, Kind: ControlNode, There: true, Attach: -1, Pos: linktween.P(800, 250)},
			}},
		},
	}
	sink := NewMemorySink()
	report, err := NewEngine(store, sink).Interpolate(context.Background(), testField(5), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Components)
	assert.Zero(t, report.Count(TooFewControlPoints))
	assert.Zero(t, report.Count(SegmentCountMismatch))
	//
	mid := sink.Frame(2).Curves[0].Line
	d, _, _ := mid.Closest(linktween.P(800, 250))
	assert.Less(t, d, 1.0, "curve at T30 misses the control position")
	for i := 0; i < mid.N(); i++ {
		p := mid.At(i)
		switch {
		case p.X() <= 150:
			assert.InDelta(t, 200, p.Y(), 1.0, "control leaks into first segment at %v", p)
		case p.X() >= 850:
			assert.InDelta(t, 250, p.Y(), 1.0, "last segment not moved at %v", p)
		}
	}
	for slot, y := range map[int]float64{0: 100, 4: 300} {
		l := sink.Frame(slot).Curves[0].Line
		for i := 0; i < l.N(); i++ {
			assert.InDelta(t, y, l.At(i).Y(), 1e-6, "control leaks into slot %d", slot)
		}
	}
}

func TestCurvedKeyframesWithFlip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	store := &MemoryStore{
		Frames: []Keyframe{keyframe(0, arc(300, 31, false)), keyframe(60, arc(200, 17, true))},
		Chains: []LinkChain{{Nodes: []Node{normal(0, 0, 500, 800), normal(60, 0, 500, 700)}}},
	}
	sink := NewMemorySink()
	report, err := NewEngine(store, sink).Interpolate(context.Background(), testField(5), false)
	require.NoError(t, err, report.String())
	assert.Equal(t, 5, report.Curves, report.String())
	assert.Zero(t, report.Count(ComponentFailed))
	assert.Zero(t, report.Count(SegmentCountMismatch))
	assert.Zero(t, report.Count(NoLine))
	assert.Zero(t, report.Count(Overshoot))
	for slot, r := range map[int]float64{0: 300, 4: 200} {
		l := sink.Frame(slot).Curves[0].Line
		for i := 0; i < l.N(); i++ {
			d := linktween.Dist(l.At(i), linktween.P(500, 500))
			assert.InDelta(t, r, d, 2.0, "slot %d point %d leaves the keyframe arc", slot, i)
		}
	}
	// the reversed keyframe runs in the direction of the first one
	starts := map[int]linktween.Pair{0: linktween.P(200, 500), 2: linktween.P(250, 500), 4: linktween.P(300, 500)}
	for slot, p := range starts {
		l := sink.Frame(slot).Curves[0].Line
		assert.InDelta(t, 0, linktween.Dist(p, l.First()), 1e-3, "slot %d starts at %v", slot, l.First())
		assert.InDelta(t, 0, linktween.Dist(p.Shifted(linktween.P(2*(500-p.X()), 0)), l.Last()), 1e-3,
			"slot %d ends at %v", slot, l.Last())
	}
	mid := sink.Frame(2).Curves[0].Line
	d, _, _ := mid.Closest(linktween.P(500, 750))
	assert.Less(t, d, 1.0, "linked point is not blended halfway")
	for i := 0; i < mid.N(); i++ {
		assert.Greater(t, mid.At(i).Y(), 500-2.0, "point %d below the chord", i)
	}
}

func TestChainRangeNarrowerThanKeyframes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	store := twoKeyStore()
	store.Chains[0].Range = &TimeRange{Start: 15, End: 45}
	sink := NewMemorySink()
	report, err := NewEngine(store, sink).Interpolate(context.Background(), testField(5), false)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Curves)
	assert.Zero(t, report.Count(FrameNotPrepared))
	for _, slot := range []int{0, 4} {
		require.NotNil(t, sink.Frame(slot), "slot %d is between the keyframes", slot)
		assert.Empty(t, sink.Frame(slot).Curves, "slot %d is outside the chain's range", slot)
	}
	for slot := 1; slot <= 3; slot++ {
		f := sink.Frame(slot)
		require.Len(t, f.Curves, 1, "slot %d", slot)
		l := f.Curves[0].Line
		assert.InDelta(t, 100+50*float64(slot), l.First().Y(), 1e-6, "slot %d", slot)
		assert.InDelta(t, 100, l.First().X(), 1e-6, "slot %d", slot)
		assert.InDelta(t, 900, l.Last().X(), 1e-6, "slot %d", slot)
	}
}

func TestOvershootIsReported(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	r := startAndEnd(false)
	root, _ := prepare(r)
	data := []int{0, 1, 2}
	assert.True(t, r.checkEnvelope(root, data, 1, straight(150, false), 10))
	assert.True(t, r.checkEnvelope(root, data, 2, straight(205, true), 10), "within slack of the keyframe at T30")
	assert.Empty(t, r.report.Diagnostics)
	//
	assert.False(t, r.checkEnvelope(root, data, 1, straight(260, false), 10))
	wide := polyline.New(linktween.P(40, 150), linktween.P(900, 150))
	assert.False(t, r.checkEnvelope(root, data, 3, wide, 10))
	require.Equal(t, 2, r.report.Count(Overshoot))
	d := r.report.Diagnostics[0]
	assert.Equal(t, 15, d.Time)
	assert.Equal(t, 0, d.Key)
	assert.Equal(t, 1, r.report.Diagnostics[1].Key)
	assert.Equal(t, "overshoot", Overshoot.String())
}

func TestUnattachedChainDoesNotStopRun(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	store := twoKeyStore()
	store.Chains = append(store.Chains, LinkChain{Nodes: []Node{
		normal(0, 3, 500, 500),
		{Time: 30, Kind: FloatingNode, There: true, Attach: -1, Pos: linktween.P(500, 500)},
		normal(60, -1, 500, 500),
	}})
	sink := NewMemorySink()
	report, err := NewEngine(store, sink).Interpolate(context.Background(), testField(5), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Components)
	assert.Equal(t, 5, report.Curves)
	assert.Zero(t, report.Count(ComponentFailed))
	for slot := 0; slot < 5; slot++ {
		assert.Len(t, sink.Frame(slot).Curves, 1)
	}
}

func TestLabelsFollowCurve(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	store := twoKeyStore()
	store.Frames[1].Labels = []*Label{{Anchor: linktween.P(500, 110), Text: "A"}}
	store.Frames[0].Labels = []*Label{{Anchor: linktween.P(500, 310), Text: "B"}}
	sink := NewMemorySink()
	_, err := NewEngine(store, sink).Interpolate(context.Background(), testField(5), false)
	require.NoError(t, err)
	want := map[int]linktween.Pair{
		0: linktween.P(500, 110),
		2: linktween.P(500, 210),
		4: linktween.P(500, 310),
	}
	for slot, p := range want {
		labels := sink.Frame(slot).Labels
		require.Len(t, labels, 1, "slot %d", slot)
		assert.InDelta(t, 0, linktween.Dist(p, labels[0].Anchor), 1e-6, "slot %d: %v", slot, labels[0].Anchor)
	}
	assert.Equal(t, "A", sink.Frame(3).Labels[0].Text)
	assert.Equal(t, "B", sink.Frame(4).Labels[0].Text)
}

func TestSlotsOutsideKeyframesAreCleared(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	sink := NewMemorySink()
	sink.Slots[5] = &Frame{Time: 75}
	field := testField(7)
	_, err := NewEngine(twoKeyStore(), sink).Interpolate(context.Background(), field, false)
	require.NoError(t, err)
	assert.Equal(t, 7, sink.Writes)
	assert.Nil(t, sink.Frame(5))
	assert.Nil(t, sink.Frame(6))
	assert.NotNil(t, sink.Frame(4))
}

type boomPatterns map[string]bool

func (b boomPatterns) IsSymmetric(pattern string) (bool, bool) {
	if pattern == "boom" {
		panic("pattern table corrupt")
	}
	sym, ok := b[pattern]
	return sym, ok
}

func TestComponentsAreIsolated(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	k0 := keyframe(0, straight(100, false), straight(600, false))
	k1 := keyframe(60, straight(300, false), straight(800, false))
	k0.Curves[1].Style.Pattern = "boom"
	store := &MemoryStore{
		Frames: []Keyframe{k0, k1},
		Chains: []LinkChain{
			{Nodes: []Node{normal(0, 0, 300, 100), normal(60, 0, 300, 300)}},
			{Nodes: []Node{normal(0, 1, 300, 600), normal(60, 1, 300, 800)}},
		},
	}
	sink := NewMemorySink()
	e := NewEngine(store, sink)
	e.Patterns = boomPatterns{"front": true}
	var progress []int
	e.Progress = func(field *Field, done, total int) {
		assert.Equal(t, 2, total)
		progress = append(progress, done)
	}
	report, err := e.Interpolate(context.Background(), testField(5), true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, progress)
	assert.Equal(t, 1, report.Count(ComponentFailed))
	assert.Equal(t, 1, report.Components)
	for slot := 0; slot < 5; slot++ {
		require.Len(t, sink.Frame(slot).Curves, 1)
		assert.InDelta(t, 100+50*float64(slot), sink.Frame(slot).Curves[0].Line.First().Y(), 1e-6)
	}
}

func TestTwoComponentsShareFrames(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	store := &MemoryStore{
		Frames: []Keyframe{
			keyframe(0, straight(100, false), straight(600, false)),
			keyframe(60, straight(300, false), straight(800, false)),
		},
		Chains: []LinkChain{
			{Nodes: []Node{normal(0, 0, 300, 100), normal(60, 0, 300, 300)}},
			{Nodes: []Node{normal(0, 1, 300, 600), normal(60, 1, 300, 800)}},
		},
	}
	sink := NewMemorySink()
	report, err := NewEngine(store, sink).Interpolate(context.Background(), testField(5), false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Components)
	assert.Equal(t, 10, report.Curves)
	f := sink.Frame(2)
	require.Len(t, f.Curves, 2)
	assert.InDelta(t, 200, f.Curves[0].Line.First().Y(), 1e-6)
	assert.InDelta(t, 700, f.Curves[1].Line.First().Y(), 1e-6)
}

func TestStructuralErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	absent := twoKeyStore()
	for i := range absent.Frames {
		absent.Frames[i].There = false
	}
	unchained := twoKeyStore()
	unchained.Chains = nil
	tests := []struct {
		name  string
		store *MemoryStore
		field func() *Field
		err   error
	}{
		{"nil field", twoKeyStore(), func() *Field { return nil }, ErrNilField},
		{"area field", twoKeyStore(), func() *Field { f := testField(5); f.Kind = AreaFeature; return f }, ErrWrongFeature},
		{"unlinked", twoKeyStore(), func() *Field { f := testField(5); f.Linked = false; return f }, ErrNotLinked},
		{"one slot", twoKeyStore(), func() *Field { return testField(1) }, ErrTooFewSlots},
		{"no step", twoKeyStore(), func() *Field { f := testField(5); f.Axis.Step = 0; return f }, ErrTooFewSlots},
		{"no keyframes", absent, func() *Field { return testField(5) }, ErrNoKeyframes},
		{"no chains", unchained, func() *Field { return testField(5) }, ErrNoLinkChains},
	}
	for _, tt := range tests {
		sink := NewMemorySink()
		e := NewEngine(tt.store, sink)
		field := tt.field()
		_, err := e.Interpolate(context.Background(), field, false)
		assert.True(t, errors.Is(err, tt.err), "%s: got %v", tt.name, err)
		assert.Zero(t, sink.Writes, tt.name)
		assert.False(t, e.InterpolateCurveField(context.Background(), field, false), tt.name)
		if field != nil {
			assert.False(t, field.Interpolated, tt.name)
		}
	}
}

func TestInvalidEngineConfig(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	cfg := DefaultConfig()
	cfg.MinSegmentPoints = 1
	e := NewEngine(twoKeyStore(), NewMemorySink())
	e.Config = &cfg
	_, err := e.Interpolate(context.Background(), testField(5), false)
	assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
}

func TestCancelledRunWritesNothing(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := NewMemorySink()
	e := NewEngine(twoKeyStore(), sink)
	field := testField(5)
	_, err := e.Interpolate(ctx, field, false)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, sink.Writes)
	assert.False(t, field.Interpolated)
	assert.False(t, e.InterpolateCurveField(ctx, field, false))
	assert.NotNil(t, e.LastReport())
}

func TestMemorySink(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	field := testField(3)
	sink := NewMemorySink()
	assert.Error(t, sink.WriteInbetween(field, 3, &Frame{}))
	assert.Error(t, sink.WriteInbetween(field, -1, &Frame{}))
	require.NoError(t, sink.WriteInbetween(field, 1, &Frame{Time: 15}))
	assert.Equal(t, 15, sink.Frame(1).Time)
	require.NoError(t, sink.WriteInbetween(field, 1, nil))
	assert.Nil(t, sink.Frame(1))
	assert.Equal(t, 2, sink.Writes)
}

func TestAxis(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	a := Axis{First: -30, Step: 15, Count: 4}
	assert.Equal(t, 15, a.Time(3))
	slot, ok := a.Slot(0)
	assert.True(t, ok)
	assert.Equal(t, 2, slot)
	_, ok = a.Slot(5)
	assert.False(t, ok, "off the grid")
	_, ok = a.Slot(30)
	assert.False(t, ok, "past the axis")
	assert.Equal(t, 1, a.ceil(-20))
	assert.Equal(t, 0, a.floor(-20))
	assert.Equal(t, -1, a.floor(-31))
	assert.Equal(t, 0, a.ceil(-31))
	assert.Equal(t, 2, a.ceil(0))
	assert.Equal(t, 2, a.floor(0))
}
