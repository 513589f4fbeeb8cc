package interp

import (
	"context"
	"fmt"

	"github.com/npillmayer/linktween"
)

// Engine interpolates line fields. Keyframes, Chains and Sink are required;
// without Patterns every line pattern counts as symmetric. A nil Config
// selects DefaultConfig.
type Engine struct {
	Keyframes KeyframeStore
	Chains    LinkChainStore
	Patterns  PatternTable
	Sink      FrameSink
	Config    *Config
	// Progress is called after every component of a run which shows
	// progress, with the number of components done and their total.
	Progress func(field *Field, done, total int)

	last *Report
}

// NewEngine creates an engine reading keyframes, link chains and patterns
// from store.
func NewEngine(store interface {
	KeyframeStore
	LinkChainStore
	PatternTable
}, sink FrameSink) *Engine {
	return &Engine{Keyframes: store, Chains: store, Patterns: store, Sink: sink}
}

// LastReport is the report of the latest run, or nil.
func (e *Engine) LastReport() *Report {
	return e.last
}

// InterpolateCurveField interpolates the inbetween frames of field and
// reports success. It never panics. A field already marked as interpolated
// succeeds without a run.
func (e *Engine) InterpolateCurveField(ctx context.Context, field *Field, show bool) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			tracer().Errorf("interpolation of %v failed: %v", field, p)
			ok = false
		}
	}()
	report, err := e.Interpolate(ctx, field, show)
	e.last = report
	if err != nil {
		tracer().Errorf("interpolation of %v: %v", field, err)
		return false
	}
	return true
}

// Interpolate interpolates the inbetween frames of field. Structural
// problems of the input return an error before any frame is written;
// problems within one connected component are collected in the report and
// leave the other components alone. On success every slot of the field's
// axis is written to the sink and the field is marked as interpolated.
func (e *Engine) Interpolate(ctx context.Context, field *Field, show bool) (*Report, error) {
	report := &Report{}
	if field == nil {
		return report, ErrNilField
	}
	cfg := DefaultConfig()
	if e.Config != nil {
		cfg = *e.Config
	}
	if err := cfg.Validate(); err != nil {
		return report, err
	}
	switch {
	case field.Kind != LineFeature:
		return report, fmt.Errorf("%w: %v is a %s field", ErrWrongFeature, field, field.Kind)
	case !field.Linked:
		return report, fmt.Errorf("%w: %v", ErrNotLinked, field)
	case field.Axis.Count < 2 || field.Axis.Step <= 0:
		return report, fmt.Errorf("%w: %d slots every %d minutes", ErrTooFewSlots, field.Axis.Count, field.Axis.Step)
	}
	if field.Interpolated && field.LabelsInterpolated {
		tracer().Debugf("%v is interpolated already", field)
		return report, nil
	}
	all, err := e.Keyframes.Keyframes(field)
	if err != nil {
		return report, fmt.Errorf("reading keyframes of %v: %w", field, err)
	}
	var keys []Keyframe
	for _, k := range all {
		if k.There {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return report, fmt.Errorf("%w: %v", ErrNoKeyframes, field)
	}
	chains, err := e.Chains.LinkChains(field)
	if err != nil {
		return report, fmt.Errorf("reading link chains of %v: %w", field, err)
	}
	if len(chains) == 0 {
		return report, fmt.Errorf("%w: %v", ErrNoLinkChains, field)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	r := &run{
		cfg:      cfg,
		field:    field,
		keys:     keys,
		chains:   chains,
		patterns: e.Patterns,
		table:    newKeyTable(keys),
		report:   report,
	}
	r.prepareFrames()
	links := r.buildCurveLinks()
	mergeCommonLinks(links)
	var roots []*curveLink
	for _, c := range links {
		if c.isRoot() {
			roots = append(roots, c)
		}
	}
	for i, root := range roots {
		if err := ctx.Err(); err != nil {
			tracer().Infof("interpolation of %v cancelled after %d of %d components", field, i, len(roots))
			return report, err
		}
		r.commit(root, r.component(root, links))
		if show && e.Progress != nil {
			e.Progress(field, i+1, len(roots))
		}
	}
	for slot, frame := range r.frames {
		if err := e.Sink.WriteInbetween(field, slot, frame); err != nil {
			return report, fmt.Errorf("writing inbetween %d of %v: %w", slot, field, err)
		}
	}
	field.Interpolated, field.LabelsInterpolated = true, true
	tracer().Infof("interpolated %v: %d components, %d curves, %d diagnostics",
		field, report.Components, report.Curves, len(report.Diagnostics))
	return report, nil
}

// run is the working state of one interpolation. It lives until Interpolate
// returns.
type run struct {
	cfg      Config
	field    *Field
	keys     []Keyframe
	chains   []LinkChain
	patterns PatternTable
	table    keyTable
	frames   []*Frame
	report   *Report
}

// prepareFrames creates an empty frame for every slot between the first and
// the last keyframe. A frame inherits the presentation of the keyframe
// covering its time. Slots outside stay nil and will be cleared.
func (r *run) prepareFrames() {
	axis := r.field.Axis
	r.frames = make([]*Frame, axis.Count)
	first, last := r.keys[0].Time, r.keys[len(r.keys)-1].Time
	ikey := 0
	for slot := range r.frames {
		t := axis.Time(slot)
		if t < first || t > last {
			continue
		}
		ikey = r.coveringKey(t, ikey)
		pres := make(Presentation, len(r.keys[ikey].Presentation))
		for k, v := range r.keys[ikey].Presentation {
			pres[k] = v
		}
		r.frames[slot] = &Frame{Time: t, Presentation: pres}
	}
}

// commit adds the outputs of a component to the prepared frames.
func (r *run) commit(root *curveLink, outs []output) {
	if len(outs) == 0 {
		return
	}
	r.report.Components++
	for _, o := range outs {
		frame := r.frames[o.slot]
		if frame == nil {
			r.report.warn(FrameNotPrepared, root.ichain, -1, r.field.Axis.Time(o.slot),
				"inbetween frame %d is outside the keyframes", o.slot)
			continue
		}
		frame.Curves = append(frame.Curves, o.curve)
		frame.Labels = append(frame.Labels, o.labels...)
		r.report.Curves++
	}
}

// component interpolates the connected component of root. A failure inside
// discards the outputs of this component only.
func (r *run) component(root *curveLink, links []*curveLink) (outs []output) {
	defer func() {
		if p := recover(); p != nil {
			r.report.warn(ComponentFailed, root.ichain, -1, -1, "%v", p)
			outs = nil
		}
	}()
	if !root.active() {
		tracer().Debugf("link %d: nothing to interpolate", root.ichain)
		return nil
	}
	mem := members(links, root)
	r.orientComponent(root, mem)
	r.initSegments(root)
	r.splitSegments(root, mem)
	r.checkSegments(root)

	axis := r.field.Axis
	skey, ekey := root.skey, root.ekey
	stween, etween := axis.ceil(r.keys[skey].Time), axis.floor(r.keys[ekey].Time)
	sxtween, extween := axis.ceil(root.splus), axis.floor(root.eplus)
	smin, emax := max(min(stween, sxtween), 0), min(max(etween, extween), axis.Count-1)
	sxtween, extween = max(sxtween, 0), min(extween, axis.Count-1)
	var data []int
	for ikey := skey; ikey <= ekey; ikey++ {
		if k := &root.keys[ikey]; k.ref.valid() && len(k.segs) > 0 {
			data = append(data, ikey)
		}
	}
	tracer().Debugf("link %d: keys %d..%d (%d with data), slots %d..%d, blended %d..%d",
		root.ichain, skey, ekey, len(data), sxtween, extween, smin, emax)
	if len(data) <= 1 && root.ctrl.ncont <= 0 {
		return r.replicate(root)
	}
	if len(data) == 0 || smin > emax {
		return nil
	}
	nseg := len(root.keys[data[0]].segs)
	if nseg < 2 {
		r.report.warn(TooFewSegments, root.ichain, data[0], r.keys[data[0]].Time, "too few line segments: %d", nseg)
		return nil
	}
	npseg, nspts := r.segmentPointCounts(root, data, nseg)
	res := r.resolution(root, data)
	vals := make([][]linktween.Pair, len(data))
	for i := range vals {
		vals[i] = make([]linktween.Pair, 0, nspts)
	}
	for iseg := 0; iseg < nseg; iseg++ {
		seg, err := r.spatialSegment(root, iseg, npseg[iseg], iseg == nseg-1, data)
		if err != nil {
			r.report.warn(ComponentFailed, root.ichain, -1, -1, "%v", err)
			return nil
		}
		for i := range vals {
			vals[i] = append(vals[i], seg[i]...)
		}
	}
	keyTimes := make([]float64, len(data))
	for i, ikey := range data {
		keyTimes[i] = float64(r.keys[ikey].Time)
	}
	times := make([]float64, emax-smin+1)
	for s := range times {
		times[s] = float64(axis.Time(smin + s))
	}
	blended := r.blendComponent(keyTimes, vals, times)
	if root.ctrl.ncont > 0 {
		ctimes, cvals := r.applyControls(root, data, keyTimes, vals, blended, smin, npseg)
		blended = r.blendComponent(ctimes, cvals, times)
	}
	closed := r.allClosed(root, data)
	ikey, pkey := 0, -1
	var labels []*Label
	motion := newLabelMotion()
	for slot := max(sxtween, smin); slot <= min(extween, emax); slot++ {
		t := axis.Time(slot)
		line, ok := r.assembleFrame(root, slot, blended[slot-smin], res, closed)
		if !ok {
			continue
		}
		if root.ctrl.ncont <= 0 {
			r.checkEnvelope(root, data, slot, line, res)
		}
		ikey = r.coveringKey(t, ikey)
		jkey := r.styleKey(root, ikey)
		k := &root.keys[jkey]
		curve := r.table.curve(k.ref).Copy()
		curve.Sense = k.sense
		curve.Line = line
		if jkey != pkey {
			labels = r.labelsOnCurve(k.ref)
			pkey = jkey
		}
		o := output{slot: slot, curve: curve}
		if len(labels) > 0 {
			ref := min(max(axis.floor(r.keys[jkey].Time), smin), emax)
			o.labels = shiftedLabels(labels, motion.offset(slot, ref, smin, blended))
		}
		outs = append(outs, o)
	}
	return outs
}

// replicate copies the curve of a component with a single keyframe, and its
// labels, into every slot of the component's range.
func (r *run) replicate(root *curveLink) []output {
	axis := r.field.Axis
	k := &root.keys[root.skey]
	curve := r.table.curve(k.ref)
	labels := r.labelsOnCurve(k.ref)
	var outs []output
	for slot := max(axis.ceil(root.splus), 0); slot <= min(axis.floor(root.eplus), axis.Count-1); slot++ {
		outs = append(outs, output{
			slot:   slot,
			curve:  curve.Copy(),
			labels: shiftedLabels(labels, linktween.Origin),
		})
	}
	tracer().Debugf("link %d: single keyframe replicated to %d slots", root.ichain, len(outs))
	return outs
}
