/*
Package interp time-interpolates line fields.

A line field is a sequence of sparse keyframes, each holding a set of curves
and their labels. Link chains track corresponding points of curves across
time. From keyframes and link chains the Engine synthesizes the curves of
every inbetween frame on the field's time axis.

Per run, every link chain becomes a curve link. Curve links which attach to
the same curve are merged into one connected component, oriented
consistently and split into segments at their attachment points. Every
segment of every keyframe is resampled to a common point count, every point
is blended over time and the blended points are re-splined into the curves
of the inbetween frames.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package interp

import (
	"fmt"

	"github.com/npillmayer/linktween"
	"github.com/npillmayer/linktween/polyline"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'interp'
func tracer() tracing.Trace {
	return tracing.Select("interp")
}

// FeatureKind is the kind of features a field holds.
type FeatureKind int

// Feature kinds. Only line fields are interpolated by this package.
const (
	LineFeature FeatureKind = iota
	AreaFeature
	PointFeature
)

func (k FeatureKind) String() string {
	switch k {
	case LineFeature:
		return "line"
	case AreaFeature:
		return "area"
	case PointFeature:
		return "point"
	}
	return fmt.Sprintf("FeatureKind(%d)", int(k))
}

// Axis is the grid of inbetween times First + k*Step, 0 ≤ k < Count.
// Times are in minutes.
type Axis struct {
	First int
	Step  int
	Count int
}

// Time is the time of slot k.
func (a Axis) Time(k int) int {
	return a.First + k*a.Step
}

// Slot returns the slot of time t and whether t lies on the grid.
func (a Axis) Slot(t int) (int, bool) {
	if a.Step <= 0 {
		return 0, false
	}
	d := t - a.First
	if d < 0 || d%a.Step != 0 || d/a.Step >= a.Count {
		return 0, false
	}
	return d / a.Step, true
}

// ceil is the first slot at or after t, floor the last slot at or before t.
// Both may lie outside the axis.
func (a Axis) ceil(t int) int {
	return ceilDiv(t-a.First, a.Step)
}

func (a Axis) floor(t int) int {
	return floorDiv(t-a.First, a.Step)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

// Field is a line field with its time axis and interpolation state.
type Field struct {
	Element, Level     string
	Kind               FeatureKind
	Linked             bool // field carries link chains
	Axis               Axis
	Interpolated       bool // curves of the inbetween frames are current
	LabelsInterpolated bool // labels of the inbetween frames are current
}

func (f *Field) String() string {
	return fmt.Sprintf("%s %s", f.Element, f.Level)
}

// Hand is the display orientation of a curve.
type Hand int

// Right-handed curves show asymmetric patterns on the right side of the
// direction of travel.
const (
	Right Hand = iota
	Left
)

func (h Hand) String() string {
	if h == Left {
		return "L"
	}
	return "R"
}

// Style is the line style of a curve.
type Style struct {
	Pattern string
	Colour  string
	Width   float64
}

// Attributes are the user attributes of a feature.
type Attributes map[string]string

func (a Attributes) clone() Attributes {
	if a == nil {
		return nil
	}
	c := make(Attributes, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

// Curve is a line feature.
type Curve struct {
	Line       polyline.Line
	Sense      Hand
	Style      Style
	Attributes Attributes
}

// Copy returns a deep copy of c.
func (c *Curve) Copy() *Curve {
	return &Curve{
		Line:       c.Line.Clone(),
		Sense:      c.Sense,
		Style:      c.Style,
		Attributes: c.Attributes.clone(),
	}
}

// Label is a text feature anchored near a curve.
type Label struct {
	Anchor     linktween.Pair
	Text       string
	Attributes Attributes
}

// Shifted returns a copy of l with its anchor moved by d.
func (l *Label) Shifted(d linktween.Pair) *Label {
	return &Label{
		Anchor:     linktween.Translation(d).Transform(l.Anchor),
		Text:       l.Text,
		Attributes: l.Attributes.clone(),
	}
}

// Presentation is the background and presentation of a frame.
type Presentation map[string]string

// Keyframe is a user-edited time slot. Only keyframes which are There take
// part in interpolation.
type Keyframe struct {
	Time         int
	There        bool
	Curves       []*Curve
	Labels       []*Label
	Presentation Presentation
}

// NodeKind is the type of a link chain node.
type NodeKind int

// Link node types. Only Normal nodes attach a chain to a keyframe curve.
const (
	UnknownNode NodeKind = iota
	NormalNode
	ControlNode
	FloatingNode
	InterpolatedNode
)

func (k NodeKind) String() string {
	switch k {
	case NormalNode:
		return "normal"
	case ControlNode:
		return "control"
	case FloatingNode:
		return "floating"
	case InterpolatedNode:
		return "interpolated"
	}
	return "unknown"
}

// Node is a time-tagged node of a link chain. Attach is the index of the
// curve in the keyframe at Time, or -1.
type Node struct {
	Time   int
	Kind   NodeKind
	There  bool
	Attach int
	Pos    linktween.Pair
}

// TimeRange is a closed range of times.
type TimeRange struct {
	Start, End int
}

// LinkChain is a persistent track of a point across time. Interpolated nodes
// carry the chain's own interpolation at inbetween times; control nodes at
// inbetween times pin the curve there. A nil Range makes the chain active
// over the span of its normal nodes.
type LinkChain struct {
	Nodes []Node
	Range *TimeRange
}

// nodeAt returns the first node of kind k at time t.
func (ch *LinkChain) nodeAt(k NodeKind, t int) (Node, bool) {
	for _, n := range ch.Nodes {
		if n.Kind == k && n.Time == t {
			return n, true
		}
	}
	return Node{}, false
}

// activeRange returns the early start and late end of the chain.
func (ch *LinkChain) activeRange() (TimeRange, bool) {
	if ch.Range != nil {
		return *ch.Range, true
	}
	var r TimeRange
	found := false
	for _, n := range ch.Nodes {
		if n.Kind != NormalNode || !n.There {
			continue
		}
		if !found || n.Time < r.Start {
			r.Start = n.Time
		}
		if !found || n.Time > r.End {
			r.End = n.Time
		}
		found = true
	}
	return r, found
}

// Frame is the output of one inbetween slot.
type Frame struct {
	Time         int
	Curves       []*Curve
	Labels       []*Label
	Presentation Presentation
}
