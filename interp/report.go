package interp

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies the problems of a run which do not stop it.
type DiagnosticKind int

// Kinds of diagnostics.
const (
	SegmentCountMismatch DiagnosticKind = iota // keyframes of a component differ in segment count
	SegmentOrderMismatch                       // keyframes of a component differ in segment order
	TooFewSegments                             // a component has fewer than 2 segments
	ControlOffGrid                             // control node not at an inbetween time
	ControlUninterpolated                      // control node without interpolated node
	TooFewControlPoints                        // re-blend found fewer times than expected
	ResampleNotConverged                       // no exact point count within budget
	NoLine                                     // re-splining left no usable line
	UnresolvedCrossing                         // loops remain after the repair budget
	FrameNotPrepared                           // output outside the keyframe range
	ComponentFailed                            // a component stopped unexpectedly
	Overshoot                                  // an inbetween line leaves the box of its keyframes
)

var kindNames = [...]string{
	"segment-count", "segment-order", "too-few-segments", "control-off-grid",
	"control-uninterpolated", "too-few-control-points", "resample-not-converged",
	"no-line", "unresolved-crossing", "frame-not-prepared", "component-failed",
	"overshoot",
}

func (k DiagnosticKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic is one problem report. Component is the index of the root
// link chain, Key a keyframe index and Time a time in minutes; each is -1 if
// it does not apply.
type Diagnostic struct {
	Kind      DiagnosticKind
	Component int
	Key       int
	Time      int
	Message   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [link %d, key %d, T%d]: %s", d.Kind, d.Component, d.Key, d.Time, d.Message)
}

// Report collects the outcome of a run.
type Report struct {
	Components  int // connected components interpolated
	Curves      int // curves written to inbetween frames
	Diagnostics []Diagnostic
}

// warn records a diagnostic and traces it.
func (r *Report) warn(kind DiagnosticKind, comp, key, time int, format string, args ...interface{}) {
	d := Diagnostic{
		Kind:      kind,
		Component: comp,
		Key:       key,
		Time:      time,
		Message:   fmt.Sprintf(format, args...),
	}
	tracer().Errorf("%s", d)
	r.Diagnostics = append(r.Diagnostics, d)
}

// Count is the number of diagnostics of kind k.
func (r *Report) Count(k DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == k {
			n++
		}
	}
	return n
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d components, %d curves", r.Components, r.Curves)
	for _, d := range r.Diagnostics {
		b.WriteString("\n  ")
		b.WriteString(d.String())
	}
	return b.String()
}
