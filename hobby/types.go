package hobby

import (
	"errors"

	"github.com/npillmayer/linktween"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'graphics'
func tracer() tracing.Trace {
	return tracing.Select("graphics")
}

const pi float64 = 3.14159265
const pi2 float64 = 6.28318530
const _epsilon = 0.0000001

var (
	// ErrNilPath indicates a nil path pointer.
	ErrNilPath = errors.New("path must not be nil")
	// ErrTooFewKnots indicates path knot count is insufficient for solving.
	ErrTooFewKnots = errors.New("path has too few knots")
	// ErrInvalidKnot indicates a knot coordinate contains NaN/Inf.
	ErrInvalidKnot = errors.New("path has invalid knot coordinate")
	// ErrDegenerateSegment indicates two consecutive knots collapse to one point.
	ErrDegenerateSegment = errors.New("path has degenerate segment")
	// ErrCycleHasDuplicateTerminalKnot indicates cyclic path redundantly repeats first knot as last knot.
	ErrCycleHasDuplicateTerminalKnot = errors.New("cycle path must not repeat first knot as terminal knot")
)

// Path is the concrete type for building and solving Hobby splines.
// To construct a path, start with Nullpath(), which creates an empty
// path, and then extend it.
type Path struct {
	points   []linktween.Pair // point i
	cycle    bool             // is this path cyclic ?
	tensions []linktween.Pair // explicit pre- and post-tension at point i
	Controls *Controls        // control points to be calculated
}

// Controls collects calculated spline control points.
type Controls struct {
	prec  []linktween.Pair // control point i-
	postc []linktween.Pair // control point i+
}

// SetPreControl sets the incoming control point at knot i.
func (ctrls *Controls) SetPreControl(i int, c linktween.Pair) {
	ctrls.prec = extendC(ctrls.prec, i, nan)
	ctrls.prec[i] = c
}

// SetPostControl sets the outgoing control point at knot i.
func (ctrls *Controls) SetPostControl(i int, c linktween.Pair) {
	ctrls.postc = extendC(ctrls.postc, i, nan)
	ctrls.postc[i] = c
}

// PreControl is the incoming control point at knot i.
func (ctrls *Controls) PreControl(i int) linktween.Pair {
	return getC(ctrls.prec, i, nan)
}

// PostControl is the outgoing control point at knot i.
func (ctrls *Controls) PostControl(i int) linktween.Pair {
	return getC(ctrls.postc, i, nan)
}
