/*
Package polyline provides the geometry services for line features:
polylines in projected map coordinates, their metrics, closest-point
queries, condensing and filtering, re-splining to a display resolution,
resampling to an exact point count, and self-crossing repair.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polyline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/linktween"
	"github.com/npillmayer/schuko/tracing"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// tracer writes to trace with key 'polyline'
func tracer() tracing.Trace {
	return tracing.Select("polyline")
}

var (
	// ErrEmptyLine indicates an operation on a line without points.
	ErrEmptyLine = errors.New("line has no points")
	// ErrBadCount indicates a target point count below 2.
	ErrBadCount = errors.New("target point count must be at least 2")
	// ErrBadResolution indicates a non-positive or non-finite resolution.
	ErrBadResolution = errors.New("resolution must be positive")
)

// Line is an ordered sequence of points. A line whose last point repeats
// its first is closed.
type Line orb.LineString

// New creates a line from points.
func New(pts ...linktween.Pair) Line {
	l := make(Line, len(pts))
	for i, pt := range pts {
		l[i] = pt.Orb()
	}
	return l
}

// N is the number of points.
func (l Line) N() int {
	return len(l)
}

// At returns point i.
func (l Line) At(i int) linktween.Pair {
	return linktween.FromOrb(l[i])
}

// First returns the first point.
func (l Line) First() linktween.Pair {
	return l.At(0)
}

// Last returns the last point.
func (l Line) Last() linktween.Pair {
	return l.At(len(l) - 1)
}

// Pairs returns a copy of the points as pairs.
func (l Line) Pairs() []linktween.Pair {
	pts := make([]linktween.Pair, len(l))
	for i := range l {
		pts[i] = l.At(i)
	}
	return pts
}

// Clone returns a deep copy of l.
func (l Line) Clone() Line {
	if l == nil {
		return nil
	}
	return Line(orb.LineString(l).Clone())
}

// IsClosed is a predicate: does the last point repeat the first one?
func (l Line) IsClosed() bool {
	return len(l) > 2 && l.First().Equal(l.Last())
}

// Length is the sum of the span lengths.
func (l Line) Length() float64 {
	return planar.Length(orb.LineString(l))
}

// Reversed returns a copy of l in reverse point order.
func (l Line) Reversed() Line {
	r := l.Clone()
	orb.LineString(r).Reverse()
	return r
}

// Portion returns the points from index start through end of l, in reverse
// order if reverse is set. The range is clipped to l; an empty range (start
// after end) gives an empty line.
func Portion(l Line, start, end int, reverse bool) Line {
	if start >= len(l) || end < 0 || start > end {
		return Line{}
	}
	start = max(start, 0)
	end = min(end, len(l)-1)
	p := make(Line, 0, end-start+1)
	for i := 0; i <= end-start; i++ {
		if reverse {
			p = append(p, l[end-i])
		} else {
			p = append(p, l[start+i])
		}
	}
	return p
}

// PointAt returns the point at fractional span position s, where span k
// runs from point k (s = k) to point k+1 (s = k+1). s is clamped to the line.
func (l Line) PointAt(s float64) linktween.Pair {
	n := len(l)
	if n == 0 {
		return linktween.Origin
	}
	if s <= 0 || n == 1 {
		return l.First()
	}
	if s >= float64(n-1) {
		return l.Last()
	}
	i := int(s)
	return linktween.Lerp(l.At(i), l.At(i+1), s-float64(i))
}

// SpanLength is the arc length between fractional span positions from and to.
// The result is negative if to lies before from.
func (l Line) SpanLength(from, to float64) float64 {
	if to < from {
		return -l.SpanLength(to, from)
	}
	n := len(l)
	if n < 2 {
		return 0
	}
	from = math.Max(0, math.Min(from, float64(n-1)))
	to = math.Max(0, math.Min(to, float64(n-1)))
	i, j := int(from), int(to)
	if i == j {
		return linktween.Dist(l.PointAt(from), l.PointAt(to))
	}
	length := linktween.Dist(l.PointAt(from), l.At(i+1))
	for k := i + 1; k < j; k++ {
		length += linktween.Dist(l.At(k), l.At(k+1))
	}
	return length + linktween.Dist(l.At(j), l.PointAt(to))
}

// Closest finds the point on l closest to p. It returns the distance, the
// projected point and its fractional span position. Ties go to the earlier
// span.
func (l Line) Closest(p linktween.Pair) (dist float64, proj linktween.Pair, span float64) {
	if len(l) == 0 {
		return math.Inf(1), linktween.Origin, 0
	}
	dist, proj, span = linktween.Dist(p, l.First()), l.First(), 0
	for k := 0; k < len(l)-1; k++ {
		a, b := l.At(k), l.At(k+1)
		ab := b - a
		t := 0.0
		if d2 := ab.X()*ab.X() + ab.Y()*ab.Y(); d2 > 0 {
			t = ((p-a).X()*ab.X() + (p-a).Y()*ab.Y()) / d2
			t = math.Max(0, math.Min(1, t))
		}
		q := linktween.Lerp(a, b, t)
		if d := linktween.Dist(p, q); d < dist {
			dist, proj, span = d, q, float64(k)+t
		}
	}
	return
}

// Condense removes consecutive points within tol of the last point kept.
// The last point is kept if the line has more than one distinct point; it
// replaces a kept point within tol of it.
func Condense(l Line, tol float64) Line {
	if len(l) == 0 {
		return nil
	}
	c := radial(l, tol)
	if n := len(c); n >= 2 && linktween.Dist(c.At(n-2), c.At(n-1)) <= tol {
		if n == 2 {
			return c[:1]
		}
		c = append(c[:n-2], c[n-1])
	}
	return c
}

// Filter thins l so that interior points are more than res apart. Both end
// points are kept, and an interior point within res/2 of the end is
// dropped.
func Filter(l Line, res float64) Line {
	if len(l) < 3 {
		return l.Clone()
	}
	f := radial(l, res)
	if n := len(f); n >= 3 && linktween.Dist(f.At(n-2), f.At(n-1)) < res/2 {
		f = append(f[:n-2], f[n-1])
	}
	return f
}

// radial is the radial distance simplification of a copy of l. It keeps
// the first and last point of l.
func radial(l Line, tol float64) Line {
	return Line(simplify.Radial(planar.Distance, tol).LineString(orb.LineString(l.Clone())))
}

// AsString returns a line in the notation (x1,y1) -- (x2,y2) -- ...
func AsString(l Line) string {
	var b strings.Builder
	for i := range l {
		if i > 0 {
			b.WriteString(" -- ")
		}
		fmt.Fprintf(&b, "(%.4g,%.4g)", l[i].X(), l[i].Y())
	}
	return b.String()
}
