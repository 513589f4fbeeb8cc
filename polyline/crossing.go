package polyline

import (
	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/linktween"
)

// Bounds returns the bounding rectangle of l.
func Bounds(l Line) polyclip.Rectangle {
	return contour(l).BoundingBox()
}

// Envelope returns the bounding rectangle of all lines. Without points the
// rectangle is empty, with Min at +Inf and Max at -Inf.
func Envelope(lines ...Line) polyclip.Rectangle {
	pg := make(polyclip.Polygon, 0, len(lines))
	for _, l := range lines {
		if len(l) > 0 {
			pg = append(pg, contour(l))
		}
	}
	if len(pg) == 0 {
		return polyclip.Contour{}.BoundingBox()
	}
	return pg.BoundingBox()
}

// Within reports whether box lies inside env widened by slack on every side.
func Within(box, env polyclip.Rectangle, slack float64) bool {
	return box.Min.X >= env.Min.X-slack && box.Min.Y >= env.Min.Y-slack &&
		box.Max.X <= env.Max.X+slack && box.Max.Y <= env.Max.Y+slack
}

func contour(l Line) polyclip.Contour {
	c := make(polyclip.Contour, len(l))
	for i, pt := range l {
		c[i] = polyclip.Point{X: pt.X(), Y: pt.Y()}
	}
	return c
}

// spanBoxes returns the bounding rectangle of every span of l.
func spanBoxes(l Line) []polyclip.Rectangle {
	c := contour(l)
	boxes := make([]polyclip.Rectangle, len(c)-1)
	for i := range boxes {
		boxes[i] = c[i : i+2].BoundingBox()
	}
	return boxes
}

// Crossing describes two non-adjacent spans of a line which intersect.
type Crossing struct {
	I, J int            // span indices, I < J-1
	At   linktween.Pair // intersection point
}

// FindSelfCrossing returns the first crossing of two non-adjacent spans of
// l, ordered by the first span and then by the second. For closed lines the
// first and last span are adjacent.
func FindSelfCrossing(l Line) (Crossing, bool) {
	if len(l) < 4 {
		return Crossing{}, false
	}
	boxes := spanBoxes(l)
	closed := l.IsClosed()
	last := len(boxes) - 1
	for i := 0; i < last-1; i++ {
		for j := i + 2; j <= last; j++ {
			if closed && i == 0 && j == last {
				continue
			}
			if !boxes[i].Overlaps(boxes[j]) {
				continue
			}
			if x, ok := intersect(l.At(i), l.At(i+1), l.At(j), l.At(j+1)); ok {
				return Crossing{I: i, J: j, At: x}, true
			}
		}
	}
	return Crossing{}, false
}

// intersect finds the intersection of segments p1p2 and q1q2. Parallel
// segments never intersect.
func intersect(p1, p2, q1, q2 linktween.Pair) (linktween.Pair, bool) {
	r, s := p2-p1, q2-q1
	den := linktween.Cross(r, s)
	if linktween.Is0(den) {
		return linktween.Origin, false
	}
	qp := q1 - p1
	t := linktween.Cross(qp, s) / den
	u := linktween.Cross(qp, r) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return linktween.Origin, false
	}
	return linktween.Lerp(p1, p2, t), true
}

// RemoveLoops cuts loops out of l. While two non-adjacent spans i and j
// cross, the points between them are replaced by the crossing point. At most
// maxRepairs loops are removed. The result reports the number of repairs and
// whether the line is free of crossings.
func RemoveLoops(l Line, maxRepairs int) (Line, int, bool) {
	line := l.Clone()
	for repairs := 0; repairs < maxRepairs; repairs++ {
		x, found := FindSelfCrossing(line)
		if !found {
			return line, repairs, true
		}
		tracer().Debugf("removing loop between spans %d and %d at %v", x.I, x.J, x.At)
		cut := make(Line, 0, len(line)-(x.J-x.I)+1)
		cut = append(cut, line[:x.I+1]...)
		cut = append(cut, x.At.Orb())
		cut = append(cut, line[x.J+1:]...)
		line = cut
	}
	_, found := FindSelfCrossing(line)
	return line, maxRepairs, !found
}
