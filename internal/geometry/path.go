package geometry

import "math"

// Tracer receives path segments. *gg.Context satisfies it.
type Tracer interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	DrawArc(x, y, r, angle1, angle2 float64)
	ClosePath()
}

// SegmentKind identifies a path segment.
type SegmentKind int

const (
	SegMove SegmentKind = iota
	SegLine
	SegArc
	SegClose
)

// Segment is one step of a Path. Line and move segments use X, Y as the end
// point; arc segments use X, Y as the center and sweep from A1 to A2
// (radians, y down) with radius R.
type Segment struct {
	Kind   SegmentKind
	X, Y   float64
	R      float64
	A1, A2 float64
}

// Path is a closed contour that can be replayed for both fills and clips.
type Path struct {
	Segments []Segment
}

func (p *Path) moveTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegMove, X: x, Y: y})
}

func (p *Path) lineTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegLine, X: x, Y: y})
}

func (p *Path) arc(cx, cy, r, a1, a2 float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegArc, X: cx, Y: cy, R: r, A1: a1, A2: a2})
}

func (p *Path) close() {
	p.Segments = append(p.Segments, Segment{Kind: SegClose})
}

// Trace replays the path onto t.
func (p Path) Trace(t Tracer) {
	for _, s := range p.Segments {
		switch s.Kind {
		case SegMove:
			t.MoveTo(s.X, s.Y)
		case SegLine:
			t.LineTo(s.X, s.Y)
		case SegArc:
			t.DrawArc(s.X, s.Y, s.R, s.A1, s.A2)
		case SegClose:
			t.ClosePath()
		}
	}
}

// Count returns the number of segments of the given kind.
func (p Path) Count(kind SegmentKind) int {
	n := 0
	for _, s := range p.Segments {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

const (
	angleTop    = -math.Pi / 2
	angleRight  = 0
	angleBottom = math.Pi / 2
	angleLeft   = math.Pi
)

// RoundedRectPath builds a rectangle with all four corners rounded by r:
// four straight edges and four quarter arcs, clockwise from the top edge.
// r is not clamped to min(w, h)/2; a larger radius produces a
// self-intersecting contour.
func RoundedRectPath(x, y, w, h, r float64) Path {
	var p Path
	p.moveTo(x+r, y)
	p.lineTo(x+w-r, y)
	p.arc(x+w-r, y+r, r, angleTop, angleRight)
	p.lineTo(x+w, y+h-r)
	p.arc(x+w-r, y+h-r, r, angleRight, angleBottom)
	p.lineTo(x+r, y+h)
	p.arc(x+r, y+h-r, r, angleBottom, angleLeft)
	p.lineTo(x, y+r)
	p.arc(x+r, y+r, r, angleLeft, angleTop+2*math.Pi)
	p.close()
	return p
}

// BadgeMaskPath builds the badge silhouette at the origin: a size x size
// square whose top-left and bottom-right corners stay square while the
// top-right and bottom-left corners are rounded by radius.
func BadgeMaskPath(size, radius float64) Path {
	var p Path
	p.moveTo(0, 0)
	p.lineTo(size-radius, 0)
	p.arc(size-radius, radius, radius, angleTop, angleRight)
	p.lineTo(size, size)
	p.lineTo(radius, size)
	p.arc(radius, size-radius, radius, angleBottom, angleLeft)
	p.close()
	return p
}
