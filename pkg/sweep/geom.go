package sweep

import (
	"fmt"
	"math"
)

type Point struct {
	X float64
	Y float64
}

func (p Point) Sub(q Point) Point       { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Add(q Point) Point       { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Mul(f float64) Point     { return Point{p.X * f, p.Y * f} }
func (p Point) Dot(q Point) float64     { return p.X*q.X + p.Y*q.Y }
func (p Point) PerpDot(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) Length() float64         { return math.Hypot(p.X, p.Y) }

// Equals compares with tolerance eps on both axes.
func (p Point) Equals(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Before reports whether p comes before q in sweep order: higher y first,
// then smaller x. Coordinates within eps are treated as equal.
func (p Point) Before(q Point, eps float64) bool {
	return compareSweep(p, q, eps) < 0
}

// orderEpsilon is the tolerance of the event order, a tenth of the
// coordinate tolerance eps.
func orderEpsilon(eps float64) float64 { return eps / 10 }

func compareSweep(p, q Point, eps float64) int {
	if dy := p.Y - q.Y; dy > eps {
		return -1
	} else if dy < -eps {
		return 1
	}
	if dx := p.X - q.X; dx < -eps {
		return -1
	} else if dx > eps {
		return 1
	}
	return 0
}

// Segment is a line segment whose Start precedes End in sweep order.
type Segment struct {
	Start Point
	End   Point
}

// Normalize orders the endpoints of s for a sweep with coordinate tolerance
// eps. Segments whose ends differ in y by at most eps run left to right.
func Normalize(s Segment, eps float64) Segment {
	if compareSweep(s.End, s.Start, eps) < 0 {
		s.Start, s.End = s.End, s.Start
	}
	return s
}

func (s Segment) String() string {
	return fmt.Sprintf("%v-%v", s.Start, s.End)
}

// segment is the sweep's view of an input segment with the values the
// status ordering needs precomputed.
type segment struct {
	Segment
	dir        Point // unit direction from Start to End
	horizontal bool
}

// newSegment flattens segments that are horizontal within eps onto their
// mean line. Their crossings then share one event line and are swept left to
// right, which moves them by at most eps/2.
func newSegment(s Segment, eps float64) segment {
	horizontal := math.Abs(s.End.Y-s.Start.Y) <= eps
	if horizontal {
		y := (s.Start.Y + s.End.Y) / 2
		s.Start.Y, s.End.Y = y, y
	}
	d := s.End.Sub(s.Start)
	return segment{
		Segment:    s,
		dir:        d.Mul(1 / d.Length()),
		horizontal: horizontal,
	}
}

// xAt returns where s crosses the horizontal line through at. Horizontal
// segments report at.X clamped to their extent, and so do shallow segments
// passing within distance eps of at: recovering x from y is ill-conditioned
// for them.
func (s segment) xAt(at Point, eps float64) float64 {
	lo, hi := math.Min(s.Start.X, s.End.X), math.Max(s.Start.X, s.End.X)
	if s.horizontal {
		return math.Max(lo, math.Min(at.X, hi))
	}
	if d := s.End.Sub(s.Start); math.Abs(d.X) > math.Abs(d.Y) {
		x := math.Max(lo, math.Min(at.X, hi))
		y := s.Start.Y + (x-s.Start.X)*d.Y/d.X
		if math.Abs(y-at.Y)*math.Abs(d.X) <= eps*d.Length() {
			return x
		}
		return x + (at.Y-y)*d.X/d.Y
	}
	switch at.Y {
	case s.Start.Y:
		return s.Start.X
	case s.End.Y:
		return s.End.X
	}
	t := (s.Start.Y - at.Y) / (s.Start.Y - s.End.Y)
	return s.Start.X + t*(s.End.X-s.Start.X)
}

// IntersectionKind classifies the result of Intersect.
type IntersectionKind int

const (
	NoIntersection IntersectionKind = iota
	PointIntersection
	OverlapIntersection
)

// Intersection is the common part of two segments: a single point, or for
// collinear overlaps the two ends of the shared piece (A before B in sweep
// order).
type Intersection struct {
	Kind IntersectionKind
	A, B Point
}

// Intersect returns the intersection of segments a and b with tolerance eps.
// Points within eps of an endpoint are snapped onto it.
func Intersect(a, b Segment, eps float64) Intersection {
	da := a.End.Sub(a.Start)
	db := b.End.Sub(b.Start)
	la, lb := da.Length(), db.Length()
	if la == 0 || lb == 0 {
		return Intersection{}
	}
	ab := b.Start.Sub(a.Start)
	div := da.PerpDot(db)

	if math.Abs(div) <= eps*la*lb {
		// parallel
		if math.Abs(da.PerpDot(ab)) > eps*la {
			return Intersection{}
		}
		t0 := ab.Dot(da) / (la * la)
		t1 := b.End.Sub(a.Start).Dot(da) / (la * la)
		lo, hi := math.Max(0, math.Min(t0, t1)), math.Min(1, math.Max(t0, t1))
		tol := eps / la
		if lo > hi+tol {
			return Intersection{}
		}
		p := snap(a.Start.Add(da.Mul(lo)), a, b, eps)
		q := snap(a.Start.Add(da.Mul(hi)), a, b, eps)
		if p.Equals(q, eps) {
			return Intersection{Kind: PointIntersection, A: p}
		}
		if compareSweep(q, p, 0) < 0 {
			p, q = q, p
		}
		return Intersection{Kind: OverlapIntersection, A: p, B: q}
	}

	ta := ab.PerpDot(db) / div
	tb := ab.PerpDot(da) / div
	tolA, tolB := eps/la, eps/lb
	if ta < -tolA || ta > 1+tolA || tb < -tolB || tb > 1+tolB {
		return Intersection{}
	}
	ta = math.Max(0, math.Min(1, ta))
	return Intersection{Kind: PointIntersection, A: snap(a.Start.Add(da.Mul(ta)), a, b, eps)}
}

// snap moves p onto an endpoint of a or b within eps, so that intersections
// at endpoints coincide exactly with the endpoint events.
func snap(p Point, a, b Segment, eps float64) Point {
	for _, q := range [...]Point{a.Start, a.End, b.Start, b.End} {
		if p.Equals(q, eps) {
			return q
		}
	}
	return p
}
