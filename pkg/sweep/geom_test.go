package sweep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) Point { return Point{X: x, Y: y} }

func seg(ax, ay, bx, by float64) Segment {
	return Normalize(Segment{Start: pt(ax, ay), End: pt(bx, by)}, DefaultEpsilon)
}

func TestNormalize(t *testing.T) {
	const eps = 1e-9
	s := Normalize(Segment{Start: pt(0, 0), End: pt(1, 1)}, eps)
	assert.Equal(t, pt(1, 1), s.Start)

	// same height: left end first
	s = Normalize(Segment{Start: pt(3, 2), End: pt(1, 2)}, eps)
	assert.Equal(t, pt(1, 2), s.Start)

	s = Normalize(Segment{Start: pt(0, 5), End: pt(9, -1)}, eps)
	assert.Equal(t, pt(0, 5), s.Start)

	// within eps in y the higher end may still come second
	for _, dy := range []float64{5e-11, 8e-10, -8e-10} {
		s = Normalize(Segment{Start: pt(9, 5+dy), End: pt(1, 5)}, eps)
		assert.Equal(t, pt(1, 5), s.Start, "dy %g", dy)
		assert.NoError(t, Validate([]Segment{s}, eps))
		assert.Error(t, Validate([]Segment{{Start: s.End, End: s.Start}}, eps))
	}

	s = Normalize(Segment{Start: pt(9, 5+5e-9), End: pt(1, 5)}, eps)
	assert.Equal(t, pt(9, 5+5e-9), s.Start)
}

func TestIntersect(t *testing.T) {
	const eps = 1e-9
	tests := []struct {
		name string
		a, b Segment
		want Intersection
	}{
		{
			name: "cross",
			a:    seg(0, 0, 2, 2),
			b:    seg(0, 2, 2, 0),
			want: Intersection{Kind: PointIntersection, A: pt(1, 1)},
		},
		{
			name: "shared endpoint",
			a:    seg(0, 0, 1, 1),
			b:    seg(1, 1, 2, 0),
			want: Intersection{Kind: PointIntersection, A: pt(1, 1)},
		},
		{
			name: "endpoint on interior",
			a:    seg(0, 0, 4, 0),
			b:    seg(2, 0, 2, 3),
			want: Intersection{Kind: PointIntersection, A: pt(2, 0)},
		},
		{
			name: "lines cross outside",
			a:    seg(0, 0, 1, 1),
			b:    seg(3, 0, 2, 1),
		},
		{
			name: "parallel",
			a:    seg(0, 0, 5, 0),
			b:    seg(0, 1, 5, 1),
		},
		{
			name: "collinear disjoint",
			a:    seg(0, 0, 1, 0),
			b:    seg(2, 0, 3, 0),
		},
		{
			name: "collinear touching",
			a:    seg(0, 0, 1, 1),
			b:    seg(1, 1, 2, 2),
			want: Intersection{Kind: PointIntersection, A: pt(1, 1)},
		},
		{
			name: "overlap",
			a:    seg(0, 0, 4, 0),
			b:    seg(1, 0, 6, 0),
			want: Intersection{Kind: OverlapIntersection, A: pt(1, 0), B: pt(4, 0)},
		},
		{
			name: "overlap diagonal",
			a:    seg(0, 0, 4, 4),
			b:    seg(1, 1, 2, 2),
			want: Intersection{Kind: OverlapIntersection, A: pt(2, 2), B: pt(1, 1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersect(tt.a, tt.b, eps)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.True(t, tt.want.A.Equals(got.A, 1e-12), "A: want %v got %v", tt.want.A, got.A)
			assert.True(t, tt.want.B.Equals(got.B, 1e-12), "B: want %v got %v", tt.want.B, got.B)

			back := Intersect(tt.b, tt.a, eps)
			assert.Equal(t, got.Kind, back.Kind)
			assert.True(t, got.A.Equals(back.A, 1e-12))
		})
	}
}

func TestXAt(t *testing.T) {
	const eps = 1e-9
	s := newSegment(seg(0, 4, 4, 0), eps)
	assert.Equal(t, 0.0, s.xAt(pt(7, 4), eps))
	assert.Equal(t, 4.0, s.xAt(pt(7, 0), eps))
	assert.InDelta(t, 1.0, s.xAt(pt(7, 3), eps), 1e-15)

	h := newSegment(seg(1, 2, 5, 2), eps)
	assert.True(t, h.horizontal)
	assert.Equal(t, 3.0, h.xAt(pt(3, 2), eps))
	assert.Equal(t, 1.0, h.xAt(pt(-10, 2), eps))
	assert.Equal(t, 5.0, h.xAt(pt(10, 2), eps))
	assert.InDelta(t, 1.0, h.dir.Length(), 1e-15)
}

func TestXAtShallow(t *testing.T) {
	const eps = 1e-9
	// higher end on the right, steeper than eps
	s := newSegment(seg(1, 5, 9, 5+8e-9), eps)
	require.False(t, s.horizontal)
	require.Equal(t, pt(9, 5+8e-9), s.Start)
	assert.Equal(t, 9.0, s.xAt(s.Start, eps))
	assert.Equal(t, 1.0, s.xAt(s.End, eps))
	assert.Equal(t, 7.0, s.xAt(pt(7, 5+6e-9), eps))
	assert.Equal(t, 3.0, s.xAt(pt(3, 5+2e-9), eps))

	// well clear of the line x follows from y
	g := newSegment(seg(0, 0, 10, 1), eps)
	assert.InDelta(t, 5.0, g.xAt(pt(2, 0.5), eps), 1e-12)
	assert.InDelta(t, 5.0, g.xAt(pt(8, 0.5), eps), 1e-12)
}

func TestNearHorizontalIsFlattened(t *testing.T) {
	const eps = 1e-9
	for _, dy := range []float64{8e-10, -8e-10, 1e-12} {
		s := newSegment(seg(1, 5, 9, 5+dy), eps)
		require.True(t, s.horizontal, "dy %g", dy)
		assert.Equal(t, 1.0, s.Start.X)
		assert.Equal(t, s.Start.Y, s.End.Y)
		assert.InDelta(t, 5+dy/2, s.Start.Y, 1e-15)
		assert.Equal(t, 4.0, s.xAt(pt(4, 7), eps))
		assert.Equal(t, 9.0, s.xAt(pt(12, 5), eps))
	}
}

func TestCompareSweep(t *testing.T) {
	assert.True(t, pt(5, 2).Before(pt(0, 1), 0))
	assert.True(t, pt(0, 1).Before(pt(5, 1), 0))
	assert.False(t, pt(0, 1).Before(pt(0, 1+1e-12), 1e-9))
	assert.Equal(t, 0, compareSweep(pt(0, 1), pt(1e-12, 1), 1e-9))
	assert.False(t, pt(math.NaN(), 0).IsFinite())
}
