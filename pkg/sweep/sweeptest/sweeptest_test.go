package sweeptest

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/0x0FACED/go-sweepline/pkg/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) sweep.Point { return sweep.Point{X: x, Y: y} }

func TestBruteForceCross(t *testing.T) {
	segs := []sweep.Segment{
		sweep.Normalize(sweep.Segment{Start: pt(0, 0), End: pt(2, 2)}, sweep.DefaultEpsilon),
		sweep.Normalize(sweep.Segment{Start: pt(0, 2), End: pt(2, 0)}, sweep.DefaultEpsilon),
		sweep.Normalize(sweep.Segment{Start: pt(1, 0), End: pt(1, 2)}, sweep.DefaultEpsilon),
	}
	got := BruteForce(segs, 1e-9)
	require.Len(t, got, 1)
	assert.InDelta(t, 1, got[0].X, 1e-12)
	assert.InDelta(t, 1, got[0].Y, 1e-12)
}

func TestEquivalent(t *testing.T) {
	a := []sweep.Point{pt(0, 0), pt(1, 1), pt(1, 1+1e-12)}
	b := []sweep.Point{pt(1, 1), pt(0, 1e-12)}
	assert.True(t, Equivalent(a, b, 1e-9))
	assert.False(t, Equivalent(a, b[:1], 1e-9))
	assert.False(t, Equivalent(a, []sweep.Point{pt(1, 1), pt(5, 5)}, 1e-9))
	assert.True(t, Equivalent(nil, nil, 1e-9))
}

func TestGrid(t *testing.T) {
	segs := Grid(3, 4, 10, 10)
	require.Len(t, segs, 7)
	assert.Len(t, BruteForce(segs, 1e-9), 12)
}

func TestRandomSegmentsAreNormalized(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, s := range RandomSegments(rng, 100, 10, 3) {
		assert.True(t, s.Start.Before(s.End, 0), "%v", s)
		assert.LessOrEqual(t, s.End.Sub(s.Start).Length(), 3.0+1e-12)
	}
}

func TestNearHorizontalSegments(t *testing.T) {
	const eps = 1e-9
	rng := rand.New(rand.NewPCG(3, 4))
	segs := NearHorizontalSegments(rng, 50, 10, 5, eps)
	require.Len(t, segs, 50)
	require.NoError(t, sweep.Validate(segs, eps))
	for _, s := range segs {
		assert.Less(t, math.Abs(s.End.Y-s.Start.Y), eps)
		assert.Less(t, s.Start.X, s.End.X, "%v", s)
	}
}
