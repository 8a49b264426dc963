package sweep

import (
	"context"
	"testing"

	"github.com/0x0FACED/go-sweepline/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func segments(eps float64, ss ...Segment) []segment {
	out := make([]segment, len(ss))
	for i, s := range ss {
		out[i] = newSegment(s, eps)
	}
	return out
}

func TestCompareStatusAroundCrossing(t *testing.T) {
	const eps = 1e-9
	// 0 runs from top left to bottom right, 1 from top right to bottom left
	segs := segments(eps, seg(0, 2, 2, 0), seg(2, 2, 0, 0))
	line := sweepLine{eps: eps, segs: segs}

	line.at = pt(5, 1.5)
	assert.Equal(t, -1, compareStatus(line, 0, 1))

	// at the crossing after it was processed: order below it
	line.at = pt(1, 1)
	assert.Equal(t, 1, compareStatus(line, 0, 1))
	assert.Equal(t, -1, compareStatus(line, 1, 0))

	// crossing still ahead on the same line: order above it
	line.at = pt(0.5, 1)
	assert.Equal(t, -1, compareStatus(line, 0, 1))

	assert.Equal(t, 0, compareStatus(line, 1, 1))
}

func TestCompareStatusHorizontalLast(t *testing.T) {
	const eps = 1e-9
	segs := segments(eps, seg(0, 1, 4, 1), seg(1, 2, 1, 0), seg(0, 2, 2, 0))
	line := sweepLine{at: pt(1, 1), eps: eps, segs: segs}
	assert.Equal(t, 1, compareStatus(line, 0, 1))
	assert.Equal(t, 1, compareStatus(line, 0, 2))
	// vertical continues straight down, the diagonal to the right
	assert.Equal(t, -1, compareStatus(line, 1, 2))
}

func TestEventQueueMergesStarts(t *testing.T) {
	q := newEventQueue(0)
	q.reset(1e-10)

	_, err := q.add(pt(1, 1))
	require.NoError(t, err)
	require.NoError(t, q.addStart(pt(1, 1), 0))
	require.NoError(t, q.addStart(pt(1, 1+1e-12), 1))
	require.NoError(t, q.addStart(pt(0, 3), 2))
	added, err := q.add(pt(0, 3))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 2, q.len())

	p, starts, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, pt(0, 3), p)
	assert.Equal(t, []int{2}, starts)

	p, starts, ok = q.pop()
	require.True(t, ok)
	assert.Equal(t, pt(1, 1), p)
	assert.Equal(t, []int{0, 1}, starts)

	_, _, ok = q.pop()
	assert.False(t, ok)
}

func TestRebuildDropsEndedAndDuplicates(t *testing.T) {
	const eps = 1e-9
	st := newStatus()
	st.reset(segments(eps, seg(0, 4, 4, 0), seg(4, 4, 0, 0), seg(10, 4, 10, 2)), eps)
	st.line.at = pt(10, 4)
	for _, id := range []int{0, 1, 2, 1} {
		_, err := st.insert(id)
		require.NoError(t, err)
	}

	kept, err := st.rebuild(pt(10, 2), nil, map[int]struct{}{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1}, kept)
	assert.Equal(t, 2, st.tree.Len())
	assert.Equal(t, pt(10, 2), st.line.at)

	// order at the new position: 1 crossed 0 at (2,2)
	first, _ := st.tree.Value(st.tree.First())
	assert.Equal(t, 1, first)
}

// newTestRun prepares a sweep without running it, so tests can tamper with
// the status structure between events.
func newTestRun(t *testing.T, segs []Segment, opts ...Option) *run {
	opts = append(opts, WithLogger(logger.FromZap(zaptest.NewLogger(t))))
	s, err := New(opts...)
	require.NoError(t, err)
	r := &run{
		workspace:    newWorkspace(0),
		opts:         &s.opts,
		lg:           s.opts.lg,
		restartsLeft: s.opts.maxRestarts,
	}
	require.NoError(t, r.seed(segs))
	return r
}

func stepN(t *testing.T, r *run, n int) {
	for i := 0; i < n; i++ {
		p, starts, ok := r.events.pop()
		require.True(t, ok)
		require.NoError(t, r.step(p, starts))
	}
}

// swapFirstTwo exchanges the first two status entries, the way drift can
// leave two segments on the wrong sides of each other.
func swapFirstTwo(t *testing.T, r *run) {
	tr := r.status.tree
	h1 := tr.First()
	h2 := tr.Next(h1)
	v1, _ := tr.Value(h1)
	v2, _ := tr.Value(h2)
	require.NoError(t, tr.Replace(h1, v2))
	require.NoError(t, tr.Replace(h2, v1))
}

func driftInput() []Segment {
	return []Segment{
		seg(0, 4, 4, 0),
		seg(4, 4, 0, 0),
		seg(10, 4, 10, 0),
	}
}

func TestRestartRepairsStatus(t *testing.T) {
	r := newTestRun(t, driftInput(), WithMaxRestarts(1))
	stepN(t, r, 3)
	swapFirstTwo(t, r)

	require.NoError(t, r.drain(context.Background()))
	assert.Equal(t, 1, r.stats.Restarts)
	assert.Len(t, r.faulty, 1)
	assert.False(t, r.stats.Degraded)
	require.Len(t, r.points, 1)
	assert.True(t, r.points[0].Equals(pt(2, 2), 1e-12))
	assert.Equal(t, 0, r.status.tree.Len())
}

func TestRestartBudgetExhausted(t *testing.T) {
	r := newTestRun(t, driftInput(), WithMaxRestarts(0))
	stepN(t, r, 3)
	swapFirstTwo(t, r)

	require.NoError(t, r.drain(context.Background()))
	assert.Equal(t, 0, r.stats.Restarts)
	assert.True(t, r.stats.Degraded)
	assert.NotEmpty(t, r.faulty)
	assert.Equal(t, 0, r.status.tree.Len())
}

func TestRestartDisabled(t *testing.T) {
	r := newTestRun(t, driftInput(), WithRestartOnPrecisionErrors(false))
	stepN(t, r, 3)
	swapFirstTwo(t, r)

	require.NoError(t, r.drain(context.Background()))
	assert.Equal(t, 0, r.stats.Restarts)
	assert.True(t, r.stats.Degraded)
}
