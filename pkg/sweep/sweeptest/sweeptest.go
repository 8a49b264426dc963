// Package sweeptest provides a pairwise reference implementation and input
// generators for testing code built on package sweep.
package sweeptest

import (
	"math"
	"math/rand/v2"

	"github.com/0x0FACED/go-sweepline/pkg/sweep"
)

// BruteForce intersects every pair of segments. Collinear overlaps yield the
// two ends of the shared piece. Points closer than eps are reported once.
func BruteForce(segs []sweep.Segment, eps float64) []sweep.Point {
	var out []sweep.Point
	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			x := sweep.Intersect(segs[i], segs[j], eps)
			switch x.Kind {
			case sweep.PointIntersection:
				out = append(out, x.A)
			case sweep.OverlapIntersection:
				out = append(out, x.A, x.B)
			}
		}
	}
	return Dedup(out, eps)
}

// Dedup drops points within tol of an earlier one.
func Dedup(pts []sweep.Point, tol float64) []sweep.Point {
	out := make([]sweep.Point, 0, len(pts))
next:
	for _, p := range pts {
		for _, q := range out {
			if p.Equals(q, tol) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

// Equivalent reports whether a and b describe the same point set: after
// merging points within tol they have the same size and every point of one
// has a distinct partner in the other within tol.
func Equivalent(a, b []sweep.Point, tol float64) bool {
	a, b = Dedup(a, tol), Dedup(b, tol)
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, p := range a {
		found := false
		for j, q := range b {
			if !used[j] && p.Equals(q, tol) {
				used[j], found = true, true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RandomSegments returns n segments starting inside the square [0, size]^2
// with random direction and length in (0, maxLen]. Like Grid it normalizes
// for sweep.DefaultEpsilon.
func RandomSegments(rng *rand.Rand, n int, size, maxLen float64) []sweep.Segment {
	segs := make([]sweep.Segment, 0, n)
	for len(segs) < n {
		a := sweep.Point{X: rng.Float64() * size, Y: rng.Float64() * size}
		angle := rng.Float64() * 2 * math.Pi
		l := maxLen * (1 - rng.Float64())
		b := sweep.Point{X: a.X + l*math.Cos(angle), Y: a.Y + l*math.Sin(angle)}
		segs = append(segs, sweep.Normalize(sweep.Segment{Start: a, End: b}, sweep.DefaultEpsilon))
	}
	return segs
}

// NearHorizontalSegments returns n segments starting inside [0, size]^2
// whose ends differ in y by less than eps, either way, with length in
// [maxLen/10, maxLen]. They are normalized for eps.
func NearHorizontalSegments(rng *rand.Rand, n int, size, maxLen, eps float64) []sweep.Segment {
	segs := make([]sweep.Segment, 0, n)
	for len(segs) < n {
		a := sweep.Point{X: rng.Float64() * size, Y: rng.Float64() * size}
		l := maxLen * (0.1 + 0.9*rng.Float64())
		dy := (2*rng.Float64() - 1) * eps * 0.99
		b := sweep.Point{X: a.X + l, Y: a.Y + dy}
		if rng.IntN(2) == 0 {
			a, b = b, a
		}
		segs = append(segs, sweep.Normalize(sweep.Segment{Start: a, End: b}, eps))
	}
	return segs
}

// Grid returns rows horizontal and cols vertical segments spanning the
// rectangle [0, w] x [0, h], inset by half a cell so every pair crosses.
func Grid(rows, cols int, w, h float64) []sweep.Segment {
	segs := make([]sweep.Segment, 0, rows+cols)
	dx, dy := w/float64(cols), h/float64(rows)
	for i := 0; i < rows; i++ {
		y := dy/2 + float64(i)*dy
		segs = append(segs, sweep.Normalize(sweep.Segment{
			Start: sweep.Point{X: 0, Y: y},
			End:   sweep.Point{X: w, Y: y},
		}, sweep.DefaultEpsilon))
	}
	for j := 0; j < cols; j++ {
		x := dx/2 + float64(j)*dx
		segs = append(segs, sweep.Normalize(sweep.Segment{
			Start: sweep.Point{X: x, Y: 0},
			End:   sweep.Point{X: x, Y: h},
		}, sweep.DefaultEpsilon))
	}
	return segs
}
