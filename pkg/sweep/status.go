package sweep

import (
	"cmp"

	"github.com/0x0FACED/go-sweepline/pkg/avltree"
)

// sweepLine is the position the status order is evaluated at. It is passed
// to every status tree operation since the order of two segments depends on
// where the sweep currently is.
type sweepLine struct {
	at   Point
	eps  float64
	segs []segment
}

// compareStatus orders segments by where they cross the sweep line. Segments
// crossing at the same x are ordered as they continue below the line when
// the crossing is at or left of the sweep position (it has been processed),
// and as they were above the line otherwise. Ids break remaining ties.
func compareStatus(l sweepLine, a, b int) int {
	if a == b {
		return 0
	}
	sa, sb := l.segs[a], l.segs[b]
	xa, xb := sa.xAt(l.at, l.eps), sb.xAt(l.at, l.eps)
	if d := xa - xb; d < -l.eps {
		return -1
	} else if d > l.eps {
		return 1
	}
	c := compareBelow(sa, sb, l.eps)
	if xa > l.at.X+l.eps {
		c = -c
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// compareBelow orders two segments through a common point by where they are
// just below it. Horizontal segments come last.
func compareBelow(a, b segment, eps float64) int {
	switch {
	case a.horizontal && b.horizontal:
		return 0
	case a.horizontal:
		return 1
	case b.horizontal:
		return -1
	}
	c := a.dir.PerpDot(b.dir)
	if c > eps {
		return -1
	} else if c < -eps {
		return 1
	}
	return 0
}

type status struct {
	tree *avltree.Tree[int, sweepLine]
	line sweepLine
}

func newStatus() *status {
	return &status{tree: avltree.New[int, sweepLine](compareStatus)}
}

func (s *status) reset(segs []segment, eps float64) {
	s.tree.Clear()
	s.line = sweepLine{eps: eps, segs: segs}
}

func (s *status) insert(id int) (avltree.Handle, error) {
	return s.tree.Insert(s.line, id)
}

func (s *status) remove(id int) bool {
	return s.tree.Remove(s.line, id)
}

func (s *status) value(h avltree.Handle) int {
	id, _ := s.tree.Value(h)
	return id
}

// locate appends to dst the segments crossing the sweep line within eps of p.
func (s *status) locate(p Point, dst []avltree.Handle) []avltree.Handle {
	segs, eps := s.line.segs, s.line.eps
	h := s.tree.Seek(func(id int) bool {
		return segs[id].xAt(p, eps) >= p.X-eps
	})
	for ; !h.IsNil(); h = s.tree.Next(h) {
		if segs[s.value(h)].xAt(p, eps) > p.X+eps {
			break
		}
		dst = append(dst, h)
	}
	return dst
}

// rightOf returns the first segment crossing the sweep line right of p.
func (s *status) rightOf(p Point) avltree.Handle {
	segs, eps := s.line.segs, s.line.eps
	return s.tree.Seek(func(id int) bool {
		return segs[id].xAt(p, eps) > p.X+eps
	})
}

// rebuild reinserts every segment that has not ended at p, evaluated at p.
// Duplicated entries left behind by failed removals are dropped.
func (s *status) rebuild(p Point, scratch []int, seen map[int]struct{}) ([]int, error) {
	scratch = scratch[:0]
	clear(seen)
	for _, h := range s.tree.Elements(avltree.InOrder) {
		id := s.value(h)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if compareSweep(s.line.segs[id].End, p, orderEpsilon(s.line.eps)) <= 0 {
			continue
		}
		scratch = append(scratch, id)
	}
	s.tree.Clear()
	s.line.at = p
	for _, id := range scratch {
		if _, err := s.tree.Insert(s.line, id); err != nil {
			return scratch, err
		}
	}
	return scratch, nil
}
