package avltree

import "github.com/cockroachdb/errors"

// Remove deletes one node comparing equal to v. It reports whether a node was
// found.
func (t *Tree[T, C]) Remove(ctx C, v T) bool {
	i := t.find(ctx, v)
	if i == none {
		return false
	}
	t.removeAt(i)
	return true
}

// RemoveNode deletes the node addressed by h. Removing the same handle twice,
// or a handle issued before Clear, returns ErrStaleHandle.
func (t *Tree[T, C]) RemoveNode(h Handle) error {
	if !t.valid(h) {
		return errors.Wrapf(ErrStaleHandle, "remove slot %d gen %d", h.slot, h.gen)
	}
	t.removeAt(h.slot)
	return nil
}

func (t *Tree[T, C]) removeAt(n int32) {
	nd := t.nodes[n]
	l, r := nd.child[left], nd.child[right]

	// start is the lowest node whose subtree on side s got shorter
	var start int32
	var s int
	switch {
	case l == none || r == none:
		c := l
		if c == none {
			c = r
		}
		start = nd.parent
		if start != none {
			s = t.side(start, n)
		}
		t.replaceChild(nd.parent, n, c)
	default:
		y := r
		for t.nodes[y].child[left] != none {
			y = t.nodes[y].child[left]
		}
		if y == r {
			start, s = y, right
		} else {
			start, s = t.nodes[y].parent, left
			t.setChild(start, left, t.nodes[y].child[right])
			t.setChild(y, right, r)
		}
		t.setChild(y, left, l)
		t.nodes[y].balance = nd.balance
		t.replaceChild(nd.parent, n, y)
	}
	t.freeSlot(n)
	t.retraceRemove(start, s)
}

// retraceRemove walks up from p, whose side s lost one level of height,
// rotating where needed. Unlike insertion several rotations may be required.
func (t *Tree[T, C]) retraceRemove(p int32, s int) {
	for p != none {
		top := p
		switch t.nodes[p].balance {
		case sign(s):
			t.nodes[p].balance = 0
		case 0:
			t.nodes[p].balance = -sign(s)
			return
		default:
			var kept bool
			top, kept = t.rebalance(p, 1-s)
			if kept {
				return
			}
		}
		p = t.nodes[top].parent
		if p != none {
			s = t.side(p, top)
		}
	}
}
