package avltree

// Insert adds v and returns its handle. Values comparing equal to an existing
// value are placed after it.
func (t *Tree[T, C]) Insert(ctx C, v T) (Handle, error) {
	parent, s := none, left
	for n := t.root; n != none; {
		parent = n
		if t.cmp(ctx, v, t.nodes[n].value) < 0 {
			s = left
		} else {
			s = right
		}
		n = t.nodes[n].child[s]
	}

	i, err := t.alloc(v)
	if err != nil {
		return NoHandle, err
	}
	if parent == none {
		t.root = i
		return t.handle(i), nil
	}
	t.setChild(parent, s, i)
	t.retraceInsert(i)
	return t.handle(i), nil
}

// retraceInsert walks from the new leaf c towards the root updating balance
// factors. It stops once a subtree's height is unchanged, either because an
// ancestor became balanced or because one rotation absorbed the growth.
func (t *Tree[T, C]) retraceInsert(c int32) {
	for p := t.nodes[c].parent; p != none; c, p = p, t.nodes[p].parent {
		s := t.side(p, c)
		switch t.nodes[p].balance {
		case -sign(s):
			t.nodes[p].balance = 0
			return
		case 0:
			t.nodes[p].balance = sign(s)
		default:
			t.rebalance(p, s)
			return
		}
	}
}
