package avltree

func (t *Tree[T, C]) find(ctx C, v T) int32 {
	n := t.root
	for n != none {
		c := t.cmp(ctx, v, t.nodes[n].value)
		if c == 0 {
			return n
		}
		if c < 0 {
			n = t.nodes[n].child[left]
		} else {
			n = t.nodes[n].child[right]
		}
	}
	return none
}

// Contains reports whether a value comparing equal to v is stored.
func (t *Tree[T, C]) Contains(ctx C, v T) bool {
	return t.find(ctx, v) != none
}

// Find returns the handle of a node comparing equal to v, or NoHandle.
func (t *Tree[T, C]) Find(ctx C, v T) Handle {
	return t.handle(t.find(ctx, v))
}

// First returns the leftmost node.
func (t *Tree[T, C]) First() Handle {
	return t.handle(t.extreme(t.root, left))
}

// Last returns the rightmost node.
func (t *Tree[T, C]) Last() Handle {
	return t.handle(t.extreme(t.root, right))
}

func (t *Tree[T, C]) extreme(n int32, s int) int32 {
	if n == none {
		return none
	}
	for t.nodes[n].child[s] != none {
		n = t.nodes[n].child[s]
	}
	return n
}

// Prev returns the in-order predecessor of h.
func (t *Tree[T, C]) Prev(h Handle) Handle {
	if !t.valid(h) {
		return NoHandle
	}
	return t.handle(t.step(h.slot, left))
}

// Next returns the in-order successor of h.
func (t *Tree[T, C]) Next(h Handle) Handle {
	if !t.valid(h) {
		return NoHandle
	}
	return t.handle(t.step(h.slot, right))
}

// step moves one position towards side s: into the subtree on that side if
// there is one, otherwise up to the first ancestor reached from the other side.
func (t *Tree[T, C]) step(n int32, s int) int32 {
	if c := t.nodes[n].child[s]; c != none {
		return t.extreme(c, 1-s)
	}
	p := t.nodes[n].parent
	for p != none && t.nodes[p].child[s] == n {
		n, p = p, t.nodes[p].parent
	}
	return p
}

// Seek returns the leftmost node for which pred holds. pred must be monotone
// over the in-order sequence: false for a prefix and true for the rest.
func (t *Tree[T, C]) Seek(pred func(v T) bool) Handle {
	found := none
	for n := t.root; n != none; {
		if pred(t.nodes[n].value) {
			found = n
			n = t.nodes[n].child[left]
		} else {
			n = t.nodes[n].child[right]
		}
	}
	return t.handle(found)
}

// TreeCode returns the relative position v has, or would have, in the tree
// as a number in (0, 1): every step down halves the remaining interval,
// subtracting for a left turn and adding for a right turn. For values a < b
// the code of a is strictly smaller than the code of b. The handle is the
// matching node, or the last node visited when v is not stored.
func (t *Tree[T, C]) TreeCode(ctx C, v T) (float64, Handle) {
	code, half := 0.5, 0.5
	last := none
	for n := t.root; n != none; {
		last = n
		c := t.cmp(ctx, v, t.nodes[n].value)
		if c == 0 {
			return code, t.handle(n)
		}
		half /= 2
		if c < 0 {
			code -= half
			n = t.nodes[n].child[left]
		} else {
			code += half
			n = t.nodes[n].child[right]
		}
	}
	return code, t.handle(last)
}

// Elements lists every node in the requested order. The walk uses an explicit
// stack.
func (t *Tree[T, C]) Elements(order Traversal) []Handle {
	out := make([]Handle, 0, t.size)
	if t.root == none {
		return out
	}
	stack := make([]int32, 0, 64)
	switch order {
	case PreOrder:
		stack = append(stack, t.root)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out = append(out, t.handle(n))
			if c := t.nodes[n].child[right]; c != none {
				stack = append(stack, c)
			}
			if c := t.nodes[n].child[left]; c != none {
				stack = append(stack, c)
			}
		}
	case InOrder:
		for n := t.root; n != none || len(stack) > 0; {
			for ; n != none; n = t.nodes[n].child[left] {
				stack = append(stack, n)
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out = append(out, t.handle(n))
			n = t.nodes[n].child[right]
		}
	case PostOrder:
		// root-right-left reversed
		stack = append(stack, t.root)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out = append(out, t.handle(n))
			if c := t.nodes[n].child[left]; c != none {
				stack = append(stack, c)
			}
			if c := t.nodes[n].child[right]; c != none {
				stack = append(stack, c)
			}
		}
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Ascend calls fn for every value in order until fn returns false.
func (t *Tree[T, C]) Ascend(fn func(h Handle, v T) bool) {
	for h := t.First(); !h.IsNil(); h = t.Next(h) {
		if !fn(h, t.nodes[h.slot].value) {
			return
		}
	}
}
