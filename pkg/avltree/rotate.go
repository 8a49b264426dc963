package avltree

// rotateSingle lifts z, the child of x on side s, into x's place. x must be
// heavy on side s. Returns the new subtree root.
func (t *Tree[T, C]) rotateSingle(x int32, s int) int32 {
	p := t.nodes[x].parent
	z := t.nodes[x].child[s]
	t.setChild(x, s, t.nodes[z].child[1-s])
	t.setChild(z, 1-s, x)
	t.replaceChild(p, x, z)

	// z balanced only happens while removing
	if t.nodes[z].balance == 0 {
		t.nodes[x].balance = sign(s)
		t.nodes[z].balance = -sign(s)
	} else {
		t.nodes[x].balance = 0
		t.nodes[z].balance = 0
	}
	return z
}

// rotateDouble handles the zig-zag case: z is x's child on side s and is heavy
// on the opposite side, so its inner child y becomes the subtree root.
func (t *Tree[T, C]) rotateDouble(x int32, s int) int32 {
	p := t.nodes[x].parent
	z := t.nodes[x].child[s]
	y := t.nodes[z].child[1-s]

	t.setChild(z, 1-s, t.nodes[y].child[s])
	t.setChild(y, s, z)
	t.setChild(x, s, t.nodes[y].child[1-s])
	t.setChild(y, 1-s, x)
	t.replaceChild(p, x, y)

	switch t.nodes[y].balance {
	case 0:
		t.nodes[x].balance = 0
		t.nodes[z].balance = 0
	case sign(s):
		t.nodes[x].balance = -sign(s)
		t.nodes[z].balance = 0
	default:
		t.nodes[x].balance = 0
		t.nodes[z].balance = sign(s)
	}
	t.nodes[y].balance = 0
	return y
}

// rebalance restores the AVL property at x, which is two levels heavier on
// side s. Returns the new subtree root and whether the subtree kept its height.
func (t *Tree[T, C]) rebalance(x int32, s int) (int32, bool) {
	z := t.nodes[x].child[s]
	zb := t.nodes[z].balance
	if zb == -sign(s) {
		return t.rotateDouble(x, s), false
	}
	return t.rotateSingle(x, s), zb == 0
}
