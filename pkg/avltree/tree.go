// Package avltree implements an order-maintaining AVL tree stored in a node
// arena. Nodes are addressed by slot index instead of pointer, freed slots are
// recycled through a free stack, and every slot carries a generation so that a
// Handle to a removed node can be detected instead of silently reused.
//
// The ordering function receives an explicit context value on every call.
// This lets callers whose order depends on external, moving state (such as a
// sweep line position) pass that state in with each operation instead of
// hiding it in the tree.
package avltree

import (
	"math"

	"github.com/cockroachdb/errors"
)

var (
	// ErrStaleHandle is returned when a Handle no longer addresses a live node.
	ErrStaleHandle = errors.New("avltree: stale or foreign handle")
	// ErrCapacityExhausted is returned by Insert when the node limit is reached.
	ErrCapacityExhausted = errors.New("avltree: capacity exhausted")
)

const none int32 = -1

const (
	left  = 0
	right = 1
)

// CompareFunc orders a and b under ctx. It returns a negative number when a
// sorts before b, a positive number when after, and zero when equal.
type CompareFunc[T, C any] func(ctx C, a, b T) int

// Handle addresses a node of a Tree. The zero value is NoHandle.
type Handle struct {
	slot int32
	gen  uint32
}

// NoHandle is returned by lookups that find nothing.
var NoHandle Handle

// IsNil reports whether h is NoHandle.
func (h Handle) IsNil() bool { return h.gen == 0 }

// Traversal selects the order of Elements.
type Traversal int

const (
	PreOrder Traversal = iota
	InOrder
	PostOrder
)

type node[T any] struct {
	value   T
	parent  int32
	child   [2]int32
	balance int8 // height(right) - height(left)
	live    bool
	gen     uint32
}

// Tree is an AVL tree over values of type T ordered by a CompareFunc that
// takes a context of type C. A Tree is not safe for concurrent use.
type Tree[T, C any] struct {
	cmp   CompareFunc[T, C]
	nodes []node[T]
	free  []int32
	root  int32
	size  int
	limit int
}

type config struct {
	capacity int
	limit    int
}

// Option configures a Tree.
type Option func(*config)

// WithCapacity pre-sizes the node arena.
func WithCapacity(n int) Option {
	return func(c *config) { c.capacity = n }
}

// WithLimit caps the number of live nodes; Insert fails with
// ErrCapacityExhausted beyond it. Zero means no limit other than the slot
// index space.
func WithLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

// New returns an empty tree ordered by cmp.
func New[T, C any](cmp CompareFunc[T, C], opts ...Option) *Tree[T, C] {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.limit <= 0 || cfg.limit > math.MaxInt32 {
		cfg.limit = math.MaxInt32
	}
	if cfg.capacity < 0 {
		cfg.capacity = 0
	}
	return &Tree[T, C]{
		cmp:   cmp,
		nodes: make([]node[T], 0, cfg.capacity),
		root:  none,
		limit: cfg.limit,
	}
}

// Len returns the number of live nodes.
func (t *Tree[T, C]) Len() int { return t.size }

// Value returns the value stored at h.
func (t *Tree[T, C]) Value(h Handle) (T, bool) {
	if !t.valid(h) {
		var zero T
		return zero, false
	}
	return t.nodes[h.slot].value, true
}

// Replace overwrites the value at h in place. The new value must compare
// equal to the old one under the ordering the tree was built with; Replace
// does not move the node.
func (t *Tree[T, C]) Replace(h Handle, v T) error {
	if !t.valid(h) {
		return errors.Wrapf(ErrStaleHandle, "replace slot %d", h.slot)
	}
	t.nodes[h.slot].value = v
	return nil
}

// Clear removes every node. The arena is kept for reuse and handles issued
// before Clear become stale.
func (t *Tree[T, C]) Clear() {
	t.free = t.free[:0]
	for i := len(t.nodes) - 1; i >= 0; i-- {
		n := &t.nodes[i]
		if n.live {
			t.release(n)
		}
		t.free = append(t.free, int32(i))
	}
	t.root = none
	t.size = 0
}

func (t *Tree[T, C]) valid(h Handle) bool {
	if h.gen == 0 || h.slot < 0 || int(h.slot) >= len(t.nodes) {
		return false
	}
	n := &t.nodes[h.slot]
	return n.live && n.gen == h.gen
}

func (t *Tree[T, C]) handle(i int32) Handle {
	if i == none {
		return NoHandle
	}
	return Handle{slot: i, gen: t.nodes[i].gen}
}

// alloc takes a slot from the free stack or grows the arena.
func (t *Tree[T, C]) alloc(v T) (int32, error) {
	if t.size >= t.limit {
		return none, errors.Wrapf(ErrCapacityExhausted, "limit %d", t.limit)
	}
	var i int32
	if k := len(t.free); k > 0 {
		i = t.free[k-1]
		t.free = t.free[:k-1]
	} else {
		if len(t.nodes) >= math.MaxInt32 {
			return none, errors.Wrap(ErrCapacityExhausted, "slot space")
		}
		t.nodes = append(t.nodes, node[T]{gen: 1})
		i = int32(len(t.nodes) - 1)
	}
	n := &t.nodes[i]
	n.value = v
	n.parent = none
	n.child = [2]int32{none, none}
	n.balance = 0
	n.live = true
	t.size++
	return i, nil
}

// freeSlot returns slot i to the free stack.
func (t *Tree[T, C]) freeSlot(i int32) {
	t.release(&t.nodes[i])
	t.free = append(t.free, i)
	t.size--
}

func (t *Tree[T, C]) release(n *node[T]) {
	var zero T
	n.value = zero
	n.live = false
	n.gen++
	if n.gen == 0 {
		n.gen = 1
	}
}

func (t *Tree[T, C]) setChild(p int32, side int, c int32) {
	t.nodes[p].child[side] = c
	if c != none {
		t.nodes[c].parent = p
	}
}

// side returns which child of p the node c is.
func (t *Tree[T, C]) side(p, c int32) int {
	if t.nodes[p].child[right] == c {
		return right
	}
	return left
}

// replaceChild puts c where old hung below p, or at the root.
func (t *Tree[T, C]) replaceChild(p, old, c int32) {
	if p == none {
		t.root = c
		if c != none {
			t.nodes[c].parent = none
		}
		return
	}
	t.setChild(p, t.side(p, old), c)
}

func sign(side int) int8 {
	if side == right {
		return 1
	}
	return -1
}
