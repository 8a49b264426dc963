package sweep

import (
	"sync"

	"github.com/0x0FACED/go-sweepline/pkg/avltree"
)

// workspace holds the scratch state of one sweep. It is reused across runs
// so the tree arenas and slices keep their capacity.
type workspace struct {
	events *eventQueue
	status *status
	segs   []segment

	located  []avltree.Handle
	hits     []hit
	inserted []int
	scratch  []int
	seen     map[int]struct{}
	faulty   map[int]struct{}
}

// hit is a status entry found at the current event.
type hit struct {
	h     avltree.Handle
	id    int
	ended bool
}

func newWorkspace(maxEvents int) *workspace {
	return &workspace{
		events: newEventQueue(maxEvents),
		status: newStatus(),
		seen:   make(map[int]struct{}),
		faulty: make(map[int]struct{}),
	}
}

// release drops references to caller data before the workspace is pooled.
func (w *workspace) release() {
	w.events.tree.Clear()
	w.status.tree.Clear()
	w.status.line.segs = nil
	w.segs = w.segs[:0]
	clear(w.seen)
	clear(w.faulty)
}

type pool struct {
	p sync.Pool
}

func newPool(maxEvents int) *pool {
	return &pool{p: sync.Pool{
		New: func() any { return newWorkspace(maxEvents) },
	}}
}

func (p *pool) get() *workspace {
	return p.p.Get().(*workspace)
}

func (p *pool) put(w *workspace) {
	w.release()
	p.p.Put(w)
}
