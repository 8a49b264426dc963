package sweep

import (
	"github.com/0x0FACED/go-sweepline/pkg/avltree"
)

const noGroup = -1

// event is a point the sweep has to stop at. Events where segments start
// carry a group listing those segments; segment ends and crossings do not.
type event struct {
	pos   Point
	group int
}

func compareEvents(eps float64, a, b event) int {
	return compareSweep(a.pos, b.pos, eps)
}

// eventQueue orders pending events top to bottom, left to right. It keeps
// one event per coordinate, closer ones are merged.
type eventQueue struct {
	tree   *avltree.Tree[event, float64]
	eps    float64
	groups [][]int
}

func newEventQueue(limit int) *eventQueue {
	var opts []avltree.Option
	if limit > 0 {
		opts = append(opts, avltree.WithLimit(limit))
	}
	return &eventQueue{tree: avltree.New[event, float64](compareEvents, opts...)}
}

func (q *eventQueue) reset(eps float64) {
	q.tree.Clear()
	q.eps = eps
	for i := range q.groups {
		q.groups[i] = q.groups[i][:0]
	}
	q.groups = q.groups[:0]
}

// addStart records that segment id starts at p.
func (q *eventQueue) addStart(p Point, id int) error {
	e := event{pos: p, group: noGroup}
	h := q.tree.Find(q.eps, e)
	if h.IsNil() {
		e.group = q.newGroup()
		q.groups[e.group] = append(q.groups[e.group], id)
		_, err := q.tree.Insert(q.eps, e)
		return err
	}
	e, _ = q.tree.Value(h)
	if e.group == noGroup {
		e.group = q.newGroup()
		if err := q.tree.Replace(h, e); err != nil {
			return err
		}
	}
	q.groups[e.group] = append(q.groups[e.group], id)
	return nil
}

// add enqueues a plain event at p unless one is already there. It reports
// whether a new event was created.
func (q *eventQueue) add(p Point) (bool, error) {
	if q.contains(p) {
		return false, nil
	}
	if _, err := q.tree.Insert(q.eps, event{pos: p, group: noGroup}); err != nil {
		return false, err
	}
	return true, nil
}

func (q *eventQueue) contains(p Point) bool {
	return q.tree.Contains(q.eps, event{pos: p})
}

// pop removes the first event and returns it with the segments starting there.
func (q *eventQueue) pop() (Point, []int, bool) {
	h := q.tree.First()
	e, ok := q.tree.Value(h)
	if !ok {
		return Point{}, nil, false
	}
	_ = q.tree.RemoveNode(h)
	if e.group == noGroup {
		return e.pos, nil, true
	}
	return e.pos, q.groups[e.group], true
}

func (q *eventQueue) len() int { return q.tree.Len() }

func (q *eventQueue) newGroup() int {
	if len(q.groups) < cap(q.groups) {
		q.groups = q.groups[:len(q.groups)+1]
		q.groups[len(q.groups)-1] = q.groups[len(q.groups)-1][:0]
	} else {
		q.groups = append(q.groups, nil)
	}
	return len(q.groups) - 1
}
