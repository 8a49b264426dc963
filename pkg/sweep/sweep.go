// Package sweep finds the intersection points of a set of line segments with
// a Bentley-Ottmann sweep. The sweep line moves from top to bottom; events
// on the same horizontal line are handled left to right.
//
// Comparisons use a tolerance instead of exact predicates. When floating
// point drift leaves the status structure out of order, a segment can no
// longer be found for removal; the sweep then rebuilds the structure at the
// current event (a restart) instead of failing.
package sweep

import (
	"context"
	"math"
	"time"

	"github.com/0x0FACED/go-sweepline/pkg/avltree"
	"github.com/0x0FACED/go-sweepline/pkg/logger"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultEpsilon     = 1e-9
	DefaultMaxRestarts = 64
)

// Stats describes a finished sweep.
type Stats struct {
	Segments      int
	Events        int
	Intersections int
	Restarts      int
	// Faulty counts segments that could not be found for removal.
	Faulty    int
	MaxStatus int
	// Degraded is set when a removal failed and no restart repaired it,
	// because restarts are disabled or the budget was spent. The result may
	// then miss intersections.
	Degraded bool
	Duration time.Duration
}

type Result struct {
	Points []Point
	Stats  Stats
}

type options struct {
	eps         float64
	restart     bool
	maxRestarts int
	maxEvents   int
	lg          *logger.ZapLogger
}

type Option func(*options)

// WithEpsilon sets the coordinate tolerance. Event deduplication uses a
// tenth of it.
func WithEpsilon(eps float64) Option {
	return func(o *options) { o.eps = eps }
}

// WithRestartOnPrecisionErrors enables rebuilding the status structure when a
// segment cannot be removed. On by default.
func WithRestartOnPrecisionErrors(on bool) Option {
	return func(o *options) { o.restart = on }
}

// WithMaxRestarts bounds the number of restarts in one run.
func WithMaxRestarts(n int) Option {
	return func(o *options) { o.maxRestarts = n }
}

// WithMaxEvents caps the number of pending events. Run fails with
// ErrCapacityExhausted when the queue would grow past it. Zero means no cap.
func WithMaxEvents(n int) Option {
	return func(o *options) { o.maxEvents = n }
}

func WithLogger(lg *logger.ZapLogger) Option {
	return func(o *options) { o.lg = lg }
}

// Sweeper runs sweeps with a fixed configuration. It is safe for concurrent
// use; each Run takes its own workspace from an internal pool.
type Sweeper struct {
	opts options
	pool *pool
}

func New(opts ...Option) (*Sweeper, error) {
	o := options{
		eps:         DefaultEpsilon,
		restart:     true,
		maxRestarts: DefaultMaxRestarts,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !validEpsilon(o.eps) {
		return nil, errors.Wrapf(ErrInvalidEpsilon, "got %g", o.eps)
	}
	if o.maxRestarts < 0 {
		return nil, errors.Wrapf(ErrInvalidOption, "max restarts %d", o.maxRestarts)
	}
	if o.maxEvents < 0 {
		return nil, errors.Wrapf(ErrInvalidOption, "max events %d", o.maxEvents)
	}
	if o.lg == nil {
		o.lg = logger.NewNop()
	}
	return &Sweeper{opts: o, pool: newPool(o.maxEvents)}, nil
}

func (s *Sweeper) Epsilon() float64 { return s.opts.eps }

// Run returns the points where two or more segments meet. Every segment must
// start before it ends in sweep order (see Normalize). A point where several
// segments meet is reported once. Collinear overlaps are reported by the
// ends of the shared piece. Segments horizontal within eps are swept on their
// mean line, so points on them may be off by up to eps/2.
func (s *Sweeper) Run(ctx context.Context, segs []Segment) (Result, error) {
	if err := Validate(segs, s.opts.eps); err != nil {
		return Result{}, err
	}
	began := time.Now()

	w := s.pool.get()
	defer s.pool.put(w)

	r := &run{
		workspace:    w,
		opts:         &s.opts,
		lg:           s.opts.lg,
		trace:        s.opts.lg.Enabled(zapcore.DebugLevel),
		restartsLeft: s.opts.maxRestarts,
	}
	r.stats.Segments = len(segs)
	if err := r.seed(segs); err != nil {
		return Result{}, err
	}
	r.lg.Info("[sweep] started",
		zap.Int("segments", len(segs)),
		zap.Int("events", r.events.len()),
		zap.Float64("eps", s.opts.eps))

	if err := r.drain(ctx); err != nil {
		return Result{}, err
	}

	r.stats.Faulty = len(r.faulty)
	r.stats.Duration = time.Since(began)
	r.lg.Info("[sweep] done",
		zap.Int("events", r.stats.Events),
		zap.Int("intersections", r.stats.Intersections),
		zap.Int("restarts", r.stats.Restarts),
		zap.Int("faulty", r.stats.Faulty),
		zap.Int("max_status", r.stats.MaxStatus),
		zap.Duration("took", r.stats.Duration))
	return Result{Points: r.points, Stats: r.stats}, nil
}

type run struct {
	*workspace
	opts         *options
	lg           *logger.ZapLogger
	trace        bool
	stats        Stats
	points       []Point
	restartsLeft int
}

func (r *run) seed(segs []Segment) error {
	eps := r.opts.eps
	for _, s := range segs {
		r.segs = append(r.segs, newSegment(s, eps))
	}
	r.events.reset(orderEpsilon(eps))
	r.status.reset(r.segs, eps)
	for i, s := range r.segs {
		if err := r.events.addStart(s.Start, i); err != nil {
			return errors.Wrapf(err, "queue start of segment %d", i)
		}
		if _, err := r.events.add(s.End); err != nil {
			return errors.Wrapf(err, "queue end of segment %d", i)
		}
	}
	return nil
}

// drain processes events until the queue is empty.
func (r *run) drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "sweep stopped after %d events", r.stats.Events)
		}
		p, starts, ok := r.events.pop()
		if !ok {
			return nil
		}
		if err := r.step(p, starts); err != nil {
			return errors.Wrapf(err, "event %v", p)
		}
	}
}

func (r *run) step(p Point, starts []int) error {
	r.stats.Events++
	order := orderEpsilon(r.opts.eps)

	r.located = r.status.locate(p, r.located[:0])
	r.hits = r.hits[:0]
	for _, h := range r.located {
		id := r.status.value(h)
		r.hits = append(r.hits, hit{h: h, id: id, ended: compareSweep(r.segs[id].End, p, order) <= 0})
	}

	// the status order is still the one at the previous event
	restart := false
	for _, x := range r.hits {
		if r.status.remove(x.id) {
			continue
		}
		r.faulty[x.id] = struct{}{}
		if r.opts.restart && r.restartsLeft > 0 {
			restart = true
			continue
		}
		if !r.stats.Degraded {
			r.stats.Degraded = true
			r.lg.Warn("[sweep] segment lost without restart, continuing degraded",
				zap.Int("segment", x.id),
				zap.Bool("restart_enabled", r.opts.restart),
				zap.Int("restarts", r.stats.Restarts),
				zap.Stringer("at", p))
		}
		if err := r.status.tree.RemoveNode(x.h); err != nil {
			return errors.Wrapf(err, "drop segment %d", x.id)
		}
	}

	r.status.line.at = p
	r.inserted = r.inserted[:0]
	for _, id := range starts {
		if _, err := r.status.insert(id); err != nil {
			return errors.Wrapf(err, "insert segment %d", id)
		}
		r.inserted = append(r.inserted, id)
	}
	for _, x := range r.hits {
		if x.ended {
			continue
		}
		if _, err := r.status.insert(x.id); err != nil {
			return errors.Wrapf(err, "reinsert segment %d", x.id)
		}
		r.inserted = append(r.inserted, x.id)
	}
	r.stats.MaxStatus = max(r.stats.MaxStatus, r.status.tree.Len())

	if n := len(starts) + len(r.hits); n > 1 {
		r.points = append(r.points, p)
		r.stats.Intersections++
		if r.trace {
			r.lg.Debug("[sweep-event] intersection", zap.Stringer("at", p), zap.Int("segments", n))
		}
	}

	if restart {
		if err := r.restart(p); err != nil {
			return err
		}
	}

	if len(r.inserted) == 0 {
		right := r.status.rightOf(p)
		var left avltree.Handle
		if right.IsNil() {
			left = r.status.tree.Last()
		} else {
			left = r.status.tree.Prev(right)
		}
		return r.check(left, right, p)
	}

	// outermost of the segments just inserted
	lo, hi := math.Inf(1), math.Inf(-1)
	var lh, rh avltree.Handle
	for _, id := range r.inserted {
		code, h := r.status.tree.TreeCode(r.status.line, id)
		if code < lo {
			lo, lh = code, h
		}
		if code > hi {
			hi, rh = code, h
		}
	}
	if err := r.check(r.status.tree.Prev(lh), lh, p); err != nil {
		return err
	}
	return r.check(rh, r.status.tree.Next(rh), p)
}

func (r *run) restart(p Point) error {
	r.restartsLeft--
	r.stats.Restarts++
	before := r.status.tree.Len()
	var err error
	r.scratch, err = r.status.rebuild(p, r.scratch, r.seen)
	if err != nil {
		return errors.Wrap(err, "rebuild status")
	}
	r.lg.Warn("[sweep] status rebuilt",
		zap.Stringer("at", p),
		zap.Int("before", before),
		zap.Int("after", r.status.tree.Len()),
		zap.Int("restarts_left", r.restartsLeft))
	return nil
}

// check queues the crossing of two neighbouring segments if the event queue
// would still pop it after p. Crossings within eps of p belong to p.
func (r *run) check(a, b avltree.Handle, p Point) error {
	if a.IsNil() || b.IsNil() {
		return nil
	}
	eps := r.opts.eps
	ia, ib := r.status.value(a), r.status.value(b)
	x := Intersect(r.segs[ia].Segment, r.segs[ib].Segment, eps)
	if x.Kind != PointIntersection || compareSweep(x.A, p, orderEpsilon(eps)) <= 0 || x.A.Equals(p, eps) {
		return nil
	}
	added, err := r.events.add(x.A)
	if err != nil {
		return errors.Wrapf(err, "queue crossing of %d and %d", ia, ib)
	}
	if added && r.trace {
		r.lg.Debug("[sweep-event] crossing queued",
			zap.Int("a", ia), zap.Int("b", ib), zap.Stringer("at", x.A))
	}
	return nil
}
