// Package batch runs independent sweeps over several segment sets in
// parallel.
package batch

import (
	"context"
	"runtime"

	"github.com/0x0FACED/go-sweepline/pkg/sweep"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// Runner is satisfied by *sweep.Sweeper.
type Runner interface {
	Run(ctx context.Context, segs []sweep.Segment) (sweep.Result, error)
}

type Batch struct {
	Name     string
	Segments []sweep.Segment
}

// Run sweeps every batch with at most workers sweeps in flight and returns
// the results in batch order. The first failure cancels the remaining
// sweeps. workers <= 0 uses GOMAXPROCS.
func Run(ctx context.Context, r Runner, batches []Batch, workers int) ([]sweep.Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]sweep.Result, len(batches))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, b := range batches {
		g.Go(func() error {
			res, err := r.Run(ctx, b.Segments)
			if err != nil {
				return errors.Wrapf(err, "batch %q", b.Name)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
