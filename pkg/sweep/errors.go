package sweep

import (
	"math"

	"github.com/0x0FACED/go-sweepline/pkg/avltree"
	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"
)

var (
	ErrInvalidEpsilon    = errors.New("sweep: epsilon must be positive and finite")
	ErrInvalidOption     = errors.New("sweep: invalid option")
	ErrNonFinite         = errors.New("sweep: non-finite coordinate")
	ErrDegenerateSegment = errors.New("sweep: zero-length segment")
	ErrMalformedSegment  = errors.New("sweep: segment end precedes its start")

	ErrCapacityExhausted = avltree.ErrCapacityExhausted
	ErrStaleHandle       = avltree.ErrStaleHandle
)

// Validate checks segments against the input contract of Run and returns
// every problem found, combined with multierr. Segments must be oriented as
// Normalize(s, eps) orients them.
func Validate(segs []Segment, eps float64) error {
	var err error
	for i, s := range segs {
		switch {
		case !s.Start.IsFinite() || !s.End.IsFinite():
			err = multierr.Append(err, errors.Wrapf(ErrNonFinite, "segment %d %v", i, s))
		case s.Start.Equals(s.End, eps):
			err = multierr.Append(err, errors.Wrapf(ErrDegenerateSegment, "segment %d %v", i, s))
		case !s.Start.Before(s.End, eps):
			err = multierr.Append(err, errors.Wrapf(ErrMalformedSegment, "segment %d %v", i, s))
		}
	}
	return err
}

func validEpsilon(eps float64) bool {
	return eps > 0 && !math.IsInf(eps, 0) && !math.IsNaN(eps)
}
