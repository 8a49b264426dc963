package main

import (
	"math/rand/v2"
	"time"

	"github.com/0x0FACED/go-sweepline/pkg/geoio"
	"github.com/0x0FACED/go-sweepline/pkg/sweep"
	"github.com/0x0FACED/go-sweepline/pkg/sweep/sweeptest"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	count  int
	size   float64
	maxLen float64
	grid   bool
	seed   uint64
	format string
}

func newGenerateCommand() *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Writes random or grid segments, e.g. as input for run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := geoio.ParseFormat(f.format)
			if err != nil {
				return err
			}
			if f.count < 1 || !(f.size > 0) || !(f.maxLen > 0) {
				return errors.New("count, size and max-len must be positive")
			}
			seed := f.seed
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			var segs []sweep.Segment
			if f.grid {
				segs = gridSegments(f.count, f.size, f.size)
			} else {
				segs = sweeptest.RandomSegments(rand.New(rand.NewPCG(seed, 0)), f.count, f.size, f.maxLen)
			}
			return geoio.WriteSegments(cmd.OutOrStdout(), segs, format)
		},
	}
	cmd.Flags().IntVarP(&f.count, "count", "n", 100, "number of segments")
	cmd.Flags().Float64Var(&f.size, "size", 1000, "side of the square the segments start in")
	cmd.Flags().Float64Var(&f.maxLen, "max-len", 200, "longest random segment")
	cmd.Flags().BoolVar(&f.grid, "grid", false, "horizontal and vertical grid lines instead of random segments")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed, the current time if unset")
	cmd.Flags().StringVar(&f.format, "format", "wkt", "wkt or geojson")
	return cmd
}

// gridSegments lays n lines out as a grid, half of them horizontal and the
// rest vertical.
func gridSegments(n int, width, height float64) []sweep.Segment {
	rows := n / 2
	return sweeptest.Grid(rows, n-rows, width, height)
}
