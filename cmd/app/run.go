package main

import (
	"fmt"
	"io"
	"os"

	"github.com/0x0FACED/go-sweepline/pkg/batch"
	"github.com/0x0FACED/go-sweepline/pkg/geoio"
	"github.com/0x0FACED/go-sweepline/pkg/sweep"
	"github.com/0x0FACED/go-sweepline/pkg/sweep/sweeptest"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errVerify = errors.New("result differs from the pairwise check")

type runFlags struct {
	inFormat  string
	outFormat string
	workers   int
	verify    bool
}

func newRunCommand(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Sweeps each input file and prints the intersection points",
		Long: "Each file is swept on its own, several files in parallel. " +
			"Use - to read standard input.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, g, f, args)
		},
	}
	cmd.Flags().StringVar(&f.inFormat, "in-format", "wkt", "input format: wkt or geojson")
	cmd.Flags().StringVar(&f.outFormat, "out-format", "wkt", "output format: wkt, geojson or table")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel sweeps, 0 for GOMAXPROCS")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "cross-check every result with the O(n^2) pairwise test")
	return cmd
}

func runSweep(cmd *cobra.Command, g *globalFlags, f *runFlags, files []string) error {
	cfg, err := g.load(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("in-format") {
		cfg.InFormat = f.inFormat
	}
	if flags.Changed("out-format") {
		cfg.OutFormat = f.outFormat
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	lg, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	in, _ := geoio.ParseFormat(cfg.InFormat)
	out, _ := geoio.ParseFormat(cfg.OutFormat)

	batches := make([]batch.Batch, 0, len(files))
	for _, name := range files {
		segs, err := readFile(cmd, name, in, cfg.Epsilon)
		if err != nil {
			return err
		}
		lg.Debug("[run] input read", zap.String("file", name), zap.Int("segments", len(segs)))
		batches = append(batches, batch.Batch{Name: name, Segments: segs})
	}

	s, err := sweep.New(cfg.SweepOptions(lg)...)
	if err != nil {
		return err
	}
	results, err := batch.Run(cmd.Context(), s, batches, cfg.Workers)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for i, res := range results {
		b := batches[i]
		if len(batches) > 1 && out != geoio.GeoJSON {
			fmt.Fprintf(w, "# %s\n", b.Name)
		}
		if err := geoio.WritePoints(w, res.Points, out); err != nil {
			return errors.Wrapf(err, "write %s", b.Name)
		}
		if f.verify {
			want := sweeptest.BruteForce(b.Segments, s.Epsilon())
			if !sweeptest.Equivalent(want, res.Points, s.Epsilon()*1e3) {
				return errors.Wrapf(errVerify, "%s: sweep found %d points, pairwise %d",
					b.Name, len(res.Points), len(want))
			}
		}
		printSummary(cmd.ErrOrStderr(), b.Name, res.Stats)
	}
	return nil
}

func readFile(cmd *cobra.Command, name string, f geoio.Format, eps float64) ([]sweep.Segment, error) {
	var r io.Reader = cmd.InOrStdin()
	if name != "-" {
		file, err := os.Open(name)
		if err != nil {
			return nil, errors.Wrap(err, "open input")
		}
		defer file.Close()
		r = file
	}
	segs, err := geoio.ReadSegments(r, f, eps)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return segs, nil
}

func printSummary(w io.Writer, name string, st sweep.Stats) {
	fmt.Fprintf(w, "%s: %s segments, %s events, %s intersections, %s restarts, took %s\n",
		name,
		humanize.Comma(int64(st.Segments)),
		humanize.Comma(int64(st.Events)),
		humanize.Comma(int64(st.Intersections)),
		humanize.Comma(int64(st.Restarts)),
		st.Duration)
	if st.Degraded {
		fmt.Fprintf(w, "%s: %s segments lost, result may be incomplete\n",
			name, humanize.Comma(int64(st.Faulty)))
	}
}
