package main

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/0x0FACED/go-sweepline/pkg/config"
	"github.com/0x0FACED/go-sweepline/pkg/logger"
	"github.com/0x0FACED/go-sweepline/pkg/metrics"
	"github.com/0x0FACED/go-sweepline/pkg/sweep"
	"github.com/0x0FACED/go-sweepline/pkg/sweep/sweeptest"
	"github.com/0x0FACED/go-sweepline/static"
	"github.com/cockroachdb/errors"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// chartLimit caps the segments drawn as lines; all of them are still swept.
const chartLimit = 500

func newServeCommand(g *globalFlags) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves a page that sweeps generated segments and charts the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", ":8080", "listen address")
	return cmd
}

func serve(cmd *cobra.Command, cfg config.Config) error {
	lg, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	v := &viewer{cfg: cfg, lg: lg, metrics: metrics.New(reg)}

	mux := http.NewServeMux()
	mux.HandleFunc("/", v.handle)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	lg.Info("[serve] listening", zap.String("addr", cfg.Listen))

	select {
	case err := <-errc:
		return errors.Wrap(err, "listen")
	case <-cmd.Context().Done():
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	lg.Info("[serve] shutting down")
	return errors.Wrap(srv.Shutdown(ctx), "shutdown")
}

type viewer struct {
	cfg     config.Config
	lg      *logger.ZapLogger
	metrics *metrics.Metrics
}

type viewRequest struct {
	width, height int
	segments      int
	maxLen        float64
	grid          bool
}

func parseViewRequest(r *http.Request) viewRequest {
	req := viewRequest{width: 1000, height: 1000, segments: 40, maxLen: 300}
	if r.Method != http.MethodPost {
		return req
	}
	if err := r.ParseForm(); err != nil {
		return req
	}
	formInt := func(key string, def, lo, hi int) int {
		v, err := strconv.Atoi(r.FormValue(key))
		if err != nil {
			return def
		}
		return min(max(v, lo), hi)
	}
	req.width = formInt("width", req.width, 10, 100000)
	req.height = formInt("height", req.height, 10, 100000)
	req.segments = formInt("segments", req.segments, 1, 2000)
	req.maxLen = float64(formInt("length", int(req.maxLen), 1, 100000))
	req.grid = r.FormValue("layout") == "grid"
	return req
}

// handle renders the form, the chart of the last sweep and its log.
func (v *viewer) handle(w http.ResponseWriter, r *http.Request) {
	req := parseViewRequest(r)

	var segs []sweep.Segment
	if req.grid {
		segs = gridSegments(req.segments, float64(req.width), float64(req.height))
	} else {
		rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
		segs = sweeptest.RandomSegments(rng, req.segments, math.Min(float64(req.width), float64(req.height)), req.maxLen)
	}

	// each page gets its own log
	pageLog := logger.New()
	s, err := sweep.New(v.cfg.SweepOptions(pageLog)...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	res, err := s.Run(r.Context(), segs)
	if err != nil {
		v.lg.Error("[serve] sweep failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	v.metrics.Observe(res.Stats)
	v.lg.Info("[serve] swept",
		zap.Int("segments", len(segs)),
		zap.Int("intersections", len(res.Points)),
		zap.Duration("took", res.Stats.Duration))

	scatter := sweepToEcharts(req, segs, res.Points)

	fmt.Fprintln(w, static.Part1)
	fmt.Fprintf(w, "<p id=\"summary\">%d segments, %d intersections, %d events, %d restarts</p>\n",
		res.Stats.Segments, res.Stats.Intersections, res.Stats.Events, res.Stats.Restarts)
	if err := scatter.Render(w); err != nil {
		v.lg.Error("[serve] chart render failed", zap.Error(err))
	}
	fmt.Fprintln(w, static.Part2)
	fmt.Fprintln(w, pageLog.HTML())
	fmt.Fprintln(w, static.Part3)
}

// prepareScatter frames the chart on the bounding box of the swept segments.
func prepareScatter(scatter *charts.Scatter, req viewRequest, b orb.Bound) {
	label := &opts.AxisLabel{Color: "white"}
	noGrid := &opts.SplitLine{Show: opts.Bool(false)}
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: "580px",
			Width:  "1020px",
		}),
		charts.WithLegendOpts(opts.Legend{
			TextStyle: &opts.TextStyle{Color: "white"},
			Right:     "10%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:                "Segment intersections (sweep line)",
			Subtitle:             fmt.Sprintf("%d segments on %d x %d", req.segments, req.width, req.height),
			TitleBackgroundColor: "white",
			Left:                 "10%",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "value",
			Name:      "X",
			Min:       math.Floor(b.Min.X()),
			Max:       math.Ceil(b.Max.X()),
			AxisLabel: label,
			SplitLine: noGrid,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "value",
			Name:      "Y",
			Min:       math.Floor(b.Min.Y()),
			Max:       math.Ceil(b.Max.Y()),
			AxisLabel: label,
			SplitLine: noGrid,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", End: 100, FilterMode: "none", Orient: "horizontal"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", End: 100, FilterMode: "none", Orient: "vertical"}),
	)
}

// segmentBound is the bounding box of all segment ends.
func segmentBound(segs []sweep.Segment) orb.Bound {
	mp := make(orb.MultiPoint, 0, 2*len(segs))
	for _, s := range segs {
		mp = append(mp, orb.Point{s.Start.X, s.Start.Y}, orb.Point{s.End.X, s.End.Y})
	}
	return mp.Bound()
}

// sweepToEcharts draws the intersection points as a scatter series with the
// segments overlapped as lines.
func sweepToEcharts(req viewRequest, segs []sweep.Segment, pts []sweep.Point) *charts.Scatter {
	scatter := charts.NewScatter()
	prepareScatter(scatter, req, segmentBound(segs))

	data := make([]opts.ScatterData, 0, len(pts))
	for _, p := range pts {
		data = append(data, opts.ScatterData{Value: []float64{p.X, p.Y}})
	}
	scatter.AddSeries("Intersections", data).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "lightgreen",
			}),
		)

	for i, s := range segs {
		if i == chartLimit {
			break
		}
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(true)}),
			charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(true)}),
		)
		line.AddSeries("Segments", []opts.LineData{
			{Value: []float64{s.Start.X, s.Start.Y}},
			{Value: []float64{s.End.X, s.End.Y}},
		}).SetSeriesOptions(
			charts.WithLineStyleOpts(opts.LineStyle{
				Width: 1,
			}),
		)
		scatter.Overlap(line)
	}
	return scatter
}
