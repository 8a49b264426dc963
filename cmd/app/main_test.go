package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0x0FACED/go-sweepline/pkg/config"
	"github.com/0x0FACED/go-sweepline/pkg/geoio"
	"github.com/0x0FACED/go-sweepline/pkg/logger"
	"github.com/0x0FACED/go-sweepline/pkg/metrics"
	"github.com/0x0FACED/go-sweepline/pkg/sweep"
	"github.com/0x0FACED/go-sweepline/pkg/sweep/sweeptest"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunCommand(t *testing.T) {
	in := writeFile(t, "cross.wkt", "LINESTRING (0 0, 2 2)\nLINESTRING (0 2, 2 0)\n")

	stdout, stderr, err := execute(t, "run", "--verify", "--out-format", "table", "--log-level", "warn", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1")
	assert.Contains(t, stderr, "2 segments")
	assert.Contains(t, stderr, "1 intersections")

	stdout, _, err = execute(t, "run", "--out-format", "geojson", "--log-level", "error", in, in)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stdout, "FeatureCollection"))
}

func TestRunCommandErrors(t *testing.T) {
	_, _, err := execute(t, "run")
	assert.Error(t, err)

	_, _, err = execute(t, "run", "--epsilon", "-1", writeFile(t, "a.wkt", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "epsilon")

	_, _, err = execute(t, "run", filepath.Join(t.TempDir(), "missing.wkt"))
	assert.Error(t, err)
}

func TestGenerateThenRun(t *testing.T) {
	stdout, _, err := execute(t, "generate", "--grid", "-n", "10", "--size", "100")
	require.NoError(t, err)
	segs, err := geoio.ReadSegments(strings.NewReader(stdout), geoio.WKT, sweep.DefaultEpsilon)
	require.NoError(t, err)
	require.Len(t, segs, 10)

	in := writeFile(t, "grid.wkt", stdout)
	_, stderr, err := execute(t, "run", "--verify", "--log-level", "error", in)
	require.NoError(t, err)
	assert.Contains(t, stderr, "25 intersections")

	a, _, err := execute(t, "generate", "--seed", "7", "-n", "20", "--format", "geojson")
	require.NoError(t, err)
	b, _, err := execute(t, "generate", "--seed", "7", "-n", "20", "--format", "geojson")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := writeFile(t, "sweepline.yaml", "epsilon: 1.0e-6\nmax_restarts: 3\n")
	g := &globalFlags{}
	var got config.Config
	cmd := &cobra.Command{
		Use: "check",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			got, err = g.load(cmd)
			return err
		},
	}
	cmd.Flags().StringVar(&g.configPath, "config", "", "")
	cmd.Flags().Float64Var(&g.epsilon, "epsilon", 0, "")
	cmd.Flags().IntVar(&g.maxRestarts, "max-restarts", 0, "")
	cmd.Flags().BoolVar(&g.restart, "restart", true, "")
	cmd.Flags().IntVar(&g.maxEvents, "max-events", 0, "")
	cmd.Flags().StringVar(&g.logLevel, "log-level", "", "")
	cmd.SetArgs([]string{"--config", path, "--epsilon", "1e-8"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 1e-8, got.Epsilon)
	assert.Equal(t, 3, got.MaxRestarts)
	assert.Equal(t, "info", got.LogLevel)
}

func TestViewer(t *testing.T) {
	v := &viewer{
		cfg:     config.Default(),
		lg:      logger.FromZap(zaptest.NewLogger(t)),
		metrics: metrics.New(prometheus.NewRegistry()),
	}

	form := url.Values{"layout": {"grid"}, "segments": {"6"}, "width": {"90"}, "height": {"90"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	v.handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "6 segments, 9 intersections")
	assert.Contains(t, body, "Segment intersections (sweep line)")
	assert.Contains(t, body, "6 segments on 90 x 90")
	assert.Contains(t, body, "[sweep] done")

	rec = httptest.NewRecorder()
	v.handle(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "40 segments")
}

func TestSegmentBound(t *testing.T) {
	b := segmentBound(sweeptest.Grid(2, 3, 90, 60))
	assert.Equal(t, orb.Point{0, 0}, b.Min)
	assert.Equal(t, orb.Point{90, 60}, b.Max)
}

func TestParseViewRequestClamps(t *testing.T) {
	form := url.Values{"segments": {"999999"}, "width": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	vr := parseViewRequest(req)
	assert.Equal(t, 2000, vr.segments)
	assert.Equal(t, 1000, vr.width)
	assert.False(t, vr.grid)
}
