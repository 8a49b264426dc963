package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/0x0FACED/go-sweepline/pkg/config"
	"github.com/0x0FACED/go-sweepline/pkg/logger"
	"github.com/0x0FACED/go-sweepline/pkg/sweep"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by all commands.
type globalFlags struct {
	configPath  string
	epsilon     float64
	restart     bool
	maxRestarts int
	maxEvents   int
	logLevel    string
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "sweepline",
		Short:         "Finds the intersections of 2D line segments with a sweep line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "YAML config file")
	pf.Float64Var(&g.epsilon, "epsilon", sweep.DefaultEpsilon, "coordinate tolerance")
	pf.BoolVar(&g.restart, "restart", true, "rebuild the sweep status when a segment cannot be removed")
	pf.IntVar(&g.maxRestarts, "max-restarts", sweep.DefaultMaxRestarts, "restart budget per sweep")
	pf.IntVar(&g.maxEvents, "max-events", 0, "cap on pending events per sweep, 0 for none")
	pf.StringVar(&g.logLevel, "log-level", "info", "debug, info, warn or error")

	root.AddCommand(
		newRunCommand(g),
		newServeCommand(g),
		newGenerateCommand(),
	)
	return root
}

// load builds the effective config: defaults, then the config file, then
// every flag set on the command line.
func (g *globalFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		if cfg, err = config.Load(g.configPath); err != nil {
			return config.Config{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("epsilon") {
		cfg.Epsilon = g.epsilon
	}
	if flags.Changed("restart") {
		cfg.Restart = g.restart
	}
	if flags.Changed("max-restarts") {
		cfg.MaxRestarts = g.maxRestarts
	}
	if flags.Changed("max-events") {
		cfg.MaxEvents = g.maxEvents
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) (*logger.ZapLogger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	return logger.NewConsole(cmd.ErrOrStderr(), level), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
