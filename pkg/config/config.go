// Package config holds the settings shared by the sweepline commands. They
// come from an optional YAML file and are then overridden by flags.
package config

import (
	"bytes"
	"io"
	"math"
	"os"

	"github.com/0x0FACED/go-sweepline/pkg/geoio"
	"github.com/0x0FACED/go-sweepline/pkg/logger"
	"github.com/0x0FACED/go-sweepline/pkg/sweep"
	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Epsilon     float64 `yaml:"epsilon"`
	Restart     bool    `yaml:"restart"`
	MaxRestarts int     `yaml:"max_restarts"`
	MaxEvents   int     `yaml:"max_events"`
	Workers     int     `yaml:"workers"`
	LogLevel    string  `yaml:"log_level"`
	Listen      string  `yaml:"listen"`
	InFormat    string  `yaml:"in_format"`
	OutFormat   string  `yaml:"out_format"`
}

func Default() Config {
	return Config{
		Epsilon:     sweep.DefaultEpsilon,
		Restart:     true,
		MaxRestarts: sweep.DefaultMaxRestarts,
		LogLevel:    "info",
		Listen:      ":8080",
		InFormat:    string(geoio.WKT),
		OutFormat:   string(geoio.WKT),
	}
}

// Load reads path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "open config")
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode yaml")
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var err error
	invalid := func(format string, args ...any) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalid, format, args...))
	}
	if !(c.Epsilon > 0) || math.IsInf(c.Epsilon, 0) {
		invalid("epsilon %g", c.Epsilon)
	}
	if c.MaxRestarts < 0 {
		invalid("max_restarts %d", c.MaxRestarts)
	}
	if c.MaxEvents < 0 {
		invalid("max_events %d", c.MaxEvents)
	}
	if c.Workers < 0 {
		invalid("workers %d", c.Workers)
	}
	if _, perr := c.Level(); perr != nil {
		invalid("log_level %q", c.LogLevel)
	}
	if f, ferr := geoio.ParseFormat(c.InFormat); ferr != nil || f == geoio.Table {
		invalid("in_format %q", c.InFormat)
	}
	if _, ferr := geoio.ParseFormat(c.OutFormat); ferr != nil {
		invalid("out_format %q", c.OutFormat)
	}
	return err
}

func (c Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}

// SweepOptions translates the sweep settings.
func (c Config) SweepOptions(lg *logger.ZapLogger) []sweep.Option {
	return []sweep.Option{
		sweep.WithEpsilon(c.Epsilon),
		sweep.WithRestartOnPrecisionErrors(c.Restart),
		sweep.WithMaxRestarts(c.MaxRestarts),
		sweep.WithMaxEvents(c.MaxEvents),
		sweep.WithLogger(lg),
	}
}
