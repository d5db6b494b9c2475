// Package config reads settings from defaults, the environment and flags,
// in that order of precedence from lowest to highest.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/poweringforward/poweringforward/internal/dataset"
)

const (
	DefaultDataPath = "data/eia_renewable_data.csv"
	defaultAddr     = "0.0.0.0:8080"
)

type Config struct {
	DataPath        string `validate:"required"`
	Addr            string `validate:"required"`
	Sheet           string
	MinYear         int `validate:"gte=0"`
	MaxYear         int `validate:"omitempty,gtefield=MinYear"`
	Producer        string
	AllSources      bool
	SentryDSN       string        `validate:"omitempty,url"`
	Mode            string        `validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

func Default() Config {
	return Config{
		DataPath:        DefaultDataPath,
		Addr:            defaultAddr,
		Producer:        dataset.TotalProducer,
		Mode:            "release",
		ShutdownTimeout: 10 * time.Second,
	}
}

// FromEnv overlays the environment on the defaults. Malformed numbers and
// booleans are all reported together.
func FromEnv() (Config, error) {
	c := Default()
	var errs *multierror.Error

	c.DataPath = GetEnv("PF_DATA_PATH", c.DataPath)
	if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	c.Sheet = GetEnv("PF_SHEET", c.Sheet)
	c.Producer = GetEnv("PF_PRODUCER", c.Producer)
	c.SentryDSN = GetEnv("SENTRY_DSN", c.SentryDSN)
	c.Mode = GetEnv("GIN_MODE", c.Mode)

	var err error
	if c.MinYear, err = envInt("PF_MIN_YEAR", c.MinYear); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.MaxYear, err = envInt("PF_MAX_YEAR", c.MaxYear); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.AllSources, err = envBool("PF_ALL_SOURCES", c.AllSources); err != nil {
		errs = multierror.Append(errs, err)
	}
	if v, ok := os.LookupEnv("PF_SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("PF_SHUTDOWN_TIMEOUT: %w", err))
		} else {
			c.ShutdownTimeout = d
		}
	}

	return c, errs.ErrorOrNil()
}

// BindFlags registers the dataset and server flags on fs with c's current
// values as defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DataPath, "data", c.DataPath, "dataset file (.csv or .xlsx)")
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.Sheet, "sheet", c.Sheet, "worksheet to read from an .xlsx dataset")
	fs.IntVar(&c.MinYear, "min-year", c.MinYear, "first year to include (0 = no limit)")
	fs.IntVar(&c.MaxYear, "max-year", c.MaxYear, "last year to include (0 = no limit)")
	fs.StringVar(&c.Producer, "producer", c.Producer, `producer type to keep ("" keeps all)`)
	fs.BoolVar(&c.AllSources, "all-sources", c.AllSources, "keep sources other than wind and solar")
}

// Load builds the configuration for args, parsed with fs.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	c, err := FromEnv()
	if err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	c.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DatasetOptions translates the dataset settings into loader options.
func (c Config) DatasetOptions() []dataset.Option {
	opts := []dataset.Option{
		dataset.WithProducer(c.Producer),
		dataset.WithYearRange(c.MinYear, c.MaxYear),
	}
	if c.Sheet != "" {
		opts = append(opts, dataset.WithSheet(c.Sheet))
	}
	if c.AllSources {
		opts = append(opts, dataset.WithAllSources())
	}
	return opts
}

// GetEnv returns the value of key, or fallback when it is unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
