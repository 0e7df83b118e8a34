// SPDX-License-Identifier: MIT

// Package config loads run settings for the lvgibbs CLI.
//
// A Config starts from Default(), is overlaid by a YAML file (Load) and then
// by "key=value" overrides (Apply), whose values are coerced with spf13/cast.
// SamplerOptions and ModelOptions turn the result into functional options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvgibbs/gibbs"
	"github.com/katalvlaran/lvgibbs/models/linreg"
)

// ErrInvalidConfig marks a configuration that fails Validate or cannot be parsed.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// ErrUnknownKey is returned by Apply for a key no field answers to.
var ErrUnknownKey = errors.New("config: unknown key")

// Config is the root configuration.
type Config struct {
	Iterations      int    `yaml:"iterations"`
	Sweeps          int    `yaml:"sweeps"` // -1 means iterations/3
	SamplePace      int    `yaml:"sample_pace"`
	ObservablesPace int    `yaml:"observables_pace"`
	GlobalPace      int    `yaml:"global_pace"`
	Seed            *int64 `yaml:"seed"` // nil seeds from the clock
	Chains          int    `yaml:"chains"`

	Accuracy AccuracyConfig `yaml:"accuracy"`
	Model    ModelConfig    `yaml:"model"`
}

// AccuracyConfig holds the final-value check settings.
type AccuracyConfig struct {
	Policy string  `yaml:"policy"`
	Atol   float64 `yaml:"atol"`
	Rtol   float64 `yaml:"rtol"`
}

// ModelConfig describes the simulated regression problem and its priors.
type ModelConfig struct {
	Samples    int     `yaml:"samples"`
	Regressors int     `yaml:"regressors"`
	Columns    int     `yaml:"columns"`
	NoiseVar   float64 `yaml:"noise_var"`
	PriorVar   float64 `yaml:"prior_var"`
	NoiseShape float64 `yaml:"noise_shape"`
	NoiseScale float64 `yaml:"noise_scale"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Iterations:      1000,
		Sweeps:          gibbs.SweepsUnset,
		SamplePace:      gibbs.DefaultSamplePace,
		ObservablesPace: gibbs.DefaultObservablesPace,
		GlobalPace:      gibbs.DefaultGlobalPace,
		Chains:          1,
		Accuracy: AccuracyConfig{
			Policy: gibbs.AccuracyLog.String(),
			Atol:   gibbs.DefaultAtol,
			Rtol:   gibbs.DefaultRtol,
		},
		Model: ModelConfig{
			Samples:    200,
			Regressors: 3,
			Columns:    2,
			NoiseVar:   0.25,
			PriorVar:   linreg.DefaultPriorVar,
			NoiseShape: linreg.DefaultNoiseShape,
			NoiseScale: linreg.DefaultNoiseScale,
		},
	}
}

// Load reads path over the defaults. Unknown YAML fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns Default() when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// setters maps dotted keys to coercing assignments.
var setters = map[string]func(c *Config, v string) error{
	"iterations":       intField(func(c *Config) *int { return &c.Iterations }),
	"sweeps":           intField(func(c *Config) *int { return &c.Sweeps }),
	"sample_pace":      intField(func(c *Config) *int { return &c.SamplePace }),
	"observables_pace": intField(func(c *Config) *int { return &c.ObservablesPace }),
	"global_pace":      intField(func(c *Config) *int { return &c.GlobalPace }),
	"chains":           intField(func(c *Config) *int { return &c.Chains }),
	"seed": func(c *Config, v string) error {
		if v == "" || strings.EqualFold(v, "none") {
			c.Seed = nil
			return nil
		}
		n, err := cast.ToInt64E(v)
		if err != nil {
			return err
		}
		c.Seed = &n

		return nil
	},
	"accuracy.policy": func(c *Config, v string) error {
		c.Accuracy.Policy = v
		return nil
	},
	"accuracy.atol":     floatField(func(c *Config) *float64 { return &c.Accuracy.Atol }),
	"accuracy.rtol":     floatField(func(c *Config) *float64 { return &c.Accuracy.Rtol }),
	"model.samples":     intField(func(c *Config) *int { return &c.Model.Samples }),
	"model.regressors":  intField(func(c *Config) *int { return &c.Model.Regressors }),
	"model.columns":     intField(func(c *Config) *int { return &c.Model.Columns }),
	"model.noise_var":   floatField(func(c *Config) *float64 { return &c.Model.NoiseVar }),
	"model.prior_var":   floatField(func(c *Config) *float64 { return &c.Model.PriorVar }),
	"model.noise_shape": floatField(func(c *Config) *float64 { return &c.Model.NoiseShape }),
	"model.noise_scale": floatField(func(c *Config) *float64 { return &c.Model.NoiseScale }),
}

func intField(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := cast.ToIntE(v)
		if err != nil {
			return err
		}
		*field(c) = n

		return nil
	}
}

func floatField(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return err
		}
		*field(c) = f

		return nil
	}
}

// Apply overlays "key=value" overrides in order. Keys are the dotted YAML
// paths ("iterations", "accuracy.atol", "model.samples", ...).
func (c *Config) Apply(overrides []string) error {
	for _, kv := range overrides {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("%w: override %q is not key=value", ErrInvalidConfig, kv)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		set, found := setters[key]
		if !found {
			return fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
		if err := set(c, strings.TrimSpace(val)); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
		}
	}

	return nil
}

// Validate checks every field against what the sampler and model accept.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Iterations > 0, "iterations %d must be > 0", c.Iterations)
	check(c.Sweeps >= gibbs.SweepsUnset, "sweeps %d must be >= 0 (or -1 for default)", c.Sweeps)
	check(c.Sweeps <= c.Iterations, "sweeps %d exceed iterations %d", c.Sweeps, c.Iterations)
	check(c.Chains >= 1, "chains %d must be >= 1", c.Chains)
	if _, err := gibbs.ParseAccuracyPolicy(c.Accuracy.Policy); err != nil {
		errs = append(errs, err)
	}
	check(c.Accuracy.Atol >= 0 && c.Accuracy.Rtol >= 0, "tolerances must be >= 0")
	m := c.Model
	check(m.Samples > 0 && m.Regressors > 0 && m.Columns > 0,
		"model dimensions %dx%dx%d must be positive", m.Samples, m.Regressors, m.Columns)
	check(m.NoiseVar > 0, "model.noise_var %g must be > 0", m.NoiseVar)
	check(m.PriorVar > 0, "model.prior_var %g must be > 0", m.PriorVar)
	check(m.NoiseShape > 0 && m.NoiseScale > 0, "noise prior (%g, %g) must be > 0", m.NoiseShape, m.NoiseScale)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// SamplerOptions converts the configuration into sampler options.
// Call Validate first: invalid values make the option constructors panic.
func (c *Config) SamplerOptions() []gibbs.Option {
	policy, _ := gibbs.ParseAccuracyPolicy(c.Accuracy.Policy)
	opts := []gibbs.Option{
		gibbs.WithIterations(c.Iterations),
		gibbs.WithSamplePace(c.SamplePace),
		gibbs.WithObservablesPace(c.ObservablesPace),
		gibbs.WithGlobalPace(c.GlobalPace),
		gibbs.WithAccuracyPolicy(policy),
	}
	if c.Sweeps >= 0 {
		opts = append(opts, gibbs.WithSweeps(c.Sweeps))
	}
	if c.Seed != nil {
		opts = append(opts, gibbs.WithSeed(*c.Seed))
	}

	return opts
}

// ModelOptions converts the prior and tolerance settings into linreg options.
func (c *Config) ModelOptions() []linreg.Option {
	return []linreg.Option{
		linreg.WithPriorVar(c.Model.PriorVar),
		linreg.WithNoisePrior(c.Model.NoiseShape, c.Model.NoiseScale),
		linreg.WithTolerances(c.Accuracy.Atol, c.Accuracy.Rtol),
	}
}
