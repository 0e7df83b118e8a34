// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/lvgibbs/config"
	"github.com/katalvlaran/lvgibbs/gibbs"
	"github.com/katalvlaran/lvgibbs/models/linreg"
	"github.com/katalvlaran/lvgibbs/ndarray"
)

type runOptions struct {
	configPath string
	overrides  []string
	chains     int
	out        string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRunCommand() *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a regression problem, sample it and write a report",
		Long: `Simulate a linear regression problem with known parameters, run one or
more independent Gibbs chains on it and write a YAML report with posterior
means, variances, accuracy against the truth and the Gelman-Rubin R-hat.

Settings come from --config (YAML) and are overridden by --set key=value,
e.g. --set iterations=2000 --set model.samples=500.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.complete(); err != nil {
				return err
			}
			defer func() { _ = o.logger.Sync() }()

			return o.run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	flags.StringArrayVar(&o.overrides, "set", nil, "override a setting, key=value (repeatable)")
	flags.IntVar(&o.chains, "chains", 0, "number of chains (overrides the configured value when > 0)")
	flags.StringVarP(&o.out, "out", "o", "", "report file (stdout when empty)")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "development logging with per-iteration progress")

	return cmd
}

// complete loads and validates the configuration and builds the logger.
func (o *runOptions) complete() error {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Apply(o.overrides); err != nil {
		return err
	}
	if o.chains > 0 {
		cfg.Chains = o.chains
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	if o.logger == nil {
		if o.logger, err = newLogger(o.verbose); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
	}

	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)

	return zc.Build()
}

func (o *runOptions) run(ctx context.Context, stdout io.Writer) error {
	cfg := o.cfg
	dataRNG := rand.New(rand.NewSource(time.Now().UnixNano()))
	if cfg.Seed != nil {
		dataRNG = rand.New(rand.NewSource(*cfg.Seed))
	}
	m := cfg.Model
	data, truth, err := linreg.Simulate(dataRNG, m.Samples, m.Regressors, m.Columns, m.NoiseVar)
	if err != nil {
		return err
	}

	opts := append(cfg.SamplerOptions(), gibbs.WithLogger(o.logger))
	if o.verbose {
		every := cfg.Iterations / 10
		if every < 1 {
			every = 1
		}
		opts = append(opts, gibbs.WithCallback(gibbs.PeriodicLogger{Logger: o.logger, Every: every}))
	}

	factory := func(_ int, opts ...gibbs.Option) (*gibbs.Sampler, *ndarray.Array, error) {
		model, err := linreg.New(data, cfg.ModelOptions()...)
		if err != nil {
			return nil, nil, err
		}
		s, err := model.NewSampler(truth, false, opts...)
		if err != nil {
			return nil, nil, err
		}

		return s, data.Observed(), nil
	}

	o.logger.Info("run started",
		zap.Int("chains", cfg.Chains),
		zap.Int("iterations", cfg.Iterations),
		zap.Int("samples", m.Samples),
		zap.Int("regressors", m.Regressors),
		zap.Int("columns", m.Columns),
	)
	start := time.Now()
	res, err := gibbs.RunChains(ctx, cfg.Chains, factory, opts...)
	if err != nil {
		return err
	}
	o.logger.Info("run finished", zap.Duration("elapsed", time.Since(start)), zap.Float64("max_rhat", res.MaxRHat()))

	rep := buildReport(cfg, truth, res)
	raw, err := rep.marshal()
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if o.out == "" {
		_, err = stdout.Write(raw)

		return err
	}
	if err := os.WriteFile(o.out, raw, 0o644); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	o.logger.Info("report written", zap.String("path", o.out))

	return nil
}
