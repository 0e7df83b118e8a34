// SPDX-License-Identifier: MIT
// Package gibbs - the sampling loop.
//
// Stages of RunSampling:
//  1. Resolve burn-in and hook capabilities (once).
//  2. Initial values for every variable, then warm-up + observables per variable.
//  3. Global observables init.
//  4. Loop: sample all → record/observe all → global observables →
//     fit diagnostics → progress projection → callback.
//  5. BIC, final values, per-variable finalization + cleanup, sampler finalizer.
//
// Cancellation (ctx) and StopCriterion are checked between iterations only.

package gibbs

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

const tracerName = "github.com/katalvlaran/lvgibbs/gibbs"

// capabilities are the optional hook interfaces the hooks value implements.
type capabilities struct {
	global    GlobalObserver
	fitter    Fitter
	fitAxes   FitAxesProvider
	stop      StopCriterion
	bic       BICComputer
	params    ParameterCounter
	finalizer SamplerFinalizer
	outputter GlobalOutputter
}

func resolveCapabilities(h any) capabilities {
	var c capabilities
	if h == nil {
		return c
	}
	c.global, _ = h.(GlobalObserver)
	c.fitter, _ = h.(Fitter)
	c.fitAxes, _ = h.(FitAxesProvider)
	c.stop, _ = h.(StopCriterion)
	c.bic, _ = h.(BICComputer)
	c.params, _ = h.(ParameterCounter)
	c.finalizer, _ = h.(SamplerFinalizer)
	c.outputter, _ = h.(GlobalOutputter)

	return c
}

// RunSampling runs the Gibbs loop. comparison, when non-nil and the hooks
// implement Fitter, enables fit diagnostics (reconstruction error,
// log-likelihood, BIC). A sampler runs at most once (ErrAlreadyRun).
//
// Any error aborts the run; outputs are then unavailable.
// The run is traced as a "gibbs.RunSampling" span of the global tracer provider.
func (s *Sampler) RunSampling(ctx context.Context, comparison *ndarray.Array) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "gibbs.RunSampling",
		trace.WithAttributes(
			attribute.String("run_id", s.runID),
			attribute.Int("iterations", s.iterations),
			attribute.Int("variables", s.vars.Len()),
		),
	)
	defer span.End()

	if err := s.runSampling(ctx, comparison); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sampling failed")

		return err
	}
	span.SetAttributes(
		attribute.Int("final_iteration", s.finalIteration),
		attribute.Bool("fit_diagnostics", s.fit != nil && len(s.fit.its) > 0),
	)

	return nil
}

func (s *Sampler) runSampling(ctx context.Context, comparison *ndarray.Array) error {
	if s.started {
		return fmt.Errorf("gibbs: run sampling: %w", ErrAlreadyRun)
	}
	s.started = true
	s.sweeps = s.Sweeps()
	caps := resolveCapabilities(s.hooks)
	log := s.logger.With(zap.String("run_id", s.runID))
	all := s.vars.ordered

	// Stage 2: initial values first, so warm-ups may read any variable.
	for _, v := range all {
		if err := v.CheckAndSetInitValue(s.vars); err != nil {
			return fmt.Errorf("gibbs: run sampling: %w", err)
		}
	}
	for _, v := range all {
		v.setBurnIn(s.sweeps)
		if err := v.SamplingWarmUp(s.vars); err != nil {
			return fmt.Errorf("gibbs: run sampling: %w", err)
		}
		if err := v.InitObservables(); err != nil {
			return fmt.Errorf("gibbs: run sampling: %w", err)
		}
	}

	// Stage 3
	if caps.global != nil {
		if err := caps.global.InitGlobalObservables(s); err != nil {
			return fmt.Errorf("gibbs: init global observables: %w", err)
		}
	}
	if comparison != nil && caps.fitter != nil {
		s.fit = newFitDiagnostics(caps.fitter, caps.fitAxes, comparison, s.iterations)
	}

	log.Info("sampling started",
		zap.Int("iterations", s.iterations),
		zap.Int("sweeps", s.sweeps),
		zap.Int("variables", len(all)),
		zap.Bool("fit_diagnostics", s.fit != nil),
	)

	// Stage 4
	start := time.Now()
	projected := false
	for it := 0; it < s.iterations; it++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("gibbs: run sampling: iteration %d: %w", it, err)
		}
		if caps.stop != nil && caps.stop.Stop(it, s) {
			log.Info("stop criterion met", zap.Int("iteration", it))
			break
		}
		itStart := time.Now()

		for i, v := range all {
			t0 := time.Now()
			if err := v.SampleNext(s.vars, s.rng); err != nil {
				return fmt.Errorf("gibbs: iteration %d: %w", it, err)
			}
			s.varTime[i] += time.Since(t0)
		}

		for _, v := range all {
			v.RecordTrajectories(it)
			if paceHit(s.samplePace, it) {
				v.SaveCurrentValue(it)
			}
			if it < s.sweeps {
				continue
			}
			if err := v.UpdateObservables(); err != nil {
				return fmt.Errorf("gibbs: iteration %d: %w", it, err)
			}
			if paceHit(s.observablesPace, it) {
				v.SaveObservables(it)
			}
		}

		if it >= s.sweeps {
			if caps.global != nil {
				if err := caps.global.UpdateGlobalObservables(s); err != nil {
					return fmt.Errorf("gibbs: iteration %d: update global observables: %w", it, err)
				}
			}
			if paceHit(s.globalPace, it) {
				s.globalIts = append(s.globalIts, it)
				s.globalDurations = append(s.globalDurations, time.Since(itStart).Seconds())
			}
		}

		if s.fit != nil && s.fit.enabled {
			if err := s.fit.update(it, s); err != nil {
				return fmt.Errorf("gibbs: iteration %d: %w", it, err)
			}
			if !s.fit.enabled {
				log.Info("fit diagnostics disabled", zap.Int("iteration", it))
			}
		}

		s.finalIteration = it

		if !projected && float64(it+1) >= s.progress*float64(s.iterations) {
			projected = true
			elapsed := time.Since(start)
			total := time.Duration(float64(elapsed) / float64(it+1) * float64(s.iterations))
			log.Info("projected sampling duration",
				zap.Int("iteration", it),
				zap.Duration("elapsed", elapsed),
				zap.Duration("projected", total),
			)
		}

		if err := s.callback.Call(it, all, s); err != nil {
			return fmt.Errorf("gibbs: iteration %d: callback: %w", it, err)
		}
	}
	s.samplingTime = time.Since(start)

	// Stage 5
	if err := s.computeBIC(caps); err != nil {
		return err
	}
	for _, v := range all {
		if err := v.resolveFinalValue(); err != nil {
			return fmt.Errorf("gibbs: run sampling: %w", err)
		}
	}
	for i, v := range all {
		if err := v.FinalizeSampling(s.accuracy, log); err != nil {
			return fmt.Errorf("gibbs: run sampling: %w", err)
		}
		s.logSummary(log, v, s.varTime[i])
		if err := v.CleanObservables(); err != nil {
			return fmt.Errorf("gibbs: run sampling: %w", err)
		}
	}
	if caps.finalizer != nil {
		if err := caps.finalizer.FinalizeSampling(s); err != nil {
			return fmt.Errorf("gibbs: finalize sampling: %w", err)
		}
	}
	s.analysisDuration = time.Since(start)
	s.finished = true

	log.Info("sampling finished",
		zap.Int("final_iteration", s.finalIteration),
		zap.Duration("sampling_time", s.samplingTime),
		zap.Duration("analysis_duration", s.analysisDuration),
	)

	return nil
}

// logSummary emits the per-variable final line.
func (s *Sampler) logSummary(log *zap.Logger, v *Variable, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("variable", v.name),
		zap.Bool("sampled", v.sampleFlag),
		zap.Int("observations", v.nObs),
		zap.Duration("elapsed", elapsed),
	}
	if v.finalValue != nil && v.finalValue.Size() <= 16 {
		fields = append(fields, zap.Float64s("final", v.finalValue.Data()))
	}
	if rep := v.accuracy; rep != nil {
		fields = append(fields, zap.Bool("accurate", rep.IsAccurate))
	}
	log.Info("variable finalized", fields...)
}
