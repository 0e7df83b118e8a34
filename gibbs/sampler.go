// SPDX-License-Identifier: MIT
// Package gibbs - Sampler: ordered variables plus loop configuration.
//
// A Sampler is single-use: configure it, LinkToData, RunSampling once, then
// read Outputs and profiles. Variables are sampled in construction order;
// a variable sampled later in an iteration sees the values already drawn
// earlier in the same iteration (systematic scan).

package gibbs

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sampler drives the Gibbs loop over a fixed set of variables.
type Sampler struct {
	vars *VariableSet

	iterations      int
	sweeps          int
	samplePace      int
	observablesPace int
	globalPace      int

	callback Callback
	accuracy AccuracyPolicy
	logger   *zap.Logger
	hooks    any
	progress float64

	rng    *rand.Rand
	seed   int64
	seeded bool
	runID  string

	started  bool
	finished bool

	// timing
	varTime          []time.Duration
	samplingTime     time.Duration
	analysisDuration time.Duration
	finalIteration   int

	// global history
	globalIts       []int
	globalDurations []float64

	fit    *fitDiagnostics
	bic    float64
	hasBIC bool
}

// NewSampler builds a sampler over vars (sampling order = slice order).
//
// Errors:
//   - ErrNilVariable / ErrDuplicateVariable for a bad variable list.
//   - ErrInvalidSweeps when the burn-in exceeds the iteration count.
func NewSampler(vars []*Variable, opts ...Option) (*Sampler, error) {
	set, err := NewVariableSet(vars...)
	if err != nil {
		return nil, fmt.Errorf("gibbs: new sampler: %w", err)
	}
	o := gatherOptions(opts...)
	if o.sweeps != SweepsUnset && o.sweeps > o.iterations {
		return nil, fmt.Errorf("gibbs: new sampler: sweeps=%d iterations=%d: %w", o.sweeps, o.iterations, ErrInvalidSweeps)
	}

	s := &Sampler{
		vars:            set,
		iterations:      o.iterations,
		sweeps:          o.sweeps,
		samplePace:      o.samplePace,
		observablesPace: o.observablesPace,
		globalPace:      o.globalPace,
		callback:        o.callback,
		accuracy:        o.accuracy,
		logger:          o.logger,
		hooks:           o.hooks,
		progress:        o.progress,
		seed:            o.seed,
		seeded:          o.seeded,
		runID:           uuid.NewString(),
		varTime:         make([]time.Duration, set.Len()),
		finalIteration:  -1,
	}
	switch {
	case o.rng != nil:
		s.rng = o.rng
	case o.seeded:
		s.rng = rngFromSeed(o.seed)
	default:
		s.rng = rngFromClock()
	}

	return s, nil
}

// LinkToData hands the opaque data handle to every variable and resolves
// "condition" axis domains from a ConditionNamer.
func (s *Sampler) LinkToData(data any) error {
	if s.started {
		return fmt.Errorf("gibbs: link to data: %w", ErrAlreadyRun)
	}
	for _, v := range s.vars.ordered {
		if err := v.linkToData(data); err != nil {
			return fmt.Errorf("gibbs: link to data: %w", err)
		}
	}

	return nil
}

// SetIterations changes the iteration count and rescales sweeps and the
// three paces by n/old, rounding to nearest. A positive pace never rounds
// below 1. Setting the current count again changes nothing.
func (s *Sampler) SetIterations(n int) error {
	if s.started {
		return fmt.Errorf("gibbs: set iterations: %w", ErrAlreadyRun)
	}
	if n <= 0 {
		return fmt.Errorf("gibbs: set iterations %d: %w", n, ErrInvalidIterations)
	}
	if n == s.iterations {
		return nil
	}
	ratio := float64(n) / float64(s.iterations)
	if s.sweeps != SweepsUnset {
		s.sweeps = int(math.Round(float64(s.sweeps) * ratio))
		if s.sweeps > n {
			s.sweeps = n
		}
	}
	s.samplePace = rescalePace(s.samplePace, ratio)
	s.observablesPace = rescalePace(s.observablesPace, ratio)
	s.globalPace = rescalePace(s.globalPace, ratio)
	s.iterations = n

	return nil
}

func rescalePace(p int, ratio float64) int {
	if p <= 0 {
		return p
	}
	r := int(math.Round(float64(p) * ratio))
	if r < 1 {
		r = 1
	}

	return r
}

// paceHit reports whether iteration it falls on pace p.
func paceHit(p, it int) bool { return p > 0 && it%p == 0 }

// Variable looks a variable up by name.
func (s *Sampler) Variable(name string) (*Variable, bool) { return s.vars.Get(name) }

// Variables returns the variables in sampling order.
func (s *Sampler) Variables() []*Variable { return s.vars.All() }

// VariableSet returns the name-indexed view handed to conditionals.
func (s *Sampler) VariableSet() *VariableSet { return s.vars }

// Iterations returns the configured loop length.
func (s *Sampler) Iterations() int { return s.iterations }

// Sweeps returns the burn-in; iterations/3 while unset.
func (s *Sampler) Sweeps() int {
	if s.sweeps == SweepsUnset {
		return s.iterations / 3
	}

	return s.sweeps
}

// Paces returns the sample, observables and global paces.
func (s *Sampler) Paces() (sample, observables, global int) {
	return s.samplePace, s.observablesPace, s.globalPace
}

// FinalIteration returns the last iteration executed, or -1.
func (s *Sampler) FinalIteration() int { return s.finalIteration }

// RunID identifies the run in logs and reports.
func (s *Sampler) RunID() string { return s.runID }

// Rand returns the sampler's generator.
func (s *Sampler) Rand() *rand.Rand { return s.rng }

// Seed returns the seed and whether one was set.
func (s *Sampler) Seed() (int64, bool) { return s.seed, s.seeded }

// Logger returns the sampler's logger.
func (s *Sampler) Logger() *zap.Logger { return s.logger }

// Hooks returns the hooks value given with WithHooks.
func (s *Sampler) Hooks() any { return s.hooks }

// AnalysisDuration is the wall time of the whole RunSampling call after setup.
func (s *Sampler) AnalysisDuration() time.Duration { return s.analysisDuration }

// SamplingTime is the wall time of the iteration loop.
func (s *Sampler) SamplingTime() time.Duration { return s.samplingTime }

// VariableTime returns the cumulative time spent in one variable's SampleNext.
func (s *Sampler) VariableTime(name string) time.Duration {
	for i, v := range s.vars.ordered {
		if v.name == name {
			return s.varTime[i]
		}
	}

	return 0
}

// BIC returns the post-run BIC and whether it was computed.
func (s *Sampler) BIC() (float64, bool) { return s.bic, s.hasBIC }
