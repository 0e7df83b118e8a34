// SPDX-License-Identifier: MIT
// Package gibbs - functional configuration of a Sampler.
//
// This file defines:
//   - documented defaults (constants),
//   - Option constructors (panic only on nonsensical values, a programmer error),
//   - gatherOptions, which applies options over the defaults.
//
// Paces:
//   - A pace p > 0 records on iterations it with it % p == 0.
//   - A pace <= 0 never records.
//
// Randomness:
//   - WithRand wins over WithSeed; without either a clock-seeded generator is used.

package gibbs

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultIterations is the loop length when WithIterations is not given.
	DefaultIterations = 100

	// SweepsUnset asks the sampler to use iterations/3 as burn-in.
	SweepsUnset = -1

	// DefaultSamplePace keeps every raw sample.
	DefaultSamplePace = 1

	// DefaultObservablesPace saves the mean/variance every iteration.
	DefaultObservablesPace = 1

	// DefaultGlobalPace records loop timing every iteration.
	DefaultGlobalPace = 1

	// DefaultProgressFraction is the share of the run after which the
	// projected total duration is logged once.
	DefaultProgressFraction = 0.1
)

const (
	panicIterationsInvalid = "gibbs: WithIterations: n must be > 0"
	panicSweepsInvalid     = "gibbs: WithSweeps: n must be >= 0"
	panicProgressInvalid   = "gibbs: WithProgressFraction: f must be in (0, 1]"
)

// Option mutates sampler options.
type Option func(*options)

type options struct {
	iterations      int
	sweeps          int
	samplePace      int
	observablesPace int
	globalPace      int
	callback        Callback
	seed            int64
	seeded          bool
	rng             *rand.Rand
	accuracy        AccuracyPolicy
	logger          *zap.Logger
	hooks           any
	progress        float64
}

func defaultOptions() options {
	return options{
		iterations:      DefaultIterations,
		sweeps:          SweepsUnset,
		samplePace:      DefaultSamplePace,
		observablesPace: DefaultObservablesPace,
		globalPace:      DefaultGlobalPace,
		callback:        NoopCallback{},
		accuracy:        AccuracyLog,
		logger:          zap.NewNop(),
		progress:        DefaultProgressFraction,
	}
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// WithIterations sets the total number of loop iterations.
func WithIterations(n int) Option {
	if n <= 0 {
		panic(panicIterationsInvalid)
	}

	return func(o *options) { o.iterations = n }
}

// WithSweeps sets the burn-in: observables accumulate from iteration n on.
// Must not exceed the iteration count (checked by NewSampler).
func WithSweeps(n int) Option {
	if n < 0 {
		panic(panicSweepsInvalid)
	}

	return func(o *options) { o.sweeps = n }
}

// WithSamplePace keeps a raw sample every n iterations.
func WithSamplePace(n int) Option {
	return func(o *options) { o.samplePace = n }
}

// WithObservablesPace saves mean/variance every n post-burn-in iterations.
func WithObservablesPace(n int) Option {
	return func(o *options) { o.observablesPace = n }
}

// WithGlobalPace records global history every n post-burn-in iterations.
func WithGlobalPace(n int) Option {
	return func(o *options) { o.globalPace = n }
}

// WithCallback installs the per-iteration callback; nil restores the no-op.
func WithCallback(cb Callback) Option {
	return func(o *options) {
		if cb == nil {
			cb = NoopCallback{}
		}
		o.callback = cb
	}
}

// WithSeed seeds the sampler's generator.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed, o.seeded = seed, true }
}

// WithRand hands the sampler a ready generator (RunChains uses this).
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithAccuracyPolicy sets what an inaccurate final value does.
func WithAccuracyPolicy(p AccuracyPolicy) Option {
	switch p {
	case AccuracyLog, AccuracyRaise, AccuracyIgnore:
	default:
		panic(fmt.Sprintf("gibbs: WithAccuracyPolicy: unknown policy %d", int(p)))
	}

	return func(o *options) { o.accuracy = p }
}

// WithLogger sets the structured logger; nil means zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithHooks installs the model-level hooks value. Its capabilities
// (GlobalObserver, Fitter, StopCriterion, ...) are discovered by type assertion.
func WithHooks(h any) Option {
	return func(o *options) { o.hooks = h }
}

// WithProgressFraction sets when the projected duration is logged.
func WithProgressFraction(f float64) Option {
	if !(f > 0 && f <= 1) {
		panic(panicProgressInvalid)
	}

	return func(o *options) { o.progress = f }
}
