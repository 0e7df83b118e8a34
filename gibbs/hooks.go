// SPDX-License-Identifier: MIT
// Package gibbs - extension points.
//
// Model code plugs into the engine through small interfaces instead of
// overriding base-class methods. Per-variable behaviour is a Conditional plus
// optional capabilities; sampler-wide behaviour is a hooks value passed with
// WithHooks. Capabilities are resolved once per run with type assertions.

package gibbs

import (
	"math/rand"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

// Conditional advances a variable by one draw from its full conditional.
// It reads other variables through vars and mutates only v (via v.Value() or v.SetValue).
type Conditional interface {
	SampleNext(v *Variable, vars *VariableSet, rng *rand.Rand) error
}

// ConditionalFunc adapts a function to Conditional.
type ConditionalFunc func(v *Variable, vars *VariableSet, rng *rand.Rand) error

// SampleNext calls f.
func (f ConditionalFunc) SampleNext(v *Variable, vars *VariableSet, rng *rand.Rand) error {
	return f(v, vars, rng)
}

// DataLinker receives the opaque data handle passed to Sampler.LinkToData.
type DataLinker interface {
	LinkToData(v *Variable, data any) error
}

// InitSetter derives a variable's initial value (possibly from other variables)
// before sampling starts. It is skipped when the variable uses its true value.
type InitSetter interface {
	InitValue(v *Variable, vars *VariableSet) error
}

// WarmUpper runs per-variable precomputation once every variable has a value.
type WarmUpper interface {
	WarmUp(v *Variable, vars *VariableSet) error
}

// SkipSampler is the explicit "don't sample" branch taken when the sample flag is off.
type SkipSampler interface {
	SkipSample(v *Variable, vars *VariableSet) error
}

// FinalValuer overrides the default final value (the posterior mean).
type FinalValuer interface {
	FinalValue(v *Variable) (*ndarray.Array, error)
}

// ConditionNamer is implemented by data handles that enumerate experimental
// conditions; variables with a "condition" axis take their domain from it.
type ConditionNamer interface {
	ConditionNames() []string
}

// GlobalObserver maintains cross-variable statistics.
// UpdateGlobalObservables runs once per post-burn-in iteration.
type GlobalObserver interface {
	InitGlobalObservables(s *Sampler) error
	UpdateGlobalObservables(s *Sampler) error
}

// Fitter reconstructs the observed data from the current state.
// Returning ErrFitUnsupported disables fit diagnostics for the run.
type Fitter interface {
	ComputeFit(s *Sampler) (*ndarray.Array, error)
}

// FitAxesProvider names the axes of the fit (and of the observed data).
type FitAxesProvider interface {
	FitAxes() []string
}

// StopCriterion ends the loop early; it is checked before each iteration.
type StopCriterion interface {
	Stop(it int, s *Sampler) bool
}

// BICComputer supplies a model-specific BIC from the final log-likelihood.
type BICComputer interface {
	ComputeBIC(loglik float64, s *Sampler) (float64, error)
}

// ParameterCounter enables the default BIC, -loglik + p/2·ln(n).
type ParameterCounter interface {
	NumParameters() int
}

// SamplerFinalizer runs once after every variable is finalized.
type SamplerFinalizer interface {
	FinalizeSampling(s *Sampler) error
}

// GlobalOutputter contributes model-specific global outputs.
type GlobalOutputter interface {
	GlobalOutputs(s *Sampler) (map[string]Output, error)
}
