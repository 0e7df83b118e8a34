// SPDX-License-Identifier: MIT
// Package gibbs: sentinel error set.
// Every failure surfaced by the engine wraps one of these sentinels with the
// offending variable or iteration; callers match with errors.Is.

package gibbs

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateVariable is returned when two variables share a name.
	ErrDuplicateVariable = errors.New("gibbs: duplicate variable name")

	// ErrNilVariable is returned when a nil *Variable is passed to a sampler.
	ErrNilVariable = errors.New("gibbs: nil variable")

	// ErrEmptyName is returned when a variable is constructed without a name.
	ErrEmptyName = errors.New("gibbs: empty variable name")

	// ErrNoConditional is returned when a sampled variable has no Conditional.
	ErrNoConditional = errors.New("gibbs: sampled variable without conditional")

	// ErrMalformedValue signals a nil, non-finite or mis-shaped initial/true value.
	ErrMalformedValue = errors.New("gibbs: malformed value")

	// ErrNoInitialValue is returned when a variable has no value when sampling starts.
	ErrNoInitialValue = errors.New("gibbs: no initial value")

	// ErrNoTrueValue is returned when the true value is requested but was never supplied.
	ErrNoTrueValue = errors.New("gibbs: true value requested but not supplied")

	// ErrNegativeVariance signals a posterior variance below -VarianceTolerance.
	ErrNegativeVariance = errors.New("gibbs: negative variance")

	// ErrInaccurate is returned under AccuracyRaise when a final value misses its true value.
	ErrInaccurate = errors.New("gibbs: final value not accurate")

	// ErrFitUnsupported is returned by Fitter implementations that cannot compute a fit.
	// The engine disables fit diagnostics for the rest of the run instead of failing.
	ErrFitUnsupported = errors.New("gibbs: fit not supported")

	// ErrInvalidState is returned when a lifecycle operation is called out of order.
	ErrInvalidState = errors.New("gibbs: invalid variable state")

	// ErrAlreadyRun is returned when a sampler is reconfigured or re-run after RunSampling.
	ErrAlreadyRun = errors.New("gibbs: sampler already run")

	// ErrInvalidIterations is returned for a non-positive iteration count.
	ErrInvalidIterations = errors.New("gibbs: iterations must be > 0")

	// ErrInvalidSweeps is returned when the burn-in exceeds the iteration count.
	ErrInvalidSweeps = errors.New("gibbs: sweeps must not exceed iterations")

	// ErrDuplicateTrack is returned when a tracked quantity name is reused on a variable.
	ErrDuplicateTrack = errors.New("gibbs: duplicate tracked quantity")

	// ErrNoChains is returned by RunChains for a non-positive chain count.
	ErrNoChains = errors.New("gibbs: chain count must be > 0")

	// ErrSharedHooks is returned by RunChains when WithHooks is among the base options.
	ErrSharedHooks = errors.New("gibbs: hooks must be built per chain")
)

// variableErrorf wraps err with the variable name and an operation tag.
func variableErrorf(name, op string, err error) error {
	return fmt.Errorf("variable %q: %s: %w", name, op, err)
}
