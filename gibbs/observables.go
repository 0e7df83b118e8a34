// SPDX-License-Identifier: MIT
// Package gibbs - online observables (posterior mean and variance).
//
// Update order per call, element-wise, after n is incremented:
//
//	cumul  += x
//	mean    = cumul / n
//	cumul3 += (x - mean)²     // deviation from the already-updated mean
//	error   = cumul3 / n      // n >= 2, else VarianceFloor
//
// This is not Welford's recurrence: the squared deviation is taken against
// the mean that already includes x. Outputs depend on this exact order.

package gibbs

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

const (
	// VarianceFloor is the smallest variance ever reported (float64 machine epsilon).
	VarianceFloor = 2.220446049250313e-16

	// VarianceTolerance bounds how negative a variance may get from rounding
	// before it is treated as an invariant violation.
	VarianceTolerance = 1e-10
)

// InitObservables zeroes the accumulators, the observation counter and the
// observable histories. Calling it twice is equivalent to calling it once.
func (v *Variable) InitObservables() error {
	if err := v.expect("init observables", StateInitialized, StateWarmedUp); err != nil {
		return err
	}
	if v.value == nil {
		return variableErrorf(v.name, "init observables", ErrNoInitialValue)
	}
	v.nObs = 0
	v.cumul = ndarray.ZerosLike(v.value)
	v.cumul3 = ndarray.ZerosLike(v.value)
	v.mean = ndarray.ZerosLike(v.value)
	v.errv = ndarray.FullLike(v.value, VarianceFloor)
	v.smplHistory, v.smplIts = nil, nil
	v.meanHistory, v.errHistory, v.obsIts = nil, nil, nil

	return nil
}

// UpdateObservables folds the current value into the running mean and variance.
//
// Errors:
//   - ErrInvalidState outside WarmedUp/Sampling or before InitObservables.
//   - ErrMalformedValue if the value changed shape.
//   - ErrNegativeVariance if the value is not finite (also ndarray.ErrNaNInf)
//     or an element's variance drops below -VarianceTolerance.
func (v *Variable) UpdateObservables() error {
	if err := v.expect("update observables", StateWarmedUp, StateSampling); err != nil {
		return err
	}
	if v.cumul == nil {
		return variableErrorf(v.name, "update observables", fmt.Errorf("%w: observables not initialized", ErrInvalidState))
	}
	if !ndarray.SameShape(v.value, v.cumul) {
		return variableErrorf(v.name, "update observables", fmt.Errorf("shape %v vs %v: %w",
			v.value.Shape(), v.cumul.Shape(), ErrMalformedValue))
	}

	if err := ndarray.ValidateFinite(v.value); err != nil {
		return variableErrorf(v.name, "update observables",
			fmt.Errorf("observation %d: %w: %w", v.nObs+1, ErrNegativeVariance, err))
	}
	if err := v.cumul.AddInPlace(v.value); err != nil {
		return variableErrorf(v.name, "update observables", err)
	}

	v.nObs++
	n := float64(v.nObs)
	x := v.value.Data()
	c, c3 := v.cumul.Data(), v.cumul3.Data()
	m, e := v.mean.Data(), v.errv.Data()
	for i := range x {
		m[i] = c[i] / n
		d := x[i] - m[i]
		c3[i] += d * d
		if v.nObs < 2 {
			e[i] = VarianceFloor
			continue
		}
		e[i] = c3[i] / n
		if e[i] < -VarianceTolerance || math.IsNaN(e[i]) {
			return variableErrorf(v.name, "update observables",
				fmt.Errorf("element %d=%g after %d observations: %w", i, e[i], v.nObs, ErrNegativeVariance))
		}
		if e[i] < VarianceFloor {
			e[i] = VarianceFloor
		}
	}

	return nil
}

// CleanObservables releases the accumulators and the current value.
// Mean, variance, histories and the final value stay readable.
func (v *Variable) CleanObservables() error {
	if err := v.expect("clean observables", StateFinalized, StateOutputExtracted); err != nil {
		return err
	}
	v.cumul, v.cumul3 = nil, nil
	v.value = nil
	v.state = StateCleaned

	return nil
}
