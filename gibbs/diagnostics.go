// SPDX-License-Identifier: MIT
// Package gibbs - end-of-run diagnostics of a single variable.
//
// FinalizeSampling settles the final value, then (when raw samples were kept)
// computes the sample autocorrelation with a two-sided 95% normal band and
// the posterior median of post-burn-in samples, and finally checks the final
// value against the true value.
//
// Accuracy criterion, element-wise:
//
//	abs = |final - true|
//	rel = abs / max(|true|, |final|)    (0 when both are 0)
//	accurate ⇔ abs <= atol  ∨  rel <= rtol
//
// The final value is never altered by the check.

package gibbs

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

// MaxAutocorrLag caps the number of lags computed per variable.
const MaxAutocorrLag = 50

// AccuracyPolicy decides what an inaccurate final value does to the run.
type AccuracyPolicy int

const (
	// AccuracyLog logs a warning and continues (default).
	AccuracyLog AccuracyPolicy = iota
	// AccuracyRaise aborts the run with ErrInaccurate.
	AccuracyRaise
	// AccuracyIgnore records the report silently.
	AccuracyIgnore
)

// String implements fmt.Stringer.
func (p AccuracyPolicy) String() string {
	switch p {
	case AccuracyLog:
		return "log"
	case AccuracyRaise:
		return "raise"
	case AccuracyIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("AccuracyPolicy(%d)", int(p))
	}
}

// ParseAccuracyPolicy maps "raise", "log"/"print" and "ignore"/"off" to a policy.
func ParseAccuracyPolicy(s string) (AccuracyPolicy, error) {
	switch s {
	case "raise":
		return AccuracyRaise, nil
	case "log", "print", "":
		return AccuracyLog, nil
	case "ignore", "off":
		return AccuracyIgnore, nil
	default:
		return 0, fmt.Errorf("gibbs: unknown accuracy policy %q", s)
	}
}

// AccuracyReport compares a final value with its true value.
type AccuracyReport struct {
	AbsError     *ndarray.Array
	RelError     *ndarray.Array
	Inaccuracies *ndarray.Array // 1 where the element misses, else 0
	Accurate     []bool
	IsAccurate   bool
	Atol, Rtol   float64
}

// InaccurateCount returns the number of elements outside tolerance.
func (r *AccuracyReport) InaccurateCount() int {
	return int(r.Inaccuracies.Sum())
}

// resolveFinalValue sets the final value once: FinalValuer override, else the
// posterior mean, else (no observation) a copy of the current value.
func (v *Variable) resolveFinalValue() error {
	if v.finalValue != nil {
		return nil
	}
	if fv, ok := v.cond.(FinalValuer); ok {
		a, err := fv.FinalValue(v)
		if err != nil {
			return variableErrorf(v.name, "final value", err)
		}
		if a != nil {
			v.finalValue = a.Clone()

			return nil
		}
	}
	switch {
	case v.nObs > 0:
		v.finalValue = v.mean.Clone()
	case v.value != nil:
		v.finalValue = v.value.Clone()
	default:
		return variableErrorf(v.name, "final value", ErrNoInitialValue)
	}

	return nil
}

// FinalizeSampling closes the sampling phase: final value, autocorrelation,
// median and accuracy check. Under AccuracyRaise an inaccurate variable fails
// with ErrInaccurate after being finalized.
func (v *Variable) FinalizeSampling(policy AccuracyPolicy, logger *zap.Logger) error {
	if err := v.expect("finalize", StateWarmedUp, StateSampling); err != nil {
		return err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := v.resolveFinalValue(); err != nil {
		return err
	}

	if v.keepSamples {
		series := v.postBurnInSamples()
		if len(series) >= 2 {
			v.autocorr, v.acfTest = autocorrelation(series, MaxAutocorrLag)
		}
		if len(series) >= 1 {
			v.median = median(series)
		}
	}
	v.state = StateFinalized

	rep, err := v.CheckFinalValue()
	if err != nil {
		return err
	}
	if rep == nil || rep.IsAccurate {
		return nil
	}
	switch policy {
	case AccuracyRaise:
		return variableErrorf(v.name, "check final value",
			fmt.Errorf("%w: %d of %d elements outside atol=%g rtol=%g",
				ErrInaccurate, rep.InaccurateCount(), len(rep.Accurate), rep.Atol, rep.Rtol))
	case AccuracyLog:
		logger.Warn("final value not accurate",
			zap.String("variable", v.name),
			zap.Int("inaccurate", rep.InaccurateCount()),
			zap.Int("size", len(rep.Accurate)),
			zap.Float64s("abs_error", rep.AbsError.Data()),
			zap.Float64s("rel_error", rep.RelError.Data()),
		)
	}

	return nil
}

// CheckFinalValue compares the final value with the true value.
// It returns (nil, nil) when there is no true value or the variable was not
// sampled. The report is kept and exported by Outputs.
func (v *Variable) CheckFinalValue() (*AccuracyReport, error) {
	if v.trueValue == nil || !v.sampleFlag {
		return nil, nil
	}
	if v.finalValue == nil {
		return nil, variableErrorf(v.name, "check final value", fmt.Errorf("%w: no final value", ErrInvalidState))
	}
	if !ndarray.SameShape(v.finalValue, v.trueValue) {
		return nil, variableErrorf(v.name, "check final value", fmt.Errorf("shape %v vs %v: %w",
			v.finalValue.Shape(), v.trueValue.Shape(), ErrMalformedValue))
	}

	diff, err := ndarray.Sub(v.finalValue, v.trueValue)
	if err != nil {
		return nil, variableErrorf(v.name, "check final value", err)
	}
	den, err := ndarray.Maximum(ndarray.Abs(v.finalValue), ndarray.Abs(v.trueValue))
	if err != nil {
		return nil, variableErrorf(v.name, "check final value", err)
	}
	rep := &AccuracyReport{
		AbsError:     ndarray.Abs(diff),
		RelError:     ndarray.ZerosLike(v.trueValue),
		Inaccuracies: ndarray.ZerosLike(v.trueValue),
		Accurate:     make([]bool, v.trueValue.Size()),
		IsAccurate:   true,
		Atol:         v.atol,
		Rtol:         v.rtol,
	}
	ab, re, miss := rep.AbsError.Data(), rep.RelError.Data(), rep.Inaccuracies.Data()
	for i, d := range den.Data() {
		if d > 0 {
			re[i] = ab[i] / d
		}
		rep.Accurate[i] = ab[i] <= v.atol || re[i] <= v.rtol
		if !rep.Accurate[i] {
			miss[i] = 1
			rep.IsAccurate = false
		}
	}
	v.accuracy = rep

	return rep, nil
}

// postBurnInSamples returns the retained samples recorded at or after burn-in.
func (v *Variable) postBurnInSamples() []*ndarray.Array {
	i := sort.SearchInts(v.smplIts, v.burnIn)

	return v.smplHistory[i:]
}

// elementSeries extracts the time series of element k.
func elementSeries(samples []*ndarray.Array, k int, buf []float64) []float64 {
	buf = buf[:0]
	for _, s := range samples {
		buf = append(buf, s.Data()[k])
	}

	return buf
}

// autocorrelation returns acf with shape (L, S...) for lags 1..L, L = min(n-1, maxLag),
// and a mask flagging |acf| > z_{0.975}/√n. A constant series has acf 0.
func autocorrelation(samples []*ndarray.Array, maxLag int) (acf, test *ndarray.Array) {
	n := len(samples)
	lags := n - 1
	if lags > maxLag {
		lags = maxLag
	}
	shape := samples[0].Shape()
	size := samples[0].Size()
	acf = ndarray.MustNew(append([]int{lags}, shape...)...)
	test = ndarray.MustNew(append([]int{lags}, shape...)...)
	threshold := distuv.UnitNormal.Quantile(0.975) / math.Sqrt(float64(n))

	out, mask := acf.Data(), test.Data()
	series := make([]float64, 0, n)
	for k := 0; k < size; k++ {
		series = elementSeries(samples, k, series)
		mu := stat.Mean(series, nil)
		var c0 float64
		for _, x := range series {
			c0 += (x - mu) * (x - mu)
		}
		if c0 == 0 {
			continue
		}
		for lag := 1; lag <= lags; lag++ {
			var ck float64
			for t := 0; t+lag < n; t++ {
				ck += (series[t] - mu) * (series[t+lag] - mu)
			}
			r := ck / c0
			idx := (lag-1)*size + k
			out[idx] = r
			if math.Abs(r) > threshold {
				mask[idx] = 1
			}
		}
	}

	return acf, test
}

// median returns the element-wise median; even counts average the two middle values.
func median(samples []*ndarray.Array) *ndarray.Array {
	res := ndarray.ZerosLike(samples[0])
	out := res.Data()
	n := len(samples)
	series := make([]float64, 0, n)
	for k := range out {
		series = elementSeries(samples, k, series)
		sort.Float64s(series)
		if n%2 == 1 {
			out[k] = series[n/2]
		} else {
			out[k] = (series[n/2-1] + series[n/2]) / 2
		}
	}

	return res
}
