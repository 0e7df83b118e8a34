// SPDX-License-Identifier: MIT
// Package gibbs - fit diagnostics against observed data.
//
// Per iteration, when enabled:
//
//	convergence_error = mean_j Σ_i (y_ij - f_ij)²  /  mean_j Σ_i y_ij²
//	loglikelihood     = Σ_ij log N(y_ij | f_ij, σ²_j)    (needs a "noise_var" variable)
//
// Axis 0 of the observed array indexes i; the remaining axes are flattened
// into columns j. noise_var is either scalar-sized or one value per column;
// any other size skips the log-likelihood.

package gibbs

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

// NoiseVariableName is the variable read for the Gaussian log-likelihood.
const NoiseVariableName = "noise_var"

type fitDiagnostics struct {
	fitter   Fitter
	axes     []string
	observed *ndarray.Array
	enabled  bool

	lastFit     *ndarray.Array
	its         []int
	convergence []float64
	llIts       []int
	loglik      []float64
}

func newFitDiagnostics(f Fitter, axes FitAxesProvider, observed *ndarray.Array, iterations int) *fitDiagnostics {
	fd := &fitDiagnostics{
		fitter:      f,
		observed:    observed.Clone(),
		enabled:     true,
		its:         make([]int, 0, iterations),
		convergence: make([]float64, 0, iterations),
	}
	if axes != nil {
		fd.axes = axes.FitAxes()
	}

	return fd
}

// update computes one iteration's diagnostics. ErrFitUnsupported from the
// fitter disables diagnostics without failing the run.
func (fd *fitDiagnostics) update(it int, s *Sampler) error {
	fit, err := fd.fitter.ComputeFit(s)
	if errors.Is(err, ErrFitUnsupported) {
		fd.enabled = false

		return nil
	}
	if err != nil {
		return fmt.Errorf("compute fit: %w", err)
	}
	if !ndarray.SameShape(fit, fd.observed) {
		return fmt.Errorf("compute fit: shape %v vs observed %v: %w", fit.Shape(), fd.observed.Shape(), ErrMalformedValue)
	}
	fd.lastFit = fit.Clone()
	fd.its = append(fd.its, it)
	fd.convergence = append(fd.convergence, reconstructionError(fd.observed, fit))

	if ll, ok := gaussianLogLikelihood(fd.observed, fit, s.vars.Value(NoiseVariableName)); ok {
		fd.llIts = append(fd.llIts, it)
		fd.loglik = append(fd.loglik, ll)
	}

	return nil
}

// columns returns the column count once axis 0 is taken as rows.
func columns(a *ndarray.Array) int {
	shape := a.Shape()
	if len(shape) == 0 || shape[0] == 0 {
		return a.Size()
	}

	return a.Size() / shape[0]
}

// reconstructionError is mean_j Σ_i (y-f)² over mean_j Σ_i y².
// Zero observed energy yields 0 for a perfect fit and +Inf otherwise.
func reconstructionError(observed, fit *ndarray.Array) float64 {
	y, f := observed.Data(), fit.Data()
	cols := columns(observed)
	diff := make([]float64, len(y))
	floats.SubTo(diff, y, f)

	num := make([]float64, cols)
	den := make([]float64, cols)
	for k := range y {
		j := k % cols
		num[j] += diff[k] * diff[k]
		den[j] += y[k] * y[k]
	}
	n, d := stat.Mean(num, nil), stat.Mean(den, nil)
	if d == 0 {
		if n == 0 {
			return 0
		}

		return math.Inf(1)
	}

	return n / d
}

// gaussianLogLikelihood sums log N(y | f, σ²) with σ² from noise.
func gaussianLogLikelihood(observed, fit, noise *ndarray.Array) (float64, bool) {
	if noise == nil {
		return 0, false
	}
	cols := columns(observed)
	nv := noise.Data()
	if len(nv) != 1 && len(nv) != cols {
		return 0, false
	}
	sigma := make([]float64, len(nv))
	for j, v := range nv {
		if !(v > 0) {
			return 0, false
		}
		sigma[j] = math.Sqrt(v)
	}

	y, f := observed.Data(), fit.Data()
	var ll float64
	for k := range y {
		sd := sigma[0]
		if len(sigma) > 1 {
			sd = sigma[k%cols]
		}
		ll += distuv.Normal{Mu: f[k], Sigma: sd}.LogProb(y[k])
	}

	return ll, true
}

// computeBIC sets the post-run BIC from the last log-likelihood:
// BICComputer when present, else -ll + p/2·ln(n) (lower is better) with p
// from ParameterCounter.
func (s *Sampler) computeBIC(caps capabilities) error {
	fd := s.fit
	if fd == nil || len(fd.loglik) == 0 {
		return nil
	}
	ll := fd.loglik[len(fd.loglik)-1]
	switch {
	case caps.bic != nil:
		b, err := caps.bic.ComputeBIC(ll, s)
		if errors.Is(err, ErrFitUnsupported) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("gibbs: compute bic: %w", err)
		}
		s.bic, s.hasBIC = b, true
	case caps.params != nil:
		p := float64(caps.params.NumParameters())
		n := float64(fd.observed.Size())
		s.bic, s.hasBIC = -ll+p/2*math.Log(n), true
	}

	return nil
}

// ConvergenceError returns the reconstruction-error history and its iterations.
func (s *Sampler) ConvergenceError() ([]float64, []int) {
	if s.fit == nil {
		return nil, nil
	}

	return s.fit.convergence, s.fit.its
}

// LogLikelihood returns the log-likelihood history and its iterations.
func (s *Sampler) LogLikelihood() ([]float64, []int) {
	if s.fit == nil {
		return nil, nil
	}

	return s.fit.loglik, s.fit.llIts
}
