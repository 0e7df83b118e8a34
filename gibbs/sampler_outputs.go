// SPDX-License-Identifier: MIT

package gibbs

import (
	"fmt"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

// Domain labels of the "stype" axis of the fit output.
var fitTypeDomain = []string{"fit", "observed"}

// Outputs merges every variable's outputs with the global ones:
// analysis_duration, global_history, and when fit diagnostics ran:
// fit, convergence_error, loglikelihood, bic. Hook outputs (GlobalOutputter)
// come last and may override.
func (s *Sampler) Outputs() (map[string]Output, error) {
	if !s.finished {
		return nil, fmt.Errorf("gibbs: outputs: %w: sampling has not completed", ErrInvalidState)
	}
	out := make(map[string]Output)
	for _, v := range s.vars.ordered {
		vo, err := v.Outputs()
		if err != nil {
			return nil, fmt.Errorf("gibbs: outputs: %w", err)
		}
		for k, o := range vo {
			out[k] = o
		}
	}

	out["analysis_duration"] = Output{
		Value:      ndarray.Scalar(s.analysisDuration.Seconds()),
		Axes:       []string{},
		Domains:    map[string][]string{},
		ValueLabel: "seconds",
	}
	if len(s.globalIts) > 0 {
		o, err := seriesOutput(s.globalDurations, s.globalIts, "loop_duration_s")
		if err != nil {
			return nil, fmt.Errorf("gibbs: outputs: global_history: %w", err)
		}
		out["global_history"] = o
	}

	if fd := s.fit; fd != nil {
		if fd.lastFit != nil {
			o, err := stackedOutput([]*ndarray.Array{fd.lastFit, fd.observed}, AxisFitType, fitTypeDomain, fd.axes, nil, "fit")
			if err != nil {
				return nil, fmt.Errorf("gibbs: outputs: fit: %w", err)
			}
			out["fit"] = o
		}
		series := []struct {
			key    string
			values []float64
			its    []int
		}{
			{"convergence_error", fd.convergence, fd.its},
			{"loglikelihood", fd.loglik, fd.llIts},
		}
		for _, sr := range series {
			if len(sr.values) == 0 {
				continue
			}
			o, err := seriesOutput(sr.values, sr.its, sr.key)
			if err != nil {
				return nil, fmt.Errorf("gibbs: outputs: %s: %w", sr.key, err)
			}
			out[sr.key] = o
		}
	}
	if s.hasBIC {
		out["bic"] = Output{
			Value:      ndarray.Scalar(s.bic),
			Axes:       []string{},
			Domains:    map[string][]string{},
			ValueLabel: "bic",
		}
	}

	if caps := resolveCapabilities(s.hooks); caps.outputter != nil {
		extra, err := caps.outputter.GlobalOutputs(s)
		if err != nil {
			return nil, fmt.Errorf("gibbs: global outputs: %w", err)
		}
		for k, o := range extra {
			out[k] = o
		}
	}

	return out, nil
}

// seriesOutput wraps a per-iteration scalar series.
// An empty series or one whose length differs from its iterations is rejected.
func seriesOutput(values []float64, its []int, label string) (Output, error) {
	if len(values) != len(its) {
		return Output{}, fmt.Errorf("%s: %d values for %d iterations: %w", label, len(values), len(its), ndarray.ErrDimensionMismatch)
	}
	arr, err := ndarray.FromSlice(values, len(values))
	if err != nil {
		return Output{}, fmt.Errorf("%s: %w", label, err)
	}

	return Output{
		Value:      arr,
		Axes:       []string{AxisIteration},
		Domains:    map[string][]string{AxisIteration: iterationLabels(its)},
		ValueLabel: label,
	}, nil
}
