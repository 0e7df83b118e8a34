// SPDX-License-Identifier: MIT

package gibbs

import (
	"github.com/katalvlaran/lvgibbs/ndarray"
)

// Domain labels of the "type" axis of pm_<name>.
var typeDomain = []string{"estim", "true"}

// Outputs exports the variable's results, keyed by output name:
//
//	pm_<name>_hist, <name>_mcmc_var_hist     observable histories
//	<name>_smpl_hist                         raw samples
//	<name>_smpl_autocorr(_test), <name>_median
//	pm_<name>                                final value (stacked with true value on "type")
//	<name>_mcmc_var                          posterior variance
//	<name>_<track>                           tracked trajectories
//	<name>_abs_error, <name>_rel_error, <name>_inaccuracies
//
// Entries without data are omitted. Valid once the variable is finalized.
func (v *Variable) Outputs() (map[string]Output, error) {
	if err := v.expect("outputs", StateFinalized, StateOutputExtracted, StateCleaned); err != nil {
		return nil, err
	}
	out := make(map[string]Output)
	name := v.name

	if len(v.meanHistory) > 0 {
		labels := iterationLabels(v.obsIts)
		o, err := stackedOutput(v.meanHistory, AxisIteration, labels, v.axes, v.domains, v.valueLabel)
		if err != nil {
			return nil, variableErrorf(name, "outputs", err)
		}
		out["pm_"+name+"_hist"] = o
		o, err = stackedOutput(v.errHistory, AxisIteration, labels, v.axes, v.domains, v.valueLabel)
		if err != nil {
			return nil, variableErrorf(name, "outputs", err)
		}
		out[name+"_mcmc_var_hist"] = o
	}

	if len(v.smplHistory) > 0 {
		o, err := stackedOutput(v.smplHistory, AxisIteration, iterationLabels(v.smplIts), v.axes, v.domains, v.valueLabel)
		if err != nil {
			return nil, variableErrorf(name, "outputs", err)
		}
		out[name+"_smpl_hist"] = o
	}
	if v.autocorr != nil {
		out[name+"_smpl_autocorr"] = v.lagOutput(v.autocorr, "autocorrelation")
		out[name+"_smpl_autocorr_test"] = v.lagOutput(v.acfTest, "significant")
	}
	if v.median != nil {
		out[name+"_median"] = v.plainOutput(v.median)
	}

	if v.finalValue != nil {
		if v.trueValue != nil && ndarray.SameShape(v.finalValue, v.trueValue) {
			o, err := stackedOutput([]*ndarray.Array{v.finalValue, v.trueValue}, AxisType, typeDomain, v.axes, v.domains, v.valueLabel)
			if err != nil {
				return nil, variableErrorf(name, "outputs", err)
			}
			out["pm_"+name] = o
		} else {
			out["pm_"+name] = v.plainOutput(v.finalValue)
		}
	}
	if v.errv != nil && v.nObs > 0 {
		out[name+"_mcmc_var"] = v.plainOutput(v.errv)
	}

	for _, tr := range v.tracks {
		o, ok, err := tr.traj.Output()
		if err != nil {
			return nil, variableErrorf(name, "outputs", err)
		}
		if ok {
			out[name+"_"+tr.name] = o
		}
	}

	if rep := v.accuracy; rep != nil {
		out[name+"_abs_error"] = v.plainOutput(rep.AbsError)
		out[name+"_rel_error"] = v.plainOutput(rep.RelError)
		out[name+"_inaccuracies"] = v.plainOutput(rep.Inaccuracies)
	}

	if v.state == StateFinalized {
		v.state = StateOutputExtracted
	}

	return out, nil
}

// plainOutput wraps a copy of a with the variable's axes and domains.
func (v *Variable) plainOutput(a *ndarray.Array) Output {
	return Output{
		Value:      a.Clone(),
		Axes:       axisNames(v.axes, a.NDim()),
		Domains:    copyDomains(v.domains),
		ValueLabel: v.valueLabel,
	}
}

// lagOutput wraps a (lag, S...) array.
func (v *Variable) lagOutput(a *ndarray.Array, label string) Output {
	lags := a.Shape()[0]
	dom := copyDomains(v.domains)
	labels := make([]int, lags)
	for i := range labels {
		labels[i] = i + 1
	}
	dom[AxisLag] = iterationLabels(labels)

	return Output{
		Value:      a.Clone(),
		Axes:       append([]string{AxisLag}, axisNames(v.axes, a.NDim()-1)...),
		Domains:    dom,
		ValueLabel: label,
	}
}
