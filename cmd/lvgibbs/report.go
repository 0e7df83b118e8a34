// SPDX-License-Identifier: MIT

package main

import (
	"math"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvgibbs/config"
	"github.com/katalvlaran/lvgibbs/gibbs"
	"github.com/katalvlaran/lvgibbs/models/linreg"
	"github.com/katalvlaran/lvgibbs/ndarray"
)

// report is the YAML document written by "run".
type report struct {
	Config  *config.Config       `yaml:"config"`
	Truth   map[string]arrayDump `yaml:"truth"`
	Chains  []chainReport        `yaml:"chains"`
	RHat    map[string]arrayDump `yaml:"rhat,omitempty"`
	MaxRHat *float64             `yaml:"max_rhat,omitempty"`
}

type chainReport struct {
	Chain          int                       `yaml:"chain"`
	RunID          string                    `yaml:"run_id"`
	FinalIteration int                       `yaml:"final_iteration"`
	Profile        string                    `yaml:"profile"`
	BIC            *float64                  `yaml:"bic,omitempty"`
	MeanRSS        []float64                 `yaml:"rss_mean,omitempty"`
	Variables      map[string]variableReport `yaml:"variables"`
}

type variableReport struct {
	Estimate     arrayDump `yaml:"estimate"`
	MCMCVar      arrayDump `yaml:"mcmc_var"`
	Observations int       `yaml:"observations"`
	Inaccurate   *int      `yaml:"inaccurate,omitempty"`
}

// arrayDump is a flattened array with its shape.
type arrayDump struct {
	Shape  []int     `yaml:"shape,flow"`
	Values []float64 `yaml:"values,flow"`
}

func dump(a *ndarray.Array) arrayDump {
	if a == nil {
		return arrayDump{}
	}

	return arrayDump{Shape: a.Shape(), Values: append([]float64(nil), a.Data()...)}
}

func buildReport(cfg *config.Config, truth *linreg.Truth, res *gibbs.ChainsResult) *report {
	rep := &report{
		Config: cfg,
		Truth: map[string]arrayDump{
			linreg.BetaName:  dump(truth.Beta),
			linreg.NoiseName: dump(truth.NoiseVar),
		},
	}
	for _, c := range res.Chains {
		s := c.Sampler
		cr := chainReport{
			Chain:          c.Chain,
			RunID:          s.RunID(),
			FinalIteration: s.FinalIteration(),
			Profile:        s.TinyProfile(),
			Variables:      make(map[string]variableReport),
		}
		if bic, ok := s.BIC(); ok {
			cr.BIC = &bic
		}
		if model, ok := s.Hooks().(*linreg.Model); ok {
			cr.MeanRSS = model.MeanRSS()
		}
		for _, v := range s.Variables() {
			vr := variableReport{
				Estimate:     dump(v.FinalValue()),
				MCMCVar:      dump(v.Error()),
				Observations: v.ObservationCount(),
			}
			if acc := v.Accuracy(); acc != nil {
				n := acc.InaccurateCount()
				vr.Inaccurate = &n
			}
			cr.Variables[v.Name()] = vr
		}
		rep.Chains = append(rep.Chains, cr)
	}
	if len(res.RHat) > 0 {
		rep.RHat = make(map[string]arrayDump, len(res.RHat))
		for name, a := range res.RHat {
			rep.RHat[name] = dump(a)
		}
		if mx := res.MaxRHat(); !math.IsNaN(mx) {
			rep.MaxRHat = &mx
		}
	}

	return rep
}

func (r *report) marshal() ([]byte, error) {
	return yaml.Marshal(r)
}
