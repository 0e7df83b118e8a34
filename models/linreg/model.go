// SPDX-License-Identifier: MIT

package linreg

import (
	"fmt"

	"github.com/katalvlaran/lvgibbs/gibbs"
	"github.com/katalvlaran/lvgibbs/ndarray"
)

// Prior defaults.
const (
	DefaultPriorVar   = 100.0
	DefaultNoiseShape = 1.0
	DefaultNoiseScale = 1.0
)

// Option configures New.
type Option func(*Model)

// WithPriorVar sets τ², the prior variance of every coefficient. Panics unless > 0.
func WithPriorVar(v float64) Option {
	if !(v > 0) {
		panic("linreg: WithPriorVar: variance must be > 0")
	}

	return func(m *Model) { m.priorVar = v }
}

// WithNoisePrior sets the inverse-gamma prior (a0, b0) of σ². Panics unless both > 0.
func WithNoisePrior(shape, scale float64) Option {
	if !(shape > 0 && scale > 0) {
		panic("linreg: WithNoisePrior: shape and scale must be > 0")
	}

	return func(m *Model) { m.noiseShape, m.noiseScale = shape, scale }
}

// WithTolerances sets the accuracy tolerances of both variables.
// Panics on negative values.
func WithTolerances(atol, rtol float64) Option {
	if atol < 0 || rtol < 0 {
		panic("linreg: WithTolerances: tolerances must be >= 0")
	}

	return func(m *Model) { m.atol, m.rtol = atol, rtol }
}

// Model is the hooks value handed to gibbs.WithHooks.
type Model struct {
	data       *Data
	priorVar   float64
	noiseShape float64
	noiseScale float64
	atol, rtol float64

	rssSum []float64
	rssN   int
}

// New builds a model over data.
func New(data *Data, opts ...Option) (*Model, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("linreg: %w", err)
	}
	m := &Model{
		data:       data,
		priorVar:   DefaultPriorVar,
		noiseShape: DefaultNoiseShape,
		noiseScale: DefaultNoiseScale,
		atol:       gibbs.DefaultAtol,
		rtol:       gibbs.DefaultRtol,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Data returns the model's data.
func (m *Model) Data() *Data { return m.data }

// Variables builds "beta" and "noise_var". With a truth, both carry true
// values; useTruth starts them from it.
func (m *Model) Variables(truth *Truth, useTruth bool) ([]*gibbs.Variable, error) {
	p, cols := m.data.Regressors(), m.data.Columns()
	betaOpts := []gibbs.VariableOption{
		gibbs.WithAxes(AxisRegressor, gibbs.AxisCondition),
		gibbs.WithAxisDomain(AxisRegressor, regressorNames(p)...),
		gibbs.WithValueLabel("coefficient"),
		gibbs.WithTolerances(m.atol, m.rtol),
	}
	noiseOpts := []gibbs.VariableOption{
		gibbs.WithAxes(gibbs.AxisCondition),
		gibbs.WithValueLabel("variance"),
		gibbs.WithTolerances(m.atol, m.rtol),
	}
	if truth != nil {
		if truth.Beta == nil || truth.NoiseVar == nil {
			return nil, fmt.Errorf("linreg: incomplete truth: %w", ErrDataShape)
		}
		if s := truth.Beta.Shape(); len(s) != 2 || s[0] != p || s[1] != cols {
			return nil, fmt.Errorf("linreg: truth beta %v, want [%d %d]: %w", s, p, cols, ErrDataShape)
		}
		if truth.NoiseVar.Size() != cols {
			return nil, fmt.Errorf("linreg: truth noise_var size %d, want %d: %w", truth.NoiseVar.Size(), cols, ErrDataShape)
		}
		betaOpts = append(betaOpts, gibbs.WithTrueValue(truth.Beta), gibbs.WithUseTrueValue(useTruth))
		noiseOpts = append(noiseOpts, gibbs.WithTrueValue(truth.NoiseVar), gibbs.WithUseTrueValue(useTruth))
	}

	beta, err := gibbs.NewVariable(BetaName, &coefficients{priorVar: m.priorVar}, betaOpts...)
	if err != nil {
		return nil, fmt.Errorf("linreg: %w", err)
	}
	noise, err := gibbs.NewVariable(NoiseName, &noiseVariance{shape: m.noiseShape, scale: m.noiseScale}, noiseOpts...)
	if err != nil {
		return nil, fmt.Errorf("linreg: %w", err)
	}

	return []*gibbs.Variable{beta, noise}, nil
}

func regressorNames(p int) []string {
	out := make([]string, p)
	out[0] = "intercept"
	for k := 1; k < p; k++ {
		out[k] = fmt.Sprintf("x%d", k)
	}

	return out
}

// ComputeFit implements gibbs.Fitter: X·β under the current β.
func (m *Model) ComputeFit(s *gibbs.Sampler) (*ndarray.Array, error) {
	beta := s.VariableSet().Value(BetaName)
	if beta == nil {
		return nil, gibbs.ErrFitUnsupported
	}
	fit, err := prediction(m.data, beta)
	if err != nil {
		return nil, fmt.Errorf("linreg: fit: %w", err)
	}

	return ndarray.FromSlice(fit.RawData(), fit.Rows(), fit.Cols())
}

// FitAxes implements gibbs.FitAxesProvider.
func (m *Model) FitAxes() []string { return []string{AxisSample, gibbs.AxisCondition} }

// NumParameters implements gibbs.ParameterCounter: p·m coefficients plus m variances.
func (m *Model) NumParameters() int {
	return m.data.Regressors()*m.data.Columns() + m.data.Columns()
}

// InitGlobalObservables implements gibbs.GlobalObserver.
func (m *Model) InitGlobalObservables(*gibbs.Sampler) error {
	m.rssSum = make([]float64, m.data.Columns())
	m.rssN = 0

	return nil
}

// UpdateGlobalObservables accumulates the per-column residual sum of squares.
func (m *Model) UpdateGlobalObservables(s *gibbs.Sampler) error {
	beta := s.VariableSet().Value(BetaName)
	if beta == nil {
		return fmt.Errorf("linreg: %s: %w", BetaName, gibbs.ErrNoInitialValue)
	}
	rss, err := residualSumOfSquares(m.data, beta)
	if err != nil {
		return fmt.Errorf("linreg: rss: %w", err)
	}
	for j, r := range rss {
		m.rssSum[j] += r
	}
	m.rssN++

	return nil
}

// MeanRSS returns the posterior mean residual sum of squares per column.
func (m *Model) MeanRSS() []float64 {
	out := make([]float64, len(m.rssSum))
	if m.rssN == 0 {
		return out
	}
	for j, r := range m.rssSum {
		out[j] = r / float64(m.rssN)
	}

	return out
}

// GlobalOutputs implements gibbs.GlobalOutputter: the design matrix and mean RSS.
func (m *Model) GlobalOutputs(*gibbs.Sampler) (map[string]gibbs.Output, error) {
	x := m.data.X
	design, err := ndarray.FromSlice(x.RawData(), x.Rows(), x.Cols())
	if err != nil {
		return nil, err
	}
	out := map[string]gibbs.Output{
		"design_matrix": {
			Value:      design,
			Axes:       []string{AxisSample, AxisRegressor},
			Domains:    map[string][]string{AxisRegressor: regressorNames(x.Cols())},
			ValueLabel: "design",
		},
	}
	if m.rssN > 0 {
		rss, err := ndarray.FromSlice(m.MeanRSS(), len(m.rssSum))
		if err != nil {
			return nil, err
		}
		out["rss_mean"] = gibbs.Output{
			Value:      rss,
			Axes:       []string{gibbs.AxisCondition},
			Domains:    map[string][]string{gibbs.AxisCondition: m.data.ConditionNames()},
			ValueLabel: "rss",
		}
	}

	return out, nil
}

// NewSampler wires the model into a linked sampler; opts come first so the
// model's hooks cannot be overridden.
func (m *Model) NewSampler(truth *Truth, useTruth bool, opts ...gibbs.Option) (*gibbs.Sampler, error) {
	vars, err := m.Variables(truth, useTruth)
	if err != nil {
		return nil, err
	}
	s, err := gibbs.NewSampler(vars, append(append([]gibbs.Option(nil), opts...), gibbs.WithHooks(m))...)
	if err != nil {
		return nil, fmt.Errorf("linreg: %w", err)
	}
	if err := s.LinkToData(m.data); err != nil {
		return nil, fmt.Errorf("linreg: %w", err)
	}

	return s, nil
}
