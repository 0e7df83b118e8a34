// SPDX-License-Identifier: MIT
// Package gibbs - Variable: one named random variable of a Gibbs sampler.
//
// A Variable owns its current value (mutated in place by its Conditional),
// an optional reference (true) value used only for diagnostics, online
// observables accumulated after burn-in, paced histories and a final value.
//
// Lifecycle (no transition skips a predecessor):
//
//	Uninitialized → Initialized → WarmedUp → Sampling → Finalized → OutputExtracted → Cleaned
//
// SampleNext is only legal in WarmedUp or Sampling. Outputs may be read once
// the variable is Finalized, including after CleanObservables.

package gibbs

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

// State is a Variable lifecycle stage.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateWarmedUp
	StateSampling
	StateFinalized
	StateOutputExtracted
	StateCleaned
)

var stateNames = [...]string{
	StateUninitialized:   "uninitialized",
	StateInitialized:     "initialized",
	StateWarmedUp:        "warmed-up",
	StateSampling:        "sampling",
	StateFinalized:       "finalized",
	StateOutputExtracted: "output-extracted",
	StateCleaned:         "cleaned",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}

	return stateNames[s]
}

// Default accuracy tolerances.
const (
	DefaultAtol = 0.1
	DefaultRtol = 0.1
)

// tracked is a named ad-hoc trajectory attached to a variable.
type tracked struct {
	name string
	traj *Trajectory
}

// Variable is a named, possibly multi-dimensional random variable.
// It is not safe for concurrent use; each chain owns its own variables.
type Variable struct {
	name string
	cond Conditional

	value        *ndarray.Array
	trueValue    *ndarray.Array
	sampleFlag   bool
	useTrueValue bool
	keepSamples  bool

	axes       []string
	domains    map[string][]string
	valueLabel string
	atol, rtol float64

	// observables
	nObs   int
	cumul  *ndarray.Array
	cumul3 *ndarray.Array
	mean   *ndarray.Array
	errv   *ndarray.Array
	burnIn int

	// histories
	smplHistory []*ndarray.Array
	smplIts     []int
	meanHistory []*ndarray.Array
	errHistory  []*ndarray.Array
	obsIts      []int
	tracks      []tracked

	// products of FinalizeSampling
	finalValue *ndarray.Array
	accuracy   *AccuracyReport
	autocorr   *ndarray.Array
	acfTest    *ndarray.Array
	median     *ndarray.Array

	state State
}

// VariableOption configures NewVariable.
type VariableOption func(*Variable)

// WithInitialValue sets the value sampling starts from. The array is copied.
func WithInitialValue(a *ndarray.Array) VariableOption {
	return func(v *Variable) {
		if a != nil {
			v.value = a.Clone()
		}
	}
}

// WithTrueValue sets the reference value used by CheckFinalValue. The array is copied.
func WithTrueValue(a *ndarray.Array) VariableOption {
	return func(v *Variable) {
		if a != nil {
			v.trueValue = a.Clone()
		}
	}
}

// WithSampleFlag enables (default) or disables sampling. A disabled variable
// keeps its value and takes the SkipSampler branch every iteration.
func WithSampleFlag(on bool) VariableOption {
	return func(v *Variable) { v.sampleFlag = on }
}

// WithUseTrueValue starts sampling from the true value instead of the initial value.
func WithUseTrueValue(on bool) VariableOption {
	return func(v *Variable) { v.useTrueValue = on }
}

// WithAxes names the dimensions of the value.
func WithAxes(names ...string) VariableOption {
	return func(v *Variable) { v.axes = append([]string(nil), names...) }
}

// WithAxisDomain labels the positions along one axis.
func WithAxisDomain(axis string, labels ...string) VariableOption {
	return func(v *Variable) {
		v.domains[axis] = append([]string(nil), labels...)
	}
}

// WithValueLabel sets the value label carried by every output of the variable.
func WithValueLabel(label string) VariableOption {
	return func(v *Variable) { v.valueLabel = label }
}

// WithTolerances overrides the accuracy tolerances. Panics on negative values.
func WithTolerances(atol, rtol float64) VariableOption {
	if atol < 0 || rtol < 0 {
		panic(fmt.Sprintf("gibbs: WithTolerances(%g, %g): tolerances must be >= 0", atol, rtol))
	}

	return func(v *Variable) { v.atol, v.rtol = atol, rtol }
}

// WithKeepSamples controls whether raw samples are retained (default true).
// Without them no autocorrelation or median is computed.
func WithKeepSamples(on bool) VariableOption {
	return func(v *Variable) { v.keepSamples = on }
}

// NewVariable builds a variable sampled by cond.
// cond may be nil only when sampling is disabled.
//
// Errors:
//   - ErrEmptyName for an empty name.
//   - ErrNoConditional when sampling is enabled without a conditional.
//   - ErrMalformedValue for non-finite values or initial/true shape mismatch.
func NewVariable(name string, cond Conditional, opts ...VariableOption) (*Variable, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	v := &Variable{
		name:        name,
		cond:        cond,
		sampleFlag:  true,
		keepSamples: true,
		domains:     make(map[string][]string),
		atol:        DefaultAtol,
		rtol:        DefaultRtol,
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.sampleFlag && v.cond == nil {
		return nil, variableErrorf(name, "new", ErrNoConditional)
	}
	if v.value != nil {
		if err := ndarray.ValidateFinite(v.value); err != nil {
			return nil, variableErrorf(name, "initial value", fmt.Errorf("%w: %w", ErrMalformedValue, err))
		}
	}
	if v.trueValue != nil {
		if err := ndarray.ValidateFinite(v.trueValue); err != nil {
			return nil, variableErrorf(name, "true value", fmt.Errorf("%w: %w", ErrMalformedValue, err))
		}
		if v.value != nil && !ndarray.SameShape(v.value, v.trueValue) {
			return nil, variableErrorf(name, "true value", fmt.Errorf("shape %v vs %v: %w",
				v.trueValue.Shape(), v.value.Shape(), ErrMalformedValue))
		}
	}

	return v, nil
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Value returns the live current value (nil before initialization or after cleaning).
// Conditionals mutate it in place.
func (v *Variable) Value() *ndarray.Array { return v.value }

// SetValue replaces the current value by a copy of a.
// When a value exists, shapes must match.
func (v *Variable) SetValue(a *ndarray.Array) error {
	if a == nil {
		return variableErrorf(v.name, "set value", ErrMalformedValue)
	}
	if v.value == nil {
		v.value = a.Clone()

		return nil
	}
	if err := v.value.CopyFrom(a); err != nil {
		return variableErrorf(v.name, "set value", fmt.Errorf("%w: %w", ErrMalformedValue, err))
	}

	return nil
}

// TrueValue returns the reference value, or nil.
func (v *Variable) TrueValue() *ndarray.Array { return v.trueValue }

// Mean returns the posterior mean accumulated so far, or nil before InitObservables.
func (v *Variable) Mean() *ndarray.Array { return v.mean }

// Error returns the posterior variance estimate, or nil before InitObservables.
func (v *Variable) Error() *ndarray.Array { return v.errv }

// FinalValue returns the value the variable reports, or nil before finalization.
func (v *Variable) FinalValue() *ndarray.Array { return v.finalValue }

// ObservationCount returns the number of UpdateObservables calls since InitObservables.
func (v *Variable) ObservationCount() int { return v.nObs }

// State returns the lifecycle stage.
func (v *Variable) State() State { return v.state }

// SampleFlag reports whether the variable is sampled.
func (v *Variable) SampleFlag() bool { return v.sampleFlag }

// Axes returns the axis names (copy).
func (v *Variable) Axes() []string { return append([]string(nil), v.axes...) }

// Domain returns the labels of one axis (copy), or nil.
func (v *Variable) Domain(axis string) []string {
	return append([]string(nil), v.domains[axis]...)
}

// Accuracy returns the last accuracy report, or nil when no check ran.
func (v *Variable) Accuracy() *AccuracyReport { return v.accuracy }

// SampleHistory returns the retained raw samples and their iterations (shared).
func (v *Variable) SampleHistory() ([]*ndarray.Array, []int) { return v.smplHistory, v.smplIts }

// MeanHistory returns the saved posterior means and their iterations (shared).
func (v *Variable) MeanHistory() ([]*ndarray.Array, []int) { return v.meanHistory, v.obsIts }

// Autocorrelation returns the lag×value autocorrelation and its significance
// mask (1 where |acf| exceeds the 95% band), or nils when not computed.
func (v *Variable) Autocorrelation() (acf, significant *ndarray.Array) { return v.autocorr, v.acfTest }

// Median returns the posterior median of the post-burn-in samples, or nil.
func (v *Variable) Median() *ndarray.Array { return v.median }

// hasAxis reports whether name is one of the declared axes.
func (v *Variable) hasAxis(name string) bool {
	for _, a := range v.axes {
		if a == name {
			return true
		}
	}

	return false
}

// linkToData forwards the data handle to the conditional and resolves the
// "condition" axis domain when the data enumerates conditions.
func (v *Variable) linkToData(data any) error {
	if dl, ok := v.cond.(DataLinker); ok {
		if err := dl.LinkToData(v, data); err != nil {
			return variableErrorf(v.name, "link to data", err)
		}
	}
	if cn, ok := data.(ConditionNamer); ok && v.hasAxis(AxisCondition) {
		v.domains[AxisCondition] = append([]string(nil), cn.ConditionNames()...)
	}

	return nil
}

// expect fails with ErrInvalidState unless the variable is in one of states.
func (v *Variable) expect(op string, states ...State) error {
	for _, s := range states {
		if v.state == s {
			return nil
		}
	}

	return variableErrorf(v.name, op, fmt.Errorf("%w: in state %s", ErrInvalidState, v.state))
}

// CheckAndSetInitValue settles the starting value.
//
// With useTrueValue the true value is copied in (ErrNoTrueValue when absent);
// otherwise an InitSetter conditional may derive it from vars. Fails with
// ErrNoInitialValue if the value is still unset afterwards.
func (v *Variable) CheckAndSetInitValue(vars *VariableSet) error {
	if err := v.expect("check init value", StateUninitialized, StateInitialized); err != nil {
		return err
	}
	if v.useTrueValue {
		if v.trueValue == nil {
			return variableErrorf(v.name, "check init value", ErrNoTrueValue)
		}
		v.value = v.trueValue.Clone()
	} else if is, ok := v.cond.(InitSetter); ok {
		if err := is.InitValue(v, vars); err != nil {
			return variableErrorf(v.name, "init value", err)
		}
	}
	if v.value == nil {
		return variableErrorf(v.name, "check init value", ErrNoInitialValue)
	}
	if err := ndarray.ValidateFinite(v.value); err != nil {
		return variableErrorf(v.name, "check init value", fmt.Errorf("%w: %w", ErrMalformedValue, err))
	}
	v.state = StateInitialized

	return nil
}

// SamplingWarmUp runs the conditional's WarmUpper, if any.
func (v *Variable) SamplingWarmUp(vars *VariableSet) error {
	if err := v.expect("warm up", StateInitialized); err != nil {
		return err
	}
	if wu, ok := v.cond.(WarmUpper); ok {
		if err := wu.WarmUp(v, vars); err != nil {
			return variableErrorf(v.name, "warm up", err)
		}
	}
	v.state = StateWarmedUp

	return nil
}

// SampleNext advances the value by one draw, or takes the SkipSampler branch
// when sampling is disabled.
func (v *Variable) SampleNext(vars *VariableSet, rng *rand.Rand) error {
	if err := v.expect("sample", StateWarmedUp, StateSampling); err != nil {
		return err
	}
	v.state = StateSampling
	if v.sampleFlag {
		if err := v.cond.SampleNext(v, vars, rng); err != nil {
			return variableErrorf(v.name, "sample", err)
		}
	} else if sk, ok := v.cond.(SkipSampler); ok {
		if err := sk.SkipSample(v, vars); err != nil {
			return variableErrorf(v.name, "skip sample", err)
		}
	}
	if v.value == nil {
		return variableErrorf(v.name, "sample", ErrMalformedValue)
	}

	return nil
}

// Track attaches a named trajectory recorded by RecordTrajectories.
func (v *Variable) Track(name string, t *Trajectory) error {
	if t == nil {
		return variableErrorf(v.name, "track", ErrMalformedValue)
	}
	for _, tr := range v.tracks {
		if tr.name == name {
			return variableErrorf(v.name, "track "+name, ErrDuplicateTrack)
		}
	}
	v.tracks = append(v.tracks, tracked{name: name, traj: t})

	return nil
}

// RecordTrajectories offers iteration it to every tracked trajectory.
func (v *Variable) RecordTrajectories(it int) {
	for _, tr := range v.tracks {
		tr.traj.Record(it)
	}
}

// SaveCurrentValue appends a copy of the current value to the sample history.
func (v *Variable) SaveCurrentValue(it int) {
	if !v.keepSamples || v.value == nil {
		return
	}
	v.smplHistory = append(v.smplHistory, v.value.Clone())
	v.smplIts = append(v.smplIts, it)
}

// SaveObservables appends copies of the mean and variance to their histories.
func (v *Variable) SaveObservables(it int) {
	if v.mean == nil {
		return
	}
	v.meanHistory = append(v.meanHistory, v.mean.Clone())
	v.errHistory = append(v.errHistory, v.errv.Clone())
	v.obsIts = append(v.obsIts, it)
}

// setBurnIn tells the variable where post-burn-in samples begin.
func (v *Variable) setBurnIn(sweeps int) { v.burnIn = sweeps }
