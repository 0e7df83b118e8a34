// SPDX-License-Identifier: MIT

package gibbs_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/lvgibbs/gibbs"
	"github.com/katalvlaran/lvgibbs/ndarray"
)

// finalizedAt runs a one-iteration sampler whose single variable holds value,
// so its final value equals value exactly.
func finalizedAt(t *testing.T, value, truth *ndarray.Array, policy gibbs.AccuracyPolicy, opts ...gibbs.VariableOption) (*gibbs.Variable, error) {
	t.Helper()
	opts = append([]gibbs.VariableOption{gibbs.WithInitialValue(value), gibbs.WithTrueValue(truth)}, opts...)
	v := mustVar(t, "x", hold, opts...)
	s, err := gibbs.NewSampler([]*gibbs.Variable{v},
		gibbs.WithIterations(1), gibbs.WithSweeps(0), gibbs.WithAccuracyPolicy(policy))
	require.NoError(t, err)

	return v, s.RunSampling(context.Background(), nil)
}

// TestCheckFinalValue_MixedElements: [1.05, 2.3] against [1, 2] with atol=rtol=0.1.
func TestCheckFinalValue_MixedElements(t *testing.T) {
	v, err := finalizedAt(t, mustVector(t, 1.05, 2.3), mustVector(t, 1.0, 2.0), gibbs.AccuracyIgnore,
		gibbs.WithTolerances(0.1, 0.1))
	require.NoError(t, err)

	rep := v.Accuracy()
	require.NotNil(t, rep)
	assert.Equal(t, []bool{true, false}, rep.Accurate)
	assert.False(t, rep.IsAccurate)
	assert.Equal(t, 1, rep.InaccurateCount())
	assert.InDeltaSlice(t, []float64{0.05, 0.3}, rep.AbsError.Data(), 1e-12)
	assert.InDeltaSlice(t, []float64{0.05 / 1.05, 0.3 / 2.3}, rep.RelError.Data(), 1e-12)
	assert.Equal(t, []float64{0, 1}, rep.Inaccuracies.Data())
	assert.Equal(t, []float64{1.05, 2.3}, v.FinalValue().Data(), "the check never alters the final value")
}

// TestCheckFinalValue_ExactMatch: equal final and true values are accurate everywhere.
func TestCheckFinalValue_ExactMatch(t *testing.T) {
	v, err := finalizedAt(t, mustVector(t, 0, -3, 1e6), mustVector(t, 0, -3, 1e6), gibbs.AccuracyRaise)
	require.NoError(t, err)

	rep := v.Accuracy()
	require.NotNil(t, rep)
	assert.True(t, rep.IsAccurate)
	assert.Equal(t, []bool{true, true, true}, rep.Accurate)
	assert.Equal(t, []float64{0, 0, 0}, rep.AbsError.Data())
	assert.Equal(t, []float64{0, 0, 0}, rep.RelError.Data())
}

func TestAccuracyPolicy(t *testing.T) {
	t.Run("raise", func(t *testing.T) {
		_, err := finalizedAt(t, ndarray.Scalar(5), ndarray.Scalar(1), gibbs.AccuracyRaise)
		assert.ErrorIs(t, err, gibbs.ErrInaccurate)
	})
	t.Run("ignore", func(t *testing.T) {
		v, err := finalizedAt(t, ndarray.Scalar(5), ndarray.Scalar(1), gibbs.AccuracyIgnore)
		require.NoError(t, err)
		assert.False(t, v.Accuracy().IsAccurate)
	})
	t.Run("log", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		v := mustVar(t, "x", hold, gibbs.WithInitialValue(ndarray.Scalar(5)), gibbs.WithTrueValue(ndarray.Scalar(1)))
		s, err := gibbs.NewSampler([]*gibbs.Variable{v},
			gibbs.WithIterations(2), gibbs.WithSweeps(0), gibbs.WithLogger(zap.New(core)))
		require.NoError(t, err)
		require.NoError(t, s.RunSampling(context.Background(), nil))

		entries := logs.FilterMessage("final value not accurate").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "x", entries[0].ContextMap()["variable"])
	})
	t.Run("unsampled variables are not checked", func(t *testing.T) {
		v := mustVar(t, "x", nil, gibbs.WithSampleFlag(false),
			gibbs.WithInitialValue(ndarray.Scalar(5)), gibbs.WithTrueValue(ndarray.Scalar(1)))
		mustRun(t, []*gibbs.Variable{v}, gibbs.WithIterations(2), gibbs.WithAccuracyPolicy(gibbs.AccuracyRaise))
		assert.Nil(t, v.Accuracy())
	})
}

func TestParseAccuracyPolicy(t *testing.T) {
	for in, want := range map[string]gibbs.AccuracyPolicy{
		"raise": gibbs.AccuracyRaise, "print": gibbs.AccuracyLog, "log": gibbs.AccuracyLog,
		"off": gibbs.AccuracyIgnore, "ignore": gibbs.AccuracyIgnore,
	} {
		got, err := gibbs.ParseAccuracyPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := gibbs.ParseAccuracyPolicy("loud")
	assert.Error(t, err)
	assert.Equal(t, "raise", gibbs.AccuracyRaise.String())
}

// flip negates the value every call.
var flip = gibbs.ConditionalFunc(func(v *gibbs.Variable, _ *gibbs.VariableSet, _ *rand.Rand) error {
	v.Value().ScaleInPlace(-1)

	return nil
})

// TestAutocorrelation_Alternating: ±1 alternation is maximally anti-correlated at lag 1.
func TestAutocorrelation_Alternating(t *testing.T) {
	x := mustVar(t, "x", flip, gibbs.WithInitialValue(ndarray.Scalar(1)))
	mustRun(t, []*gibbs.Variable{x}, gibbs.WithIterations(10), gibbs.WithSweeps(0))

	acf, sig := x.Autocorrelation()
	require.NotNil(t, acf)
	assert.Equal(t, []int{9}, acf.Shape())
	lag1, _ := acf.At(0)
	lag2, _ := acf.At(1)
	assert.InDelta(t, -0.9, lag1, 1e-12)
	assert.InDelta(t, 0.8, lag2, 1e-12)
	s1, _ := sig.At(0)
	assert.Equal(t, 1.0, s1)

	assert.Equal(t, 0.0, x.Median().Item())
}

// TestAutocorrelation_BurnInAndConstant: samples before sweeps are excluded;
// a constant series has zero autocorrelation and its value as median.
func TestAutocorrelation_BurnInAndConstant(t *testing.T) {
	x := mustVar(t, "x", increment, gibbs.WithInitialValue(ndarray.Scalar(0)))
	c := mustVar(t, "c", hold, gibbs.WithInitialValue(ndarray.Scalar(4)))
	mustRun(t, []*gibbs.Variable{x, c}, gibbs.WithIterations(9), gibbs.WithSweeps(6))

	acf, _ := x.Autocorrelation()
	require.NotNil(t, acf)
	assert.Equal(t, []int{2}, acf.Shape(), "three post-burn-in samples give two lags")
	assert.Equal(t, 8.0, x.Median().Item())

	cacf, csig := c.Autocorrelation()
	assert.Equal(t, []float64{0, 0}, cacf.Data())
	assert.Equal(t, []float64{0, 0}, csig.Data())
	assert.Equal(t, 4.0, c.Median().Item())
}

func TestKeepSamplesOff(t *testing.T) {
	x := mustVar(t, "x", increment, gibbs.WithInitialValue(ndarray.Scalar(0)), gibbs.WithKeepSamples(false))
	mustRun(t, []*gibbs.Variable{x}, gibbs.WithIterations(6))

	smpl, _ := x.SampleHistory()
	assert.Empty(t, smpl)
	acf, _ := x.Autocorrelation()
	assert.Nil(t, acf)
	assert.Nil(t, x.Median())
}

// meanOverride reports a fixed final value.
type meanOverride struct{ hold gibbs.ConditionalFunc }

func (m meanOverride) SampleNext(v *gibbs.Variable, vars *gibbs.VariableSet, rng *rand.Rand) error {
	return m.hold(v, vars, rng)
}

func (meanOverride) FinalValue(*gibbs.Variable) (*ndarray.Array, error) { return ndarray.Scalar(42), nil }

func TestFinalValuer(t *testing.T) {
	x := mustVar(t, "x", meanOverride{hold: hold}, gibbs.WithInitialValue(ndarray.Scalar(1)))
	mustRun(t, []*gibbs.Variable{x}, gibbs.WithIterations(3))
	assert.Equal(t, 42.0, x.FinalValue().Item())
	assert.Equal(t, 1.0, x.Mean().Item())
}
