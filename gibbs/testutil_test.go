// SPDX-License-Identifier: MIT

package gibbs_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvgibbs/gibbs"
	"github.com/katalvlaran/lvgibbs/ndarray"
)

// increment adds 1 to every element of the variable each call.
var increment = gibbs.ConditionalFunc(func(v *gibbs.Variable, _ *gibbs.VariableSet, _ *rand.Rand) error {
	v.Value().Apply(func(_ int, x float64) float64 { return x + 1 })

	return nil
})

// hold leaves the value untouched.
var hold = gibbs.ConditionalFunc(func(*gibbs.Variable, *gibbs.VariableSet, *rand.Rand) error { return nil })

// standardNormal redraws every element from N(0, 1).
var standardNormal = gibbs.ConditionalFunc(func(v *gibbs.Variable, _ *gibbs.VariableSet, rng *rand.Rand) error {
	v.Value().Apply(func(int, float64) float64 { return rng.NormFloat64() })

	return nil
})

// scaled returns a conditional setting v = k * vars[src].
func scaled(src string, k float64) gibbs.Conditional {
	return gibbs.ConditionalFunc(func(v *gibbs.Variable, vars *gibbs.VariableSet, _ *rand.Rand) error {
		other := vars.Value(src).Clone()
		other.ScaleInPlace(k)

		return v.SetValue(other)
	})
}

// mustVar builds a variable or fails the test.
func mustVar(t *testing.T, name string, cond gibbs.Conditional, opts ...gibbs.VariableOption) *gibbs.Variable {
	t.Helper()
	v, err := gibbs.NewVariable(name, cond, opts...)
	require.NoError(t, err)

	return v
}

// mustVector builds a rank-1 array or fails the test.
func mustVector(t *testing.T, values ...float64) *ndarray.Array {
	t.Helper()
	a, err := ndarray.Vector(values...)
	require.NoError(t, err)

	return a
}

// mustRun builds a sampler over vars and runs it without comparison data.
func mustRun(t *testing.T, vars []*gibbs.Variable, opts ...gibbs.Option) *gibbs.Sampler {
	t.Helper()
	s, err := gibbs.NewSampler(vars, opts...)
	require.NoError(t, err)
	require.NoError(t, s.RunSampling(context.Background(), nil))

	return s
}
