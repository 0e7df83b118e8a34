// SPDX-License-Identifier: MIT

package gibbs_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvgibbs/gibbs"
	"github.com/katalvlaran/lvgibbs/ndarray"
)

// normalFactory builds a chain drawing a 2-vector from N(0, 1) every iteration.
func normalFactory(t *testing.T) gibbs.ChainFactory {
	return func(_ int, opts ...gibbs.Option) (*gibbs.Sampler, *ndarray.Array, error) {
		x, err := gibbs.NewVariable("x", standardNormal, gibbs.WithInitialValue(mustVector(t, 0, 0)))
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, gibbs.WithIterations(3000), gibbs.WithSweeps(500))
		s, err := gibbs.NewSampler([]*gibbs.Variable{x}, opts...)

		return s, nil, err
	}
}

func TestRunChains_Reproducible(t *testing.T) {
	ctx := context.Background()
	r1, err := gibbs.RunChains(ctx, 4, normalFactory(t), gibbs.WithSeed(99))
	require.NoError(t, err)
	r2, err := gibbs.RunChains(ctx, 4, normalFactory(t), gibbs.WithSeed(99))
	require.NoError(t, err)

	require.Len(t, r1.Chains, 4)
	for c := range r1.Chains {
		assert.Equal(t, c, r1.Chains[c].Chain)
		x1, _ := r1.Chains[c].Sampler.Variable("x")
		x2, _ := r2.Chains[c].Sampler.Variable("x")
		assert.Equal(t, x1.Mean().Data(), x2.Mean().Data(), "chain %d", c)
	}

	x0, _ := r1.Chains[0].Sampler.Variable("x")
	x1, _ := r1.Chains[1].Sampler.Variable("x")
	assert.NotEqual(t, x0.Mean().Data(), x1.Mean().Data(), "chains draw independent streams")
}

// TestRunChains_RHatNearOne: iid N(0,1) chains have mixed perfectly.
func TestRunChains_RHatNearOne(t *testing.T) {
	res, err := gibbs.RunChains(context.Background(), 3, normalFactory(t), gibbs.WithSeed(5))
	require.NoError(t, err)

	rh, ok := res.RHat["x"]
	require.True(t, ok)
	assert.Equal(t, []int{2}, rh.Shape())
	for _, r := range rh.Data() {
		assert.InDelta(t, 1.0, r, 0.05)
	}
	assert.InDelta(t, 1.0, res.MaxRHat(), 0.05)
}

// constChain runs a sampled variable stuck at value.
func constChain(t *testing.T, value float64) *gibbs.Variable {
	t.Helper()
	x := mustVar(t, "x", hold, gibbs.WithInitialValue(ndarray.Scalar(value)))
	mustRun(t, []*gibbs.Variable{x}, gibbs.WithIterations(20))

	return x
}

func TestPotentialScaleReduction_Degenerate(t *testing.T) {
	same, err := gibbs.PotentialScaleReduction(constChain(t, 1), constChain(t, 1))
	require.NoError(t, err)
	assert.Equal(t, 1.0, same.Item())

	apart, err := gibbs.PotentialScaleReduction(constChain(t, 1), constChain(t, 2))
	require.NoError(t, err)
	assert.True(t, math.IsInf(apart.Item(), 1))

	_, err = gibbs.PotentialScaleReduction(constChain(t, 1))
	assert.ErrorIs(t, err, gibbs.ErrNoChains)
}

func TestRunChains_Errors(t *testing.T) {
	_, err := gibbs.RunChains(context.Background(), 0, normalFactory(t))
	assert.ErrorIs(t, err, gibbs.ErrNoChains)

	boom := errors.New("no data")
	failing := func(chain int, opts ...gibbs.Option) (*gibbs.Sampler, *ndarray.Array, error) {
		if chain == 1 {
			return nil, nil, boom
		}

		return normalFactory(t)(chain, opts...)
	}
	_, err = gibbs.RunChains(context.Background(), 3, failing, gibbs.WithSeed(1))
	assert.ErrorIs(t, err, boom)
}

// TestRunChains_RejectsSharedHooks: hooks carry per-run state and would be
// shared by every chain when passed as a base option.
func TestRunChains_RejectsSharedHooks(t *testing.T) {
	built := 0
	factory := func(chain int, opts ...gibbs.Option) (*gibbs.Sampler, *ndarray.Array, error) {
		built++

		return normalFactory(t)(chain, opts...)
	}
	_, err := gibbs.RunChains(context.Background(), 2, factory, gibbs.WithHooks(constFit{params: 1}))
	require.ErrorIs(t, err, gibbs.ErrSharedHooks)
	assert.Zero(t, built, "no chain starts")

	res, err := gibbs.RunChains(context.Background(), 2, normalFactory(t), gibbs.WithHooks(nil), gibbs.WithSeed(3))
	require.NoError(t, err)
	assert.Len(t, res.Chains, 2)
}
