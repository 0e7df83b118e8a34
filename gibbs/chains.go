// SPDX-License-Identifier: MIT
// Package gibbs - independent parallel chains.
//
// RunChains builds n samplers through a factory and runs them concurrently.
// Each chain owns its variables and a generator derived from the base seed,
// so a seeded run is reproducible regardless of scheduling.
//
// Convergence: for every variable sampled in all chains, the Gelman–Rubin
// potential scale reduction is computed element-wise from chain means,
// posterior variances and observation counts:
//
//	W = mean_c s²_c,  s²_c = mcmc_var_c · n/(n-1)
//	B = n · var_c(mean_c)
//	V = (n-1)/n · W + B/n
//	R = √(V / W)

package gibbs

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

// ChainFactory builds the sampler of one chain from the chain-specific
// options (which carry the chain's generator). It returns the linked
// sampler and the optional comparison data passed to RunSampling.
type ChainFactory func(chain int, opts ...Option) (*Sampler, *ndarray.Array, error)

// ChainResult is one finished chain.
type ChainResult struct {
	Chain   int
	Sampler *Sampler
}

// ChainsResult holds all chains in chain order and the per-variable R-hat.
type ChainsResult struct {
	Chains []ChainResult
	RHat   map[string]*ndarray.Array
}

// MaxRHat returns the largest R-hat element over all variables (NaN when none).
func (r *ChainsResult) MaxRHat() float64 {
	best := math.NaN()
	for _, a := range r.RHat {
		for _, x := range a.Data() {
			if math.IsNaN(best) || x > best {
				best = x
			}
		}
	}

	return best
}

// RunChains runs n chains concurrently and gathers them.
// opts are the base options; WithSeed/WithRand there seed the derivation,
// and WithLogger is shared by all chains. The first failing chain cancels
// the others.
//
// Every chain receives the same base option values, so a Callback given
// there runs concurrently and must not hold unsynchronized state. Model
// hooks are stateful and must come from the factory: WithHooks among the
// base options fails with ErrSharedHooks.
func RunChains(ctx context.Context, n int, factory ChainFactory, opts ...Option) (*ChainsResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("gibbs: run chains %d: %w", n, ErrNoChains)
	}
	base := gatherOptions(opts...)
	if base.hooks != nil {
		return nil, fmt.Errorf("gibbs: run chains: %T: %w", base.hooks, ErrSharedHooks)
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "gibbs.RunChains")
	defer span.End()
	span.SetAttributes(attribute.Int("chains", n))

	var root *rand.Rand
	switch {
	case base.rng != nil:
		root = base.rng
	case base.seeded:
		root = rngFromSeed(base.seed)
	default:
		root = rngFromClock()
	}
	// All streams are derived before any chain starts.
	rngs := make([]*rand.Rand, n)
	for c := range rngs {
		rngs[c] = deriveRNG(root, uint64(c))
	}

	p := pool.NewWithResults[ChainResult]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(n)
	for c := 0; c < n; c++ {
		chain := c
		chainOpts := append(append([]Option(nil), opts...), WithRand(rngs[chain]))
		p.Go(func(ctx context.Context) (ChainResult, error) {
			s, comparison, err := factory(chain, chainOpts...)
			if err != nil {
				return ChainResult{}, fmt.Errorf("chain %d: build: %w", chain, err)
			}
			if err := s.RunSampling(ctx, comparison); err != nil {
				return ChainResult{}, fmt.Errorf("chain %d: %w", chain, err)
			}
			base.logger.Debug("chain finished", zap.Int("chain", chain), zap.String("run_id", s.RunID()))

			return ChainResult{Chain: chain, Sampler: s}, nil
		})
	}
	results, err := p.Wait()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chain failed")

		return nil, fmt.Errorf("gibbs: run chains: %w", err)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Chain < results[j].Chain })

	rhat, err := chainsRHat(results)
	if err != nil {
		return nil, err
	}

	return &ChainsResult{Chains: results, RHat: rhat}, nil
}

// chainsRHat computes R-hat for every variable sampled with observations in all chains.
func chainsRHat(results []ChainResult) (map[string]*ndarray.Array, error) {
	out := make(map[string]*ndarray.Array)
	if len(results) < 2 {
		return out, nil
	}
	for _, v := range results[0].Sampler.Variables() {
		if !v.SampleFlag() || v.ObservationCount() < 2 {
			continue
		}
		vs := make([]*Variable, 0, len(results))
		for _, r := range results {
			cv, ok := r.Sampler.Variable(v.Name())
			if !ok || cv.ObservationCount() < 2 {
				vs = nil

				break
			}
			vs = append(vs, cv)
		}
		if vs == nil {
			continue
		}
		rh, err := PotentialScaleReduction(vs...)
		if err != nil {
			return nil, fmt.Errorf("gibbs: r-hat %q: %w", v.Name(), err)
		}
		out[v.Name()] = rh
	}

	return out, nil
}

// PotentialScaleReduction returns the element-wise Gelman–Rubin R-hat of the
// same variable taken from at least two chains. The observation count of the
// first chain is used as n. W == 0 gives 1 when the chains agree, else +Inf.
func PotentialScaleReduction(chains ...*Variable) (*ndarray.Array, error) {
	if len(chains) < 2 {
		return nil, fmt.Errorf("gibbs: r-hat needs >= 2 chains: %w", ErrNoChains)
	}
	first := chains[0]
	if first.Mean() == nil || first.Error() == nil {
		return nil, variableErrorf(first.Name(), "r-hat", ErrInvalidState)
	}
	for _, c := range chains[1:] {
		if c.Mean() == nil || c.Error() == nil || !ndarray.SameShape(c.Mean(), first.Mean()) {
			return nil, variableErrorf(c.Name(), "r-hat", ErrMalformedValue)
		}
	}

	n := float64(first.ObservationCount())
	if n < 2 {
		return nil, variableErrorf(first.Name(), "r-hat", fmt.Errorf("%w: fewer than 2 observations", ErrInvalidState))
	}
	res := ndarray.ZerosLike(first.Mean())
	out := res.Data()
	means := make([]float64, len(chains))
	vars := make([]float64, len(chains))
	for k := range out {
		for c, ch := range chains {
			means[c] = ch.Mean().Data()[k]
			vars[c] = ch.Error().Data()[k] * n / (n - 1)
		}
		w := stat.Mean(vars, nil)
		b := n * stat.Variance(means, nil)
		if w <= VarianceFloor*n/(n-1) {
			if b == 0 {
				out[k] = 1
			} else {
				out[k] = math.Inf(1)
			}
			continue
		}
		v := (n-1)/n*w + b/n
		out[k] = math.Sqrt(v / w)
	}

	return res, nil
}
