// SPDX-License-Identifier: MIT

package linreg

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

// TestGammaDraw_Moments compares sample mean and variance with shape k: both equal k.
func TestGammaDraw_Moments(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, k := range []float64{0.5, 1, 3.5, 20} {
		xs := make([]float64, 40000)
		for i := range xs {
			xs[i] = gammaDraw(rng, k)
		}
		mean, variance := stat.MeanVariance(xs, nil)
		assert.InDelta(t, k, mean, 0.05*k+0.02, "mean, shape=%g", k)
		assert.InDelta(t, k, variance, 0.1*k+0.05, "variance, shape=%g", k)
	}
}

func TestInvGammaDraw_Mean(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const shape, scale = 10.0, 18.0
	var sum float64
	const n = 40000
	for i := 0; i < n; i++ {
		sum += invGammaDraw(rng, shape, scale)
	}
	// E = scale / (shape - 1)
	assert.InDelta(t, 2.0, sum/n, 0.05)
}
