// SPDX-License-Identifier: MIT

package linreg

import (
	"math"
	"math/rand"
)

// gammaDraw returns a Gamma(shape, 1) variate (Marsaglia & Tsang, 2000).
// shape < 1 is boosted: Gamma(a) = Gamma(a+1) · U^(1/a).
func gammaDraw(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		u := rng.Float64()

		return gammaDraw(rng, shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3
	c := 1 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		x2 := x * x
		if u < 1-0.0331*x2*x2 {
			return d * v
		}
		if math.Log(u) < 0.5*x2+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// invGammaDraw returns an InvGamma(shape, scale) variate.
func invGammaDraw(rng *rand.Rand, shape, scale float64) float64 {
	return scale / gammaDraw(rng, shape)
}
