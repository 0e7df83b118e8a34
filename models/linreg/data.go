// SPDX-License-Identifier: MIT

package linreg

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/lvgibbs/matrix"
	"github.com/katalvlaran/lvgibbs/ndarray"
)

// Data is the observed regression problem.
type Data struct {
	X          *matrix.Dense // n×p design
	Y          *matrix.Dense // n×m responses
	Conditions []string      // optional names of the m columns
}

// Validate checks that X and Y are present and agree on n,
// and that Conditions (when set) names every column.
func (d *Data) Validate() error {
	if d == nil || d.X == nil || d.Y == nil {
		return ErrNoData
	}
	if d.X.Rows() != d.Y.Rows() {
		return fmt.Errorf("X has %d rows, Y has %d: %w", d.X.Rows(), d.Y.Rows(), ErrDataShape)
	}
	if d.Conditions != nil && len(d.Conditions) != d.Y.Cols() {
		return fmt.Errorf("%d condition names for %d columns: %w", len(d.Conditions), d.Y.Cols(), ErrDataShape)
	}

	return nil
}

// Samples, Regressors and Columns return n, p and m.
func (d *Data) Samples() int    { return d.X.Rows() }
func (d *Data) Regressors() int { return d.X.Cols() }
func (d *Data) Columns() int    { return d.Y.Cols() }

// ConditionNames names the response columns ("cond0", "cond1", ... by default).
func (d *Data) ConditionNames() []string {
	if d.Conditions != nil {
		return append([]string(nil), d.Conditions...)
	}
	out := make([]string, d.Y.Cols())
	for j := range out {
		out[j] = fmt.Sprintf("cond%d", j)
	}

	return out
}

// Observed returns Y as an (n, m) array, the comparison data for fit diagnostics.
func (d *Data) Observed() *ndarray.Array {
	a, _ := ndarray.FromSlice(d.Y.RawData(), d.Y.Rows(), d.Y.Cols())

	return a
}

// Truth is the parameter set data were simulated from.
type Truth struct {
	Beta     *ndarray.Array // p×m
	NoiseVar *ndarray.Array // m
}

// Simulate draws a problem with an intercept column plus p-1 standard normal
// regressors, coefficients uniform in [-2, 2] and noise variance noiseVar
// for every column.
func Simulate(rng *rand.Rand, n, p, m int, noiseVar float64) (*Data, *Truth, error) {
	if n <= 0 || p <= 0 || m <= 0 || !(noiseVar > 0) {
		return nil, nil, fmt.Errorf("simulate n=%d p=%d m=%d noise=%g: %w", n, p, m, noiseVar, ErrDataShape)
	}
	xs := make([]float64, n*p)
	for i := 0; i < n; i++ {
		xs[i*p] = 1
		for k := 1; k < p; k++ {
			xs[i*p+k] = rng.NormFloat64()
		}
	}
	X, err := matrix.NewDenseFromData(n, p, xs)
	if err != nil {
		return nil, nil, err
	}

	beta := make([]float64, p*m)
	for i := range beta {
		beta[i] = 4*rng.Float64() - 2
	}
	B, err := matrix.NewDenseFromData(p, m, beta)
	if err != nil {
		return nil, nil, err
	}
	XB, err := matrix.Mul(X, B)
	if err != nil {
		return nil, nil, err
	}
	es := make([]float64, n*m)
	for i := range es {
		es[i] = rng.NormFloat64()
	}
	E, err := matrix.NewDenseFromData(n, m, es)
	if err != nil {
		return nil, nil, err
	}
	noise, err := matrix.Scale(E, math.Sqrt(noiseVar))
	if err != nil {
		return nil, nil, err
	}
	Y, err := matrix.Add(XB, noise)
	if err != nil {
		return nil, nil, err
	}

	tb, _ := ndarray.FromSlice(beta, p, m)
	nv := ndarray.FullLike(ndarray.MustNew(m), noiseVar)

	return &Data{X: X, Y: Y}, &Truth{Beta: tb, NoiseVar: nv}, nil
}
