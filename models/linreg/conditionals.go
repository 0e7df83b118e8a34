// SPDX-License-Identifier: MIT

package linreg

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvgibbs/gibbs"
	"github.com/katalvlaran/lvgibbs/matrix"
	"github.com/katalvlaran/lvgibbs/ndarray"
)

// Variable names.
const (
	BetaName  = "beta"
	NoiseName = gibbs.NoiseVariableName
)

// Axis names.
const (
	AxisRegressor = "regressor"
	AxisSample    = "sample"
)

// linked holds the data a conditional received through LinkToData.
type linked struct {
	data *Data
}

func (l *linked) LinkToData(_ *gibbs.Variable, data any) error {
	d, ok := data.(*Data)
	if !ok {
		return fmt.Errorf("%T: %w", data, ErrBadDataType)
	}
	if err := d.Validate(); err != nil {
		return err
	}
	l.data = d

	return nil
}

// coefficients samples beta one element at a time:
//
//	r      = y_j - X β_j + x_k β_kj
//	prec   = x_k·x_k / σ²_j + 1/τ²
//	β_kj  ~ N((x_k·r / σ²_j) / prec, 1/prec)
type coefficients struct {
	linked
	priorVar float64
	xtx      []float64   // x_k·x_k, filled by WarmUp
	cols     [][]float64 // x_k, filled by WarmUp
	resid    []float64   // scratch, length n
	col      []float64 // scratch, length p
}

// InitValue starts from β = 0.
func (c *coefficients) InitValue(v *gibbs.Variable, _ *gibbs.VariableSet) error {
	if v.Value() != nil {
		return nil
	}
	if c.data == nil {
		return ErrNoData
	}

	return v.SetValue(ndarray.MustNew(c.data.Regressors(), c.data.Columns()))
}

// WarmUp caches the regressor columns and their squared norms.
func (c *coefficients) WarmUp(v *gibbs.Variable, _ *gibbs.VariableSet) error {
	if c.data == nil {
		return ErrNoData
	}
	if shape := v.Value().Shape(); len(shape) != 2 || shape[0] != c.data.Regressors() || shape[1] != c.data.Columns() {
		return fmt.Errorf("beta shape %v, want [%d %d]: %w", shape, c.data.Regressors(), c.data.Columns(), ErrDataShape)
	}
	p := c.data.Regressors()
	c.xtx = make([]float64, p)
	c.cols = make([][]float64, p)
	for k := 0; k < p; k++ {
		col, err := c.data.X.Column(k)
		if err != nil {
			return err
		}
		norm, err := matrix.ColumnDot(c.data.X, k, c.data.X, k)
		if err != nil {
			return err
		}
		c.cols[k], c.xtx[k] = col, norm
	}
	c.resid = make([]float64, c.data.Samples())
	c.col = make([]float64, c.data.Regressors())

	return nil
}

func (c *coefficients) SampleNext(v *gibbs.Variable, vars *gibbs.VariableSet, rng *rand.Rand) error {
	noise := vars.Value(NoiseName)
	if noise == nil {
		return fmt.Errorf("%s: %w", NoiseName, gibbs.ErrNoInitialValue)
	}
	d := c.data
	n, p, m := d.Samples(), d.Regressors(), d.Columns()
	y := d.Y.RawData()
	beta, sigma2 := v.Value().Data(), noise.Data()

	for j := 0; j < m; j++ {
		s2 := sigma2[0]
		if len(sigma2) == m {
			s2 = sigma2[j]
		}
		// residual of column j under the current β_j
		for k := 0; k < p; k++ {
			c.col[k] = beta[k*m+j]
		}
		fit, err := matrix.MatVec(d.X, c.col)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			c.resid[i] = y[i*m+j] - fit[i]
		}
		for k := 0; k < p; k++ {
			old := beta[k*m+j]
			xr := c.xtx[k]*old + floats.Dot(c.cols[k], c.resid)
			prec := c.xtx[k]/s2 + 1/c.priorVar
			mean := xr / s2 / prec
			next := mean + rng.NormFloat64()/math.Sqrt(prec)
			beta[k*m+j] = next
			if delta := next - old; delta != 0 {
				floats.AddScaled(c.resid, -delta, c.cols[k])
			}
		}
	}

	return nil
}

// noiseVariance samples σ²_j ~ InvGamma(a0 + n/2, b0 + RSS_j/2).
type noiseVariance struct {
	linked
	shape, scale float64
}

// InitValue starts from the per-column sample variance of Y (1 when degenerate).
func (nv *noiseVariance) InitValue(v *gibbs.Variable, _ *gibbs.VariableSet) error {
	if v.Value() != nil {
		return nil
	}
	if nv.data == nil {
		return ErrNoData
	}
	sums, err := matrix.ColSums(nv.data.Y)
	if err != nil {
		return err
	}
	sq, err := matrix.ColSumsOfSquares(nv.data.Y)
	if err != nil {
		return err
	}
	n := float64(nv.data.Samples())
	init := ndarray.MustNew(nv.data.Columns())
	init.Apply(func(j int, _ float64) float64 {
		mean := sums[j] / n
		if s := sq[j]/n - mean*mean; s > 0 {
			return s
		}

		return 1
	})

	return v.SetValue(init)
}

func (nv *noiseVariance) SampleNext(v *gibbs.Variable, vars *gibbs.VariableSet, rng *rand.Rand) error {
	beta := vars.Value(BetaName)
	if beta == nil {
		return fmt.Errorf("%s: %w", BetaName, gibbs.ErrNoInitialValue)
	}
	rss, err := residualSumOfSquares(nv.data, beta)
	if err != nil {
		return err
	}
	half := float64(nv.data.Samples()) / 2
	out := v.Value().Data()
	for j := range out {
		out[j] = invGammaDraw(rng, nv.shape+half, nv.scale+rss[j]/2)
	}

	return nil
}

// prediction returns X·β as a Dense.
func prediction(d *Data, beta *ndarray.Array) (*matrix.Dense, error) {
	B, err := matrix.NewDenseFromData(d.Regressors(), d.Columns(), beta.Data())
	if err != nil {
		return nil, fmt.Errorf("beta: %w", err)
	}

	return matrix.Mul(d.X, B)
}

// residualSumOfSquares returns Σ_i (Y - Xβ)²_ij per column.
func residualSumOfSquares(d *Data, beta *ndarray.Array) ([]float64, error) {
	fit, err := prediction(d, beta)
	if err != nil {
		return nil, err
	}
	res, err := matrix.Sub(d.Y, fit)
	if err != nil {
		return nil, err
	}

	return matrix.ColSumsOfSquares(res)
}
