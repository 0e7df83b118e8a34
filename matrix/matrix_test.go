// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvgibbs/matrix"
)

// hide wraps any Matrix to hide its concrete type and force the At-based path.
type hide struct{ matrix.Matrix }

// mustRows builds a Dense from a rectangular literal or fails the test.
func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	var buf []float64
	for _, row := range rows {
		buf = append(buf, row...)
	}
	m, err := matrix.NewDenseFromData(len(rows), len(rows[0]), buf)
	require.NoError(t, err)

	return m
}

// TestNewDense_InvalidDimensions verifies the shape contract.
func TestNewDense_InvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 3)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewDense(2, -1)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestDense_AtSetBounds checks bounds errors and the NaN/Inf policy.
func TestDense_AtSetBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 0, 3.5))
	v, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 2, 1), matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
}

func TestNewDenseFromData(t *testing.T) {
	buf := []float64{1, 2, 3, 4, 5, 6}
	m, err := matrix.NewDenseFromData(2, 3, buf)
	require.NoError(t, err)
	buf[0] = 9
	v, _ := m.At(0, 0)
	assert.Equal(t, 1.0, v, "buffer is copied")

	_, err = matrix.NewDenseFromData(2, 2, buf)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.NewDenseFromData(0, 2, nil)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestMul_FastAndFallback compares the *Dense path with the hidden-type path.
func TestMul_FastAndFallback(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	b := mustRows(t, [][]float64{{1, 0, 2}, {0, 1, 3}})

	fast, err := matrix.Mul(a, b)
	require.NoError(t, err)
	slow, err := matrix.Mul(hide{a}, hide{b})
	require.NoError(t, err)

	want := []float64{1, 2, 8, 3, 4, 18, 5, 6, 28}
	assert.Equal(t, want, fast.RawData())
	assert.Equal(t, want, slow.RawData())

	_, err = matrix.Mul(a, a)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Mul(nil, a)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestAddSubScale(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := mustRows(t, [][]float64{{1, 1, 1}, {1, 1, 1}})

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4, 5, 6, 7}, sum.RawData())

	diff, err := matrix.Sub(a, hide{b})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, diff.RawData())

	sc, err := matrix.Scale(a, -1)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -2, -3, -4, -5, -6}, sc.RawData())

	c := mustRows(t, [][]float64{{1, 2}})
	_, err = matrix.Add(a, c)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestMatVecAndColumnDot(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})

	y, err := matrix.MatVec(a, []float64{1, -1})
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -1}, y)

	_, err = matrix.MatVec(a, []float64{1})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	d, err := matrix.ColumnDot(a, 0, a, 1)
	require.NoError(t, err)
	assert.Equal(t, 1*2.0+3*4.0, d)

	_, err = matrix.ColumnDot(a, 2, a, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)

	col, err := a.Column(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, col)
}

func TestColumnReductions(t *testing.T) {
	x := mustRows(t, [][]float64{{1, -2}, {3, 4}})

	s, err := matrix.ColSums(hide{x})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 2}, s)

	sq, err := matrix.ColSumsOfSquares(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, sq)
}

func TestClone_Independent(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}})
	b := a.Clone()
	require.NoError(t, b.Set(0, 0, 9))
	v, _ := a.At(0, 0)
	assert.Equal(t, 1.0, v)
}
