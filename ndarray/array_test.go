// SPDX-License-Identifier: MIT

package ndarray_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

// TestNew_ShapeValidation verifies zero-filled allocation and ErrBadShape on bad axes.
func TestNew_ShapeValidation(t *testing.T) {
	a, err := ndarray.New(2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, a.Shape())
	assert.Equal(t, 6, a.Size())
	assert.Equal(t, 2, a.NDim())
	for _, v := range a.Data() {
		assert.Zero(t, v)
	}

	_, err = ndarray.New(2, 0)
	assert.ErrorIs(t, err, ndarray.ErrBadShape)
	_, err = ndarray.New(-1)
	assert.ErrorIs(t, err, ndarray.ErrBadShape)
}

// TestScalar_RankZero checks that a scalar has no axes and one element.
func TestScalar_RankZero(t *testing.T) {
	s := ndarray.Scalar(4.5)
	assert.Equal(t, 0, s.NDim())
	assert.Equal(t, 1, s.Size())
	assert.Equal(t, 4.5, s.Item())

	v, err := s.At()
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)
}

// TestAtSet_RowMajor checks the row-major offset formula and bounds errors.
func TestAtSet_RowMajor(t *testing.T) {
	a, err := ndarray.FromSlice([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, 2, 3, 2)
	require.NoError(t, err)

	v, err := a.At(1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 11.0, v)

	require.NoError(t, a.Set(-1, 0, 1, 0))
	assert.Equal(t, -1.0, a.Data()[2])

	_, err = a.At(2, 0, 0)
	assert.ErrorIs(t, err, ndarray.ErrOutOfRange)
	_, err = a.At(0, 0)
	assert.ErrorIs(t, err, ndarray.ErrOutOfRange)
}

// TestFromSlice_CopiesInput ensures the caller's slice is not aliased.
func TestFromSlice_CopiesInput(t *testing.T) {
	src := []float64{1, 2}
	a, err := ndarray.FromSlice(src, 2)
	require.NoError(t, err)
	src[0] = 99
	assert.Equal(t, 1.0, a.Data()[0])

	_, err = ndarray.FromSlice(src, 3)
	assert.ErrorIs(t, err, ndarray.ErrDimensionMismatch)
}

// TestClone_Independent checks deep-copy semantics.
func TestClone_Independent(t *testing.T) {
	a, _ := ndarray.Vector(1, 2, 3)
	b := a.Clone()
	b.Data()[0] = 42
	assert.Equal(t, 1.0, a.Data()[0])
	assert.Equal(t, a.Shape(), b.Shape())
}

func TestInPlaceKernels(t *testing.T) {
	a, _ := ndarray.Vector(1, 2, 3)
	b, _ := ndarray.Vector(1, 1, 1)

	require.NoError(t, a.AddInPlace(b))
	assert.Equal(t, []float64{2, 3, 4}, a.Data())

	a.ScaleInPlace(2)
	assert.Equal(t, []float64{4, 6, 8}, a.Data())
	assert.Equal(t, 18.0, a.Sum())

	c, _ := ndarray.Vector(1, 2)
	assert.ErrorIs(t, a.AddInPlace(c), ndarray.ErrDimensionMismatch)
	assert.ErrorIs(t, a.AddInPlace(nil), ndarray.ErrNilArray)
}

// TestStack_LeadingAxis verifies a new leading axis and row-major layout.
func TestStack_LeadingAxis(t *testing.T) {
	a, _ := ndarray.Vector(1, 2)
	b, _ := ndarray.Vector(3, 4)
	s, err := ndarray.Stack(a, b, a)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, s.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 1, 2}, s.Data())

	sc, err := ndarray.Stack(ndarray.Scalar(1), ndarray.Scalar(2))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, sc.Shape())

	_, err = ndarray.Stack()
	assert.ErrorIs(t, err, ndarray.ErrEmptyStack)

	c, _ := ndarray.Vector(1, 2, 3)
	_, err = ndarray.Stack(a, c)
	assert.ErrorIs(t, err, ndarray.ErrDimensionMismatch)
}

func TestValidateFinite(t *testing.T) {
	a, _ := ndarray.Vector(1, math.Inf(1))
	assert.ErrorIs(t, ndarray.ValidateFinite(a), ndarray.ErrNaNInf)
	assert.ErrorIs(t, ndarray.ValidateFinite(nil), ndarray.ErrNilArray)
	assert.NoError(t, ndarray.ValidateFinite(ndarray.Scalar(0)))
}

func TestAbsMaximumSub(t *testing.T) {
	a, _ := ndarray.Vector(-1, 2)
	b, _ := ndarray.Vector(0.5, -3)

	assert.Equal(t, []float64{1, 2}, ndarray.Abs(a).Data())

	m, err := ndarray.Maximum(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 2}, m.Data())

	d, err := ndarray.Sub(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1.5, 5}, d.Data())
}
