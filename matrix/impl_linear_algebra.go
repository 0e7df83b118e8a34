// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// element-wise addition and subtraction, matrix multiplication, scalar
// scaling, matrix-vector products and column dot products. All functions validate
// fail-fast and return sentinel errors on dimension mismatches.
//
// Determinism:
//   - Fixed i→k→j (Mul) and i→j (others) loop orders; no randomness.
//
// AI-Hints:
//   - Pass *Dense operands; other implementations are materialized once
//     through At (see asDense) and then share the flat fast-path.

package matrix

import "fmt"

// ZeroSum is the initial value of every accumulator.
const ZeroSum = 0.0

// asDense returns m itself when it is a *Dense, otherwise a Dense copy read through At.
// Complexity: O(1) for *Dense, O(r*c) otherwise.
func asDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	out, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < out.r; i++ {
		for j := 0; j < out.c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, fmt.Errorf("At(%d,%d): %w", i, j, err)
			}
			out.data[i*out.c+j] = v
		}
	}

	return out, nil
}

// addSub computes out = a + sign*b for sign ∈ {+1, -1}. Operands are not mutated.
func addSub(a, b Matrix, sign float64, opTag string) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	res, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	for idx := range res.data {
		res.data[idx] = da.data[idx] + sign*db.data[idx]
	}

	return res, nil
}

// Add returns a + b.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch (wrapped with "Add").
// Complexity: O(r*c).
func Add(a, b Matrix) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub returns a − b.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch (wrapped with "Sub").
// Complexity: O(r*c).
func Sub(a, b Matrix) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul returns the matrix product a × b.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b).
//   - Stage 2: row-major i→k→j accumulation, skipping zero a(i,k).
//
// Complexity: O(r*n*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewDense(da.r, db.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, j, k                            int
		av                                 float64
		rowOffsetA, rowOffsetB, rowOffsetR int
	)
	for i = 0; i < da.r; i++ {
		rowOffsetA = i * da.c
		rowOffsetR = i * db.c
		for k = 0; k < da.c; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowOffsetB = k * db.c
			for j = 0; j < db.c; j++ {
				res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// Scale returns alpha*m.
// Complexity: O(r*c).
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res, err := NewDense(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for idx, v := range d.data {
		res.data[idx] = alpha * v
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; len(x) == m.Cols().
// Complexity: Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, d.r)
	var acc float64
	for i := 0; i < d.r; i++ {
		acc = ZeroSum
		base := i * d.c
		for j := 0; j < d.c; j++ {
			if x[j] != 0 {
				acc += d.data[base+j] * x[j]
			}
		}
		y[i] = acc
	}

	return y, nil
}

// ColumnDot returns Σ_i a(i,ja)·b(i,jb) for two matrices with the same row count.
// Used for per-regressor sufficient statistics without materializing aᵀb.
// Complexity: O(r).
func ColumnDot(a Matrix, ja int, b Matrix, jb int) (float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return 0, matrixErrorf(opColumnDot, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return 0, matrixErrorf(opColumnDot, err)
	}
	if a.Rows() != b.Rows() {
		return 0, matrixErrorf(opColumnDot, ErrDimensionMismatch)
	}
	if ja < 0 || ja >= a.Cols() || jb < 0 || jb >= b.Cols() {
		return 0, matrixErrorf(opColumnDot, ErrOutOfRange)
	}
	da, err := asDense(a)
	if err != nil {
		return 0, matrixErrorf(opColumnDot, err)
	}
	db, err := asDense(b)
	if err != nil {
		return 0, matrixErrorf(opColumnDot, err)
	}
	s := ZeroSum
	for i := 0; i < da.r; i++ {
		s += da.data[i*da.c+ja] * db.data[i*db.c+jb]
	}

	return s, nil
}
