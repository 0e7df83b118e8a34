// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Column reductions used by regression sufficient statistics and
//     reconstruction diagnostics (per-column sums and sums of squares).
//
// Determinism:
//   - Fixed i→j traversal over the row-major buffer.

package matrix

// ColSums returns Σ_i X[i,j] for every column j.
// Complexity: O(r*c).
func ColSums(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opColSums, err)
	}
	d, err := asDense(X)
	if err != nil {
		return nil, matrixErrorf(opColSums, err)
	}
	out := make([]float64, d.c)
	for i := 0; i < d.r; i++ {
		base := i * d.c
		for j := 0; j < d.c; j++ {
			out[j] += d.data[base+j]
		}
	}

	return out, nil
}

// ColSumsOfSquares returns Σ_i X[i,j]² for every column j.
// Applied to a residual matrix it yields the per-column residual sum of squares.
// Complexity: O(r*c).
func ColSumsOfSquares(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opColSumsSqrs, err)
	}
	d, err := asDense(X)
	if err != nil {
		return nil, matrixErrorf(opColSumsSqrs, err)
	}
	out := make([]float64, d.c)
	var v float64
	for i := 0; i < d.r; i++ {
		base := i * d.c
		for j := 0; j < d.c; j++ {
			v = d.data[base+j]
			out[j] += v * v
		}
	}

	return out, nil
}
