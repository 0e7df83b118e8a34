// SPDX-License-Identifier: MIT

// Package matrix provides a compact 2-D dense linear-algebra toolkit.
//
// What & Why:
//
//	Models plugged into the Gibbs engine need design matrices, products and
//	residuals. The Matrix interface and its row-major Dense implementation
//	give them bounds-checked accessors and deterministic kernels
//	(Add, Sub, Mul, Scale, MatVec, ColumnDot, column statistics).
//
// Complexity:
//
//	Rows/Cols O(1); At/Set O(1) with bounds checks; Clone O(r*c);
//	Mul O(r*n*c); other kernels O(r*c).
package matrix
