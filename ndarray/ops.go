// SPDX-License-Identifier: MIT
// Package ndarray: element-wise kernels.
//
// Purpose:
//   - In-place kernels used by online statistics and conditionals (AddInPlace, ScaleInPlace, Apply).
//   - Sum, used to count inaccurate elements.
//   - Allocating kernels for diagnostics (Sub, Abs, Maximum, Stack).
//
// Determinism:
//   - Single flat loop 0..size-1 everywhere.

package ndarray

import (
	"fmt"
	"math"
)

// AddInPlace performs a += b.
func (a *Array) AddInPlace(b *Array) error {
	if err := ValidateSameShape(a, b); err != nil {
		return arrayErrorf(opAdd, err)
	}
	for i, v := range b.data {
		a.data[i] += v
	}

	return nil
}

// ScaleInPlace performs a *= alpha.
func (a *Array) ScaleInPlace(alpha float64) {
	for i := range a.data {
		a.data[i] *= alpha
	}
}

// Apply replaces every element with f(flatIndex, value).
func (a *Array) Apply(f func(i int, v float64) float64) {
	for i, v := range a.data {
		a.data[i] = f(i, v)
	}
}

// Sum returns the sum of all elements.
func (a *Array) Sum() float64 {
	s := 0.0
	for _, v := range a.data {
		s += v
	}

	return s
}

// Sub returns a fresh a - b.
func Sub(a, b *Array) (*Array, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, arrayErrorf(opSub, err)
	}
	out := ZerosLike(a)
	for i := range a.data {
		out.data[i] = a.data[i] - b.data[i]
	}

	return out, nil
}

// Abs returns a fresh |a|.
func Abs(a *Array) *Array {
	out := ZerosLike(a)
	for i, v := range a.data {
		out.data[i] = math.Abs(v)
	}

	return out
}

// Maximum returns the element-wise max(a, b).
func Maximum(a, b *Array) (*Array, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, arrayErrorf(opMaximum, err)
	}
	out := ZerosLike(a)
	for i := range a.data {
		out.data[i] = math.Max(a.data[i], b.data[i])
	}

	return out, nil
}

// Stack joins same-shaped arrays along a new leading axis.
// Stacking k arrays of shape S yields shape (k, S...). Operands are copied.
//
// Errors:
//   - ErrEmptyStack with no operands.
//   - ErrNilArray / ErrDimensionMismatch for nil or mismatched operands.
func Stack(arrs ...*Array) (*Array, error) {
	if len(arrs) == 0 {
		return nil, arrayErrorf(opStack, ErrEmptyStack)
	}
	first := arrs[0]
	if err := ValidateNotNil(first); err != nil {
		return nil, arrayErrorf(opStack, err)
	}
	n := first.Size()
	buf := make([]float64, 0, n*len(arrs))
	for k, a := range arrs {
		if err := ValidateSameShape(first, a); err != nil {
			return nil, arrayErrorf(opStack, fmt.Errorf("operand %d: %w", k, err))
		}
		buf = append(buf, a.data...)
	}
	shape := append([]int{len(arrs)}, first.shape...)

	return newWithData(shape, buf), nil
}
