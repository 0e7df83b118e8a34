// SPDX-License-Identifier: MIT

// Package ndarray - Array storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a flat row-major buffer with an explicit shape and precomputed strides.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed flat loop orders).
//
// AI-Hints:
//   - Data() exposes the live buffer; use it in hot loops, Clone() for snapshots.
//   - Scalar(v) is the canonical rank-0 value; Item() reads it back.
//
// Complexity quicksheet:
//   - New: O(size) zero-init; At/Set: O(rank); Clone: O(size).

package ndarray

import (
	"fmt"
	"strings"
)

// Array is a dense N-dimensional float64 array.
//   - shape holds axis lengths (empty for a scalar).
//   - strides holds row-major strides (same length as shape).
//   - data holds Π shape elements in row-major order.
type Array struct {
	shape   []int
	strides []int
	data    []float64
}

var _ fmt.Stringer = (*Array)(nil)

// New creates a zero-filled array with the given shape.
// An empty shape yields a scalar. Every axis must be > 0.
//
// Errors:
//   - ErrBadShape when an axis length is <= 0.
//
// Complexity:
//   - Time O(size), Space O(size).
func New(shape ...int) (*Array, error) {
	size, err := sizeOf(shape)
	if err != nil {
		return nil, arrayErrorf(opNew, err)
	}

	return newWithData(shape, make([]float64, size)), nil
}

// MustNew is like New but panics on an invalid shape.
// Intended for package-level fixtures and tests with literal shapes.
func MustNew(shape ...int) *Array {
	a, err := New(shape...)
	if err != nil {
		panic(err)
	}

	return a
}

// Scalar returns a rank-0 array holding v.
func Scalar(v float64) *Array {
	return newWithData(nil, []float64{v})
}

// Vector returns a rank-1 array holding a copy of values.
// An empty input yields ErrBadShape.
func Vector(values ...float64) (*Array, error) {
	return FromSlice(values, len(values))
}

// FromSlice builds an array of the given shape from a copy of data.
//
// Errors:
//   - ErrBadShape when an axis length is <= 0.
//   - ErrDimensionMismatch when len(data) differs from the shape size.
func FromSlice(data []float64, shape ...int) (*Array, error) {
	size, err := sizeOf(shape)
	if err != nil {
		return nil, arrayErrorf(opFromSlice, err)
	}
	if len(data) != size {
		return nil, arrayErrorf(opFromSlice, fmt.Errorf("len=%d, shape size=%d: %w", len(data), size, ErrDimensionMismatch))
	}
	buf := make([]float64, size)
	copy(buf, data)

	return newWithData(shape, buf), nil
}

// ZerosLike returns a zero-filled array with the shape of a.
func ZerosLike(a *Array) *Array {
	return newWithData(a.shape, make([]float64, len(a.data)))
}

// FullLike returns an array with the shape of a where every element is v.
func FullLike(a *Array, v float64) *Array {
	out := ZerosLike(a)
	out.Fill(v)

	return out
}

// newWithData wires shape/strides around an already-sized buffer.
// The shape slice is copied so callers keep ownership of theirs.
func newWithData(shape []int, data []float64) *Array {
	sh := make([]int, len(shape))
	copy(sh, shape)
	st := make([]int, len(shape))
	stride := 1
	for d := len(sh) - 1; d >= 0; d-- {
		st[d] = stride
		stride *= sh[d]
	}

	return &Array{shape: sh, strides: st, data: data}
}

// sizeOf validates shape and returns its element count (1 for a scalar).
func sizeOf(shape []int) (int, error) {
	size := 1
	for _, n := range shape {
		if n <= 0 {
			return 0, fmt.Errorf("shape %v: %w", shape, ErrBadShape)
		}
		size *= n
	}

	return size, nil
}

// Shape returns a copy of the axis lengths.
func (a *Array) Shape() []int {
	out := make([]int, len(a.shape))
	copy(out, a.shape)

	return out
}

// NDim returns the number of axes (0 for a scalar).
func (a *Array) NDim() int { return len(a.shape) }

// Size returns the number of elements.
func (a *Array) Size() int { return len(a.data) }

// Data returns the live row-major buffer. Writes are visible in a.
func (a *Array) Data() []float64 { return a.data }

// Item returns the first element. For a scalar it is the value itself.
func (a *Array) Item() float64 { return a.data[0] }

// offset converts a multi-index into a flat offset.
func (a *Array) offset(tag string, idx []int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, arrayErrorf(tag, fmt.Errorf("got %d indices for rank %d: %w", len(idx), len(a.shape), ErrOutOfRange))
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= a.shape[d] {
			return 0, arrayErrorf(tag, fmt.Errorf("index %v: %w", idx, ErrOutOfRange))
		}
		off += i * a.strides[d]
	}

	return off, nil
}

// At returns the element at idx (one index per axis; none for a scalar).
func (a *Array) At(idx ...int) (float64, error) {
	off, err := a.offset(opAt, idx)
	if err != nil {
		return 0, err
	}

	return a.data[off], nil
}

// Set writes v at idx.
func (a *Array) Set(v float64, idx ...int) error {
	off, err := a.offset(opSet, idx)
	if err != nil {
		return err
	}
	a.data[off] = v

	return nil
}

// Clone returns a deep copy of a.
// Complexity: O(size).
func (a *Array) Clone() *Array {
	buf := make([]float64, len(a.data))
	copy(buf, a.data)

	return newWithData(a.shape, buf)
}

// Fill sets every element to v.
func (a *Array) Fill(v float64) {
	for i := range a.data {
		a.data[i] = v
	}
}

// CopyFrom overwrites a with the elements of b (same shape required).
func (a *Array) CopyFrom(b *Array) error {
	if err := ValidateSameShape(a, b); err != nil {
		return arrayErrorf(opCopyFrom, err)
	}
	copy(a.data, b.data)

	return nil
}

// String renders the shape and the flat buffer, e.g. "(2,2)[1 2 3 4]".
func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for d, n := range a.shape {
		if d > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", n)
	}
	sb.WriteByte(')')
	fmt.Fprintf(&sb, "%v", a.data)

	return sb.String()
}
