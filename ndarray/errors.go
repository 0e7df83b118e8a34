// SPDX-License-Identifier: MIT
// Package ndarray: sentinel error set.
// All kernels return these sentinels (optionally wrapped with call-site
// context via %w); tests match them with errors.Is.

package ndarray

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested shape has a non-positive axis.
	ErrBadShape = errors.New("ndarray: invalid shape")

	// ErrOutOfRange indicates an index outside the array bounds or a wrong index count.
	ErrOutOfRange = errors.New("ndarray: index out of range")

	// ErrDimensionMismatch indicates operands with incompatible shapes.
	ErrDimensionMismatch = errors.New("ndarray: dimension mismatch")

	// ErrNilArray indicates that a nil *Array was passed where a value is required.
	ErrNilArray = errors.New("ndarray: nil array")

	// ErrNaNInf signals a NaN or ±Inf element where finite values are required.
	ErrNaNInf = errors.New("ndarray: NaN or Inf encountered")

	// ErrEmptyStack is returned by Stack when called without operands.
	ErrEmptyStack = errors.New("ndarray: nothing to stack")
)

// Operation tags for error wrapping.
const (
	opNew       = "New"
	opFromSlice = "FromSlice"
	opAt        = "At"
	opSet       = "Set"
	opCopyFrom  = "CopyFrom"
	opAdd       = "AddInPlace"
	opSub       = "Sub"
	opMaximum   = "Maximum"
	opStack     = "Stack"
)

// arrayErrorf wraps err with an operation tag, preserving the sentinel via %w.
// Only call with err != nil.
func arrayErrorf(tag string, err error) error {
	return fmt.Errorf("ndarray.%s: %w", tag, err)
}
