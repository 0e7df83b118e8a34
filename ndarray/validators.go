// SPDX-License-Identifier: MIT
// Package ndarray: central validators.
// Every kernel routes its shape/nil/finite checks through these helpers so
// that error priority stays uniform: nil -> shape -> values.

package ndarray

import (
	"fmt"
	"math"
)

// ValidateNotNil returns ErrNilArray if a is nil.
func ValidateNotNil(a *Array) error {
	if a == nil {
		return ErrNilArray
	}

	return nil
}

// SameShape reports whether a and b have identical shapes. Nil arrays never match.
func SameShape(a, b *Array) bool {
	if a == nil || b == nil || len(a.shape) != len(b.shape) {
		return false
	}
	for d := range a.shape {
		if a.shape[d] != b.shape[d] {
			return false
		}
	}

	return true
}

// ValidateSameShape returns ErrNilArray or ErrDimensionMismatch unless a and b
// are both present and share a shape.
func ValidateSameShape(a, b *Array) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if !SameShape(a, b) {
		return fmt.Errorf("shapes %v and %v: %w", a.shape, b.shape, ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite returns ErrNaNInf if any element is NaN or ±Inf.
func ValidateFinite(a *Array) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	for i, v := range a.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("element %d=%g: %w", i, v, ErrNaNInf)
		}
	}

	return nil
}
