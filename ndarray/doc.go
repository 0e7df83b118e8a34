// SPDX-License-Identifier: MIT

// Package ndarray provides a small N-dimensional, row-major float64 array.
//
// What & Why:
//
//	Sampler variables hold scalars, vectors or higher-rank tensors. Array
//	gives them one container with an explicit shape, a flat cache-friendly
//	buffer and error-returning accessors, so numeric code never panics on
//	user input.
//
// Layout:
//
//	Element (i0, i1, ..., ik) lives at offset Σ i_d * stride_d, where
//	stride_k = 1 and stride_d = stride_{d+1} * shape_{d+1}.
//	A scalar is an Array with an empty shape and exactly one element.
//
// Determinism:
//
//	Every kernel walks the flat buffer in index order; no maps, no randomness.
//
// Complexity:
//
//	At/Set O(rank); Clone and elementwise kernels O(size).
package ndarray
