// SPDX-License-Identifier: MIT

// Package linreg is a conjugate Bayesian multi-output linear regression
// expressed as a Gibbs model for the gibbs engine.
//
// Model, for every output column j of Y (n×m) given design X (n×p):
//
//	y_j | β_j, σ²_j ~ N(X β_j, σ²_j I)
//	β_kj            ~ N(0, τ²)
//	σ²_j            ~ InvGamma(a0, b0)
//
// Variables:
//   - "beta"      (p×m)  one coefficient at a time from its Gaussian full conditional
//   - "noise_var" (m)    inverse-gamma full conditional per column
//
// Model implements the engine's sampler-level hooks: Fitter (X·β),
// FitAxesProvider, ParameterCounter (default BIC), GlobalObserver (running
// mean of the residual sum of squares) and GlobalOutputter.
//
// Simulate produces data with a known truth so the accuracy check of the
// engine can be exercised end to end.
package linreg
