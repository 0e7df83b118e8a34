// SPDX-License-Identifier: MIT

// Package lvgibbs is a Gibbs-sampling toolkit: an iteration engine that
// drives interdependent random variables through their full conditionals,
// tracks posterior statistics online and checks the result.
//
// 🚀 What is in the box?
//
//	ndarray/        N-dimensional row-major float64 arrays (values, means, variances)
//	matrix/         2-D dense linear algebra and column statistics
//	gibbs/          Variable, Trajectory, Sampler, Callback, diagnostics, multi-chain runner
//	models/linreg/  conjugate Bayesian linear regression built on the gibbs extension points
//	config/         YAML run configuration with key=value overrides
//	cmd/lvgibbs/    command-line runner writing a YAML summary report
//
// ✨ Highlights
//
//   - systematic-scan sampling with read-after-write inside an iteration
//   - burn-in ("sweeps"), paced histories and bounded trajectories
//   - autocorrelation, median, accuracy against a known truth
//   - reconstruction error, Gaussian log-likelihood and BIC for models that fit data
//   - reproducible runs: every generator is an explicit *rand.Rand
//   - independent chains in parallel with Gelman–Rubin R-hat
//
// Quick start:
//
//	lvgibbs run --set iterations=2000 --chains 4 --out report.yaml
package lvgibbs
