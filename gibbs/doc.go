// SPDX-License-Identifier: MIT

// Package gibbs is a generic Gibbs-sampler iteration engine.
//
// 🚀 What is it?
//
//	A Sampler owns an ordered set of Variables and drives systematic-scan
//	Gibbs sampling: every iteration updates each variable in order from its
//	full conditional, so later variables read the values earlier ones
//	produced in the same iteration. After the burn-in boundary ("sweeps")
//	each variable accumulates its posterior mean and variance online.
//
// ✨ Key features:
//   - online observables with a variance floor and a negative-variance guard
//   - paced, bounded histories (raw samples, observables, global timings)
//   - Trajectory: paced snapshots of any quantity through a snapshot closure
//   - post-run diagnostics: autocorrelation test, posterior median,
//     accuracy check against a known true value (raise / log / ignore)
//   - optional fit diagnostics (reconstruction error, Gaussian
//     log-likelihood, BIC) when the model implements Fitter
//   - explicit *rand.Rand threading; RunChains runs independent chains in
//     parallel with derived generators and reports Gelman–Rubin R-hat
//
// ⚙️ Usage:
//
//	x, _ := gibbs.NewVariable("x", cond, gibbs.WithInitialValue(ndarray.Scalar(0)))
//	s, _ := gibbs.NewSampler([]*gibbs.Variable{x},
//		gibbs.WithIterations(1000), gibbs.WithSweeps(300), gibbs.WithSeed(7))
//	if err := s.RunSampling(ctx, nil); err != nil { ... }
//	outs, _ := s.Outputs()
//
// Concurrency:
//   - A single run is strictly sequential; a Sampler is not goroutine-safe.
//   - Parallelism exists only across chains, each owning its variables and generator.
package gibbs
