// SPDX-License-Identifier: MIT
// Package gibbs - random generator plumbing.
//
// Every conditional draw goes through the *rand.Rand owned by its Sampler;
// nothing in the engine touches the process-wide math/rand source.
//
// Goals:
//   - Determinism: same seed ⇒ identical chains.
//   - Independence: RunChains derives one stream per chain from a base seed.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Never share one across chains.

package gibbs

import (
	"math/rand"
	"time"
)

// defaultRNGSeed is the base seed RunChains uses when no seed was supplied.
const defaultRNGSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand seeded verbatim.
func rngFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// rngFromClock returns an unseeded (time-based) generator for runs without WithSeed.
func rngFromClock() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed
// with a SplitMix64 finalizer, so neighbouring stream ids give decorrelated seeds.
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// deriveRNG creates an independent stream from base and a stream id.
// base.Int63() is consumed once per call, so derivations must happen in a
// fixed order (RunChains derives all chains before launching any).
// If base==nil, defaultRNGSeed is the parent.
func deriveRNG(base *rand.Rand, stream uint64) *rand.Rand {
	var parent int64
	if base == nil {
		parent = defaultRNGSeed
	} else {
		parent = base.Int63()
	}

	return rand.New(rand.NewSource(deriveSeed(parent, stream)))
}
